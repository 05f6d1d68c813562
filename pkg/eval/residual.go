package eval

import (
	"math"

	"github.com/evoscope/symgp/pkg/dataset"
	"github.com/evoscope/symgp/pkg/tree"
)

// TreeResidual is the residual functor used for local coefficient tuning:
// parameters are the tree's leaf coefficients, residuals are prediction minus
// target over the training range. It satisfies ResidualFunctor for use with
// CostFunction and an external least-squares solver.
type TreeResidual struct {
	tree      *tree.Tree
	data      *dataset.Dataset
	targetCol int
	rng       dataset.Range
	interp    Interpreter
}

// NewTreeResidual builds the functor. The tree must be updated; the target
// column index must be valid.
func NewTreeResidual(t *tree.Tree, d *dataset.Dataset, targetCol int, r dataset.Range) *TreeResidual {
	return &TreeResidual{tree: t, data: d, targetCol: targetCol, rng: r}
}

// NumParameters is the tree's coefficient count, read at call time.
func (f *TreeResidual) NumParameters() int { return f.tree.CoefficientsCount() }

// NumResiduals is the number of training rows.
func (f *TreeResidual) NumResiduals() int { return f.rng.Size() }

// Residuals evaluates prediction-minus-target for the given coefficients.
// Returns false when any residual is non-finite.
func (f *TreeResidual) Residuals(parameters, residuals []float64) bool {
	values := f.interp.EvaluateWithCoefficients(f.tree, f.data, f.rng, parameters)
	ok := true
	for i, v := range values {
		r := v - f.data.Value(f.targetCol, f.rng.Start+i)
		residuals[i] = r
		if math.IsNaN(r) || math.IsInf(r, 0) {
			ok = false
		}
	}
	return ok
}

// ResidualsDual is the forward-mode variant; tangents flow through the
// prediction while the target contributes only to the value part.
func (f *TreeResidual) ResidualsDual(parameters, residuals []Dual) bool {
	f.interp.EvaluateDual(f.tree, f.data, f.rng, parameters, residuals)
	ok := true
	for i := range residuals {
		residuals[i].A -= f.data.Value(f.targetCol, f.rng.Start+i)
		if math.IsNaN(residuals[i].A) || math.IsInf(residuals[i].A, 0) {
			ok = false
		}
	}
	return ok
}
