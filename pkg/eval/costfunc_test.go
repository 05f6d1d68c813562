package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// linearResidual implements r(p) = A*p - b, whose Jacobian is A exactly.
type linearResidual struct {
	a *mat.Dense
	b []float64
}

func (f *linearResidual) NumParameters() int { _, c := f.a.Dims(); return c }
func (f *linearResidual) NumResiduals() int  { r, _ := f.a.Dims(); return r }

func (f *linearResidual) Residuals(parameters, residuals []float64) bool {
	rows, cols := f.a.Dims()
	for k := 0; k < rows; k++ {
		sum := -f.b[k]
		for j := 0; j < cols; j++ {
			sum += f.a.At(k, j) * parameters[j]
		}
		residuals[k] = sum
	}
	return true
}

func (f *linearResidual) ResidualsDual(parameters, residuals []Dual) bool {
	rows, cols := f.a.Dims()
	for k := 0; k < rows; k++ {
		sum := Value(-f.b[k])
		for j := 0; j < cols; j++ {
			sum = sum.Add(parameters[j].Scale(f.a.At(k, j)))
		}
		residuals[k] = sum
	}
	return true
}

func newLinearResidual(rows, cols int) *linearResidual {
	a := mat.NewDense(rows, cols, nil)
	for k := 0; k < rows; k++ {
		for j := 0; j < cols; j++ {
			a.Set(k, j, float64(1+k*cols+j))
		}
	}
	b := make([]float64, rows)
	for k := range b {
		b[k] = float64(k)
	}
	return &linearResidual{a: a, b: b}
}

func parametersFor(n int) []float64 {
	p := make([]float64, n)
	for i := range p {
		p[i] = 0.5 * float64(i+1)
	}
	return p
}

func TestCostFunctionJacobianEqualsA(t *testing.T) {
	// parameter counts below, equal to, and above one stride width,
	// exercising the partial final stride
	for _, cols := range []int{2, Stride, 7} {
		functor := newLinearResidual(3, cols)
		params := parametersFor(cols)

		t.Run("row major", func(t *testing.T) {
			cf := NewCostFunction(functor, RowMajor)
			residuals := make([]float64, 3)
			jacobian := make([]float64, 3*cols)
			require.True(t, cf.Evaluate(params, residuals, jacobian))

			for k := 0; k < 3; k++ {
				for j := 0; j < cols; j++ {
					assert.InDelta(t, functor.a.At(k, j), jacobian[k*cols+j], 1e-12)
				}
			}
		})

		t.Run("column major", func(t *testing.T) {
			cf := NewCostFunction(functor, ColMajor)
			residuals := make([]float64, 3)
			jacobian := make([]float64, 3*cols)
			require.True(t, cf.Evaluate(params, residuals, jacobian))

			for k := 0; k < 3; k++ {
				for j := 0; j < cols; j++ {
					assert.InDelta(t, functor.a.At(k, j), jacobian[j*3+k], 1e-12)
				}
			}
		})
	}
}

func TestCostFunctionResidualsMatchPlainPath(t *testing.T) {
	functor := newLinearResidual(4, 5)
	params := parametersFor(5)

	direct := make([]float64, 4)
	require.True(t, functor.Residuals(params, direct))

	cf := NewCostFunction(functor, RowMajor)
	withJacobian := make([]float64, 4)
	jacobian := make([]float64, 4*5)
	require.True(t, cf.Evaluate(params, withJacobian, jacobian))

	for k := range direct {
		assert.InDelta(t, direct[k], withJacobian[k], 1e-12)
	}
}

func TestCostFunctionNilJacobianDelegates(t *testing.T) {
	functor := newLinearResidual(3, 2)
	cf := NewCostFunction(functor, RowMajor)

	residuals := make([]float64, 3)
	require.True(t, cf.Evaluate(parametersFor(2), residuals, nil))

	expected := make([]float64, 3)
	functor.Residuals(parametersFor(2), expected)
	assert.Equal(t, expected, residuals)
}

// failingResidual fails on every dual pass.
type failingResidual struct{ *linearResidual }

func (f *failingResidual) ResidualsDual(parameters, residuals []Dual) bool { return false }

func TestCostFunctionPropagatesFailure(t *testing.T) {
	functor := &failingResidual{newLinearResidual(3, 6)}
	cf := NewCostFunction(functor, RowMajor)

	residuals := make([]float64, 3)
	jacobian := make([]float64, 3*6)
	assert.False(t, cf.Evaluate(parametersFor(6), residuals, jacobian))
}
