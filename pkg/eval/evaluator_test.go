package eval

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoscope/symgp/pkg/dataset"
	"github.com/evoscope/symgp/pkg/evolve"
	"github.com/evoscope/symgp/pkg/tree"
)

func regressionData(t *testing.T) *dataset.Dataset {
	t.Helper()
	// y = 2*x0 exactly
	d, err := dataset.New(
		[]string{"x0", "y"},
		[][]float64{
			{1, 2, 3, 4},
			{2, 4, 6, 8},
		},
	)
	require.NoError(t, err)
	return d
}

func TestMSEEvaluatorPerfectModelScoresZero(t *testing.T) {
	d := regressionData(t)
	e := NewMSEEvaluator(d, 1, d.FullRange())

	ind := evolve.NewIndividual(updated(tree.NewVariable(0, 2)))
	assert.Zero(t, e.Evaluate(rand.New(rand.NewSource(1)), &ind))
	assert.Equal(t, uint64(1), e.Evaluations())
}

func TestMSEEvaluatorConstantModel(t *testing.T) {
	d := regressionData(t)
	e := NewMSEEvaluator(d, 1, d.FullRange())

	// predicting 5 everywhere: residuals {3,1,-1,-3}, mse = 20/4
	ind := evolve.NewIndividual(updated(tree.NewConstant(5)))
	assert.InDelta(t, 5.0, e.Evaluate(rand.New(rand.NewSource(1)), &ind), 1e-12)
}

func TestMSEEvaluatorRespectsRange(t *testing.T) {
	d := regressionData(t)
	e := NewMSEEvaluator(d, 1, dataset.Range{Start: 0, End: 2})

	// residuals on the first two rows only: {2-2, 2-4} -> mse = 4/2
	ind := evolve.NewIndividual(updated(tree.NewConstant(2)))
	assert.InDelta(t, 2.0, e.Evaluate(rand.New(rand.NewSource(1)), &ind), 1e-12)
}

func TestMSEEvaluatorCounterAccumulates(t *testing.T) {
	d := regressionData(t)
	e := NewMSEEvaluator(d, 1, d.FullRange())
	ind := evolve.NewIndividual(updated(tree.NewConstant(0)))
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5; i++ {
		e.Evaluate(rng, &ind)
	}
	assert.Equal(t, uint64(5), e.Evaluations())
}

func TestRSquaredEvaluatorPerfectModelScoresOne(t *testing.T) {
	d := regressionData(t)
	e := NewRSquaredEvaluator(d, 1, d.FullRange())

	ind := evolve.NewIndividual(updated(tree.NewVariable(0, 2)))
	assert.InDelta(t, 1.0, e.Evaluate(rand.New(rand.NewSource(1)), &ind), 1e-12)
	assert.Equal(t, uint64(1), e.Evaluations())
}

func TestRSquaredEvaluatorMeanModelScoresZero(t *testing.T) {
	d := regressionData(t)
	e := NewRSquaredEvaluator(d, 1, d.FullRange())

	// predicting the target mean explains none of the variance
	ind := evolve.NewIndividual(updated(tree.NewConstant(5)))
	assert.InDelta(t, 0.0, e.Evaluate(rand.New(rand.NewSource(1)), &ind), 1e-12)
}

func TestMeanSquaredError(t *testing.T) {
	assert.InDelta(t, 0.0, MeanSquaredError([]float64{1, 2}, []float64{1, 2}), 1e-12)
	assert.InDelta(t, 2.5, MeanSquaredError([]float64{1, 2}, []float64{2, 4}), 1e-12)
}
