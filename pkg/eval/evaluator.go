package eval

import (
	"math/rand"
	"sync/atomic"

	"gonum.org/v1/gonum/stat"

	"github.com/evoscope/symgp/pkg/dataset"
	"github.com/evoscope/symgp/pkg/evolve"
)

// MSEEvaluator scores an individual by mean squared error against the target
// column over the training range. Lower is better. Non-finite predictions
// propagate into the score unclamped; the recombinator decides what to do
// with them. The evaluation counter is cumulative and safe under concurrent
// trials.
type MSEEvaluator struct {
	data          *dataset.Dataset
	target        int
	trainingRange dataset.Range
	interp        Interpreter
	count         atomic.Uint64
}

// NewMSEEvaluator builds an evaluator over the dataset's target column and
// training range.
func NewMSEEvaluator(data *dataset.Dataset, target int, trainingRange dataset.Range) *MSEEvaluator {
	return &MSEEvaluator{data: data, target: target, trainingRange: trainingRange}
}

// Evaluate scores one individual and bumps the counter.
func (e *MSEEvaluator) Evaluate(rng *rand.Rand, ind *evolve.Individual) float64 {
	e.count.Add(1)
	predicted := e.interp.Evaluate(&ind.Genotype, e.data, e.trainingRange)
	return MeanSquaredError(predicted, e.data.Column(e.target)[e.trainingRange.Start:e.trainingRange.End])
}

// Evaluations returns the cumulative evaluation count.
func (e *MSEEvaluator) Evaluations() uint64 { return e.count.Load() }

// RSquaredEvaluator scores an individual by the coefficient of
// determination. Higher is better; pair it with a maximizing selector.
type RSquaredEvaluator struct {
	data          *dataset.Dataset
	target        int
	trainingRange dataset.Range
	interp        Interpreter
	count         atomic.Uint64
}

// NewRSquaredEvaluator builds an evaluator over the dataset's target column
// and training range.
func NewRSquaredEvaluator(data *dataset.Dataset, target int, trainingRange dataset.Range) *RSquaredEvaluator {
	return &RSquaredEvaluator{data: data, target: target, trainingRange: trainingRange}
}

// Evaluate scores one individual and bumps the counter.
func (e *RSquaredEvaluator) Evaluate(rng *rand.Rand, ind *evolve.Individual) float64 {
	e.count.Add(1)
	predicted := e.interp.Evaluate(&ind.Genotype, e.data, e.trainingRange)
	actual := e.data.Column(e.target)[e.trainingRange.Start:e.trainingRange.End]
	return stat.RSquaredFrom(predicted, actual, nil)
}

// Evaluations returns the cumulative evaluation count.
func (e *RSquaredEvaluator) Evaluations() uint64 { return e.count.Load() }

// MeanSquaredError computes the mean of squared residuals between two
// equally sized slices.
func MeanSquaredError(predicted, actual []float64) float64 {
	sum := 0.0
	for i := range predicted {
		r := predicted[i] - actual[i]
		sum += r * r
	}
	return sum / float64(len(predicted))
}
