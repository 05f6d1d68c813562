package evolve

import (
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingEvaluator exposes its counter directly so tests can simulate budget
// consumption without scripting fitness values.
type tickingEvaluator struct {
	fitness float64
	count   atomic.Uint64
}

func (e *tickingEvaluator) Evaluate(rng *rand.Rand, ind *Individual) float64 {
	e.count.Add(1)
	return e.fitness
}
func (e *tickingEvaluator) Evaluations() uint64 { return e.count.Load() }

func TestOSRecombinatorSelectionPressure(t *testing.T) {
	population := make([]Individual, 10)
	for i := range population {
		population[i] = constantIndividual(float64(i), float64(i))
	}
	selector := &fakeSelector{}
	evaluator := &tickingEvaluator{fitness: 100}
	r := NewOSRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{}, 2.0)
	r.Prepare(population)

	assert.Zero(t, r.SelectionPressure())
	assert.False(t, r.Terminate())

	evaluator.count.Store(25)
	assert.InDelta(t, 2.5, r.SelectionPressure(), 1e-12)
	assert.True(t, r.Terminate())
}

func TestOSRecombinatorPressureResetsOnPrepare(t *testing.T) {
	population := make([]Individual, 10)
	for i := range population {
		population[i] = constantIndividual(float64(i), float64(i))
	}
	selector := &fakeSelector{}
	evaluator := &tickingEvaluator{fitness: 100}
	r := NewOSRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{}, 2.0)
	r.Prepare(population)
	evaluator.count.Store(25)
	require.True(t, r.Terminate())

	// next generation starts from the current cumulative counter
	r.Prepare(population)
	assert.Zero(t, r.SelectionPressure())
	assert.False(t, r.Terminate())
}

func TestOSRecombinatorRequiresStrictImprovement(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{5.0}}
	r := NewOSRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{}, 100)
	r.Prepare(population)

	// matching the best parent exactly is not an improvement
	_, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	assert.False(t, ok)
}

func TestOSRecombinatorAcceptsStrictImprovement(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{4.5}}
	r := NewOSRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{}, 100)
	r.Prepare(population)

	child, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	require.True(t, ok)
	assert.Equal(t, 4.5, child.Fitness[0])
}

func TestOSRecombinatorRejectsNonFinite(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{math.Inf(-1)}}
	r := NewOSRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{}, 100)
	r.Prepare(population)

	// -Inf would win a minimization comparison, but non-finite candidates are
	// always discarded
	_, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	assert.False(t, ok)
}

func TestOSRecombinatorFailedTrialStillConsumesBudget(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{9.0}}
	r := NewOSRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{}, 100)
	r.Prepare(population)

	_, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), evaluator.Evaluations())
	assert.InDelta(t, 0.5, r.SelectionPressure(), 1e-12)
}
