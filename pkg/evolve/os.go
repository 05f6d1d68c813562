package evolve

import (
	"math/rand"
	"sync/atomic"
)

// OSRecombinator implements offspring selection: a candidate is accepted only
// when it strictly improves on the best contributing parent; otherwise the
// trial produces nothing and the driver retries, consuming evaluation budget.
// The selection pressure, the ratio of budget consumed since Prepare to
// population size, doubles as a stall detector: once it exceeds
// MaxSelectionPressure the strategy asks the generational loop to stop.
// That is ordinary control flow signalling convergence, not an error.
type OSRecombinator struct {
	evaluator Evaluator
	selector  Selector
	crossover Crossover
	mutator   Mutator

	maxSelectionPressure float64
	// written once in Prepare (single-threaded), read by concurrent trials
	lastEvaluations atomic.Uint64
}

// NewOSRecombinator wires the collaborators into an offspring-selection
// strategy with the given pressure limit.
func NewOSRecombinator(evaluator Evaluator, selector Selector, crossover Crossover, mutator Mutator, maxSelectionPressure float64) *OSRecombinator {
	return &OSRecombinator{
		evaluator:            evaluator,
		selector:             selector,
		crossover:            crossover,
		mutator:              mutator,
		maxSelectionPressure: maxSelectionPressure,
	}
}

// MaxSelectionPressure returns the configured pressure limit.
func (r *OSRecombinator) MaxSelectionPressure() float64 { return r.maxSelectionPressure }

// Prepare delegates to the selector and resets the evaluation baseline from
// the evaluator's cumulative counter. Must run once per generation,
// single-threaded, before any concurrent trial.
func (r *OSRecombinator) Prepare(population []Individual) {
	r.selector.Prepare(population)
	r.lastEvaluations.Store(r.evaluator.Evaluations())
}

// SelectionPressure is the evaluation budget consumed since Prepare divided
// by the population size.
func (r *OSRecombinator) SelectionPressure() float64 {
	population := r.selector.Population()
	if len(population) == 0 {
		return 0
	}
	consumed := r.evaluator.Evaluations() - r.lastEvaluations.Load()
	return float64(consumed) / float64(len(population))
}

// Terminate fires once the selection pressure exceeds the configured limit.
func (r *OSRecombinator) Terminate() bool {
	return r.SelectionPressure() > r.maxSelectionPressure
}

// Recombine runs one trial. The second return is false when the gating draws
// enable nothing, when the candidate's fitness is non-finite, or when the
// candidate fails to strictly improve on its best contributing parent.
func (r *OSRecombinator) Recombine(rng *rand.Rand, pCrossover, pMutation float64) (Individual, bool) {
	doCrossover := rng.Float64() < pCrossover
	doMutation := rng.Float64() < pMutation
	if !doCrossover && !doMutation {
		return Individual{}, false
	}

	population := r.selector.Population()
	idx := r.selector.ObjectiveIndex()
	maximization := r.selector.Maximization()

	first := r.selector.Select(rng)
	target := population[first].Fitness[idx]
	child := NewIndividual(population[first].Genotype.Clone())

	if doCrossover {
		second := r.selector.Select(rng)
		child.Genotype = r.crossover.Cross(rng, &population[first].Genotype, &population[second].Genotype)
		if better(population[second].Fitness[idx], target, maximization) {
			target = population[second].Fitness[idx]
		}
	}
	if doMutation {
		child.Genotype = r.mutator.Mutate(rng, child.Genotype)
	}

	fitness := r.evaluator.Evaluate(rng, &child)
	if !isFinite(fitness) || !better(fitness, target, maximization) {
		return Individual{}, false
	}
	child.Fitness = makeFitness(idx, fitness)
	return child, true
}
