package evolve

import "math/rand"

// PlusRecombinator implements the elitist survivor policy: the candidate
// replaces its lineage only when it is at least as good as the best
// contributing parent, so a reproduction event can never worsen the lineage's
// fitness. It holds no per-trial state beyond the shared collaborators and is
// safe to call from concurrent trials after Prepare.
type PlusRecombinator struct {
	evaluator Evaluator
	selector  Selector
	crossover Crossover
	mutator   Mutator
}

// NewPlusRecombinator wires the collaborators into a plus-selection strategy.
func NewPlusRecombinator(evaluator Evaluator, selector Selector, crossover Crossover, mutator Mutator) *PlusRecombinator {
	return &PlusRecombinator{evaluator: evaluator, selector: selector, crossover: crossover, mutator: mutator}
}

// Prepare delegates to the selector. Must run once per generation,
// single-threaded, before any trial.
func (r *PlusRecombinator) Prepare(population []Individual) {
	r.selector.Prepare(population)
}

// Terminate never fires for the plus strategy; the driver bounds the run by
// generations and evaluation budget instead.
func (r *PlusRecombinator) Terminate() bool { return false }

// Recombine runs one trial. The second return is false only when the two
// gating draws enable neither crossover nor mutation.
func (r *PlusRecombinator) Recombine(rng *rand.Rand, pCrossover, pMutation float64) (Individual, bool) {
	doCrossover := rng.Float64() < pCrossover
	doMutation := rng.Float64() < pMutation
	if !doCrossover && !doMutation {
		return Individual{}, false
	}

	population := r.selector.Population()
	idx := r.selector.ObjectiveIndex()
	maximization := r.selector.Maximization()

	first := r.selector.Select(rng)
	bestParent := first
	child := NewIndividual(population[first].Genotype.Clone())

	if doCrossover {
		second := r.selector.Select(rng)
		child.Genotype = r.crossover.Cross(rng, &population[first].Genotype, &population[second].Genotype)
		if better(population[second].Fitness[idx], population[first].Fitness[idx], maximization) {
			bestParent = second
		}
	}
	if doMutation {
		child.Genotype = r.mutator.Mutate(rng, child.Genotype)
	}

	fitness := r.evaluator.Evaluate(rng, &child)
	if !isFinite(fitness) {
		fitness = worstFitness(maximization)
	}
	child.Fitness = makeFitness(idx, fitness)

	// elitist: a candidate that loses to its best parent is discarded and the
	// parent survives in its place
	if better(population[bestParent].Fitness[idx], fitness, maximization) {
		return population[bestParent].Clone(), true
	}
	return child, true
}

func makeFitness(idx int, value float64) []float64 {
	fitness := make([]float64, idx+1)
	fitness[idx] = value
	return fitness
}
