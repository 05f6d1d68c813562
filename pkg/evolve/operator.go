package evolve

import (
	"math"
	"math/rand"

	"github.com/evoscope/symgp/pkg/tree"
)

// Evaluator computes one individual's fitness. Implementations expose a
// monotonically increasing cumulative evaluation counter that must be safe to
// read and bump from concurrent trials.
type Evaluator interface {
	Evaluate(rng *rand.Rand, ind *Individual) float64
	Evaluations() uint64
}

// Selector picks parents out of the population it was prepared with. Prepare
// runs single-threaded before a generation's trials; Select may be called
// from many trials concurrently and must not mutate shared state.
type Selector interface {
	Select(rng *rand.Rand) int
	Population() []Individual
	Prepare(population []Individual)
	Maximization() bool
	ObjectiveIndex() int
}

// Crossover combines two parent genotypes into a child genotype, leaving the
// parents untouched.
type Crossover interface {
	Cross(rng *rand.Rand, a, b *tree.Tree) tree.Tree
}

// Mutator transforms a genotype. The input is consumed: callers pass an owned
// copy, never a population member.
type Mutator interface {
	Mutate(rng *rand.Rand, genotype tree.Tree) tree.Tree
}

// Creator samples fresh genotypes for population initialization.
type Creator interface {
	Create(rng *rand.Rand, targetLength, maxDepth int) tree.Tree
}

// Recombinator runs one offspring-production trial: gate crossover and
// mutation on two uniform draws, select parents, build and evaluate a
// candidate, then apply a survivor policy. Prepare must complete before any
// concurrent trial of a generation starts; Terminate signals the driver that
// the strategy considers the run converged.
type Recombinator interface {
	Prepare(population []Individual)
	Recombine(rng *rand.Rand, pCrossover, pMutation float64) (Individual, bool)
	Terminate() bool
}

// better reports whether fitness a beats fitness b under the given
// optimization direction.
func better(a, b float64, maximization bool) bool {
	if maximization {
		return a > b
	}
	return a < b
}

// worstFitness is the sentinel a non-finite candidate fitness is clamped to:
// it loses against every finite value but still orders deterministically.
func worstFitness(maximization bool) float64 {
	if maximization {
		return -math.MaxFloat64
	}
	return math.MaxFloat64
}

// isFinite reports whether f is an ordinary float64.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
