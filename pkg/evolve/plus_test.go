package evolve

import (
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoscope/symgp/pkg/tree"
)

// fakeSelector hands out parent indices round-robin and minimizes by default.
type fakeSelector struct {
	population   []Individual
	next         atomic.Uint64
	maximization bool
}

func (s *fakeSelector) Select(rng *rand.Rand) int {
	return int(s.next.Add(1)-1) % len(s.population)
}
func (s *fakeSelector) Population() []Individual         { return s.population }
func (s *fakeSelector) Prepare(population []Individual)  { s.population = population; s.next.Store(0) }
func (s *fakeSelector) Maximization() bool               { return s.maximization }
func (s *fakeSelector) ObjectiveIndex() int              { return 0 }

// fakeEvaluator returns scripted fitness values and counts evaluations.
type fakeEvaluator struct {
	values []float64
	calls  atomic.Uint64
}

func (e *fakeEvaluator) Evaluate(rng *rand.Rand, ind *Individual) float64 {
	n := e.calls.Add(1)
	return e.values[(int(n)-1)%len(e.values)]
}
func (e *fakeEvaluator) Evaluations() uint64 { return e.calls.Load() }

// cloneCrossover returns a copy of the first parent.
type cloneCrossover struct{}

func (cloneCrossover) Cross(rng *rand.Rand, a, b *tree.Tree) tree.Tree { return a.Clone() }

// identityMutator returns its input unchanged.
type identityMutator struct{}

func (identityMutator) Mutate(rng *rand.Rand, genotype tree.Tree) tree.Tree { return genotype }

func constantIndividual(value, fitness float64) Individual {
	t := tree.New([]tree.Node{tree.NewConstant(value)})
	t.UpdateNodes()
	ind := NewIndividual(t)
	ind.Fitness = []float64{fitness}
	return ind
}

func TestPlusRecombinatorKeepsBetterParent(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{9.0}}
	r := NewPlusRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{})
	r.Prepare(population)

	child, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	require.True(t, ok)
	// candidate fitness 9.0 loses against the better parent's 5.0
	assert.Equal(t, 5.0, child.Fitness[0])
	assert.Equal(t, population[0].ID, child.ID)
}

func TestPlusRecombinatorAcceptsImprovedChild(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{3.0}}
	r := NewPlusRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{})
	r.Prepare(population)

	child, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	require.True(t, ok)
	assert.Equal(t, 3.0, child.Fitness[0])
	assert.NotEqual(t, population[0].ID, child.ID)
}

func TestPlusRecombinatorClampsNonFiniteFitness(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{math.NaN()}}
	r := NewPlusRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{})
	r.Prepare(population)

	child, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	require.True(t, ok)
	// NaN never beats a finite parent
	assert.Equal(t, 5.0, child.Fitness[0])
}

func TestPlusRecombinatorNoOperatorEnabled(t *testing.T) {
	population := []Individual{constantIndividual(1.0, 5.0)}
	selector := &fakeSelector{}
	evaluator := &fakeEvaluator{values: []float64{1.0}}
	r := NewPlusRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{})
	r.Prepare(population)

	_, ok := r.Recombine(rand.New(rand.NewSource(1)), 0.0, 0.0)
	assert.False(t, ok)
	assert.Zero(t, evaluator.Evaluations())
}

func TestPlusRecombinatorNeverTerminates(t *testing.T) {
	r := NewPlusRecombinator(&fakeEvaluator{values: []float64{1}}, &fakeSelector{}, cloneCrossover{}, identityMutator{})
	assert.False(t, r.Terminate())
}

func TestPlusRecombinatorMaximization(t *testing.T) {
	population := []Individual{
		constantIndividual(1.0, 5.0),
		constantIndividual(2.0, 7.0),
	}
	selector := &fakeSelector{maximization: true}
	evaluator := &fakeEvaluator{values: []float64{6.0}}
	r := NewPlusRecombinator(evaluator, selector, cloneCrossover{}, identityMutator{})
	r.Prepare(population)

	child, ok := r.Recombine(rand.New(rand.NewSource(1)), 1.0, 0.0)
	require.True(t, ok)
	// under maximization the best parent is 7.0 and the candidate's 6.0 loses
	assert.Equal(t, 7.0, child.Fitness[0])
}
