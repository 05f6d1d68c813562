package operators

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evoscope/symgp/pkg/evolve"
	"github.com/evoscope/symgp/pkg/tree"
)

func population(fitness ...float64) []evolve.Individual {
	pop := make([]evolve.Individual, len(fitness))
	for i, f := range fitness {
		t := tree.New([]tree.Node{tree.NewConstant(float64(i))})
		t.UpdateNodes()
		pop[i] = evolve.NewIndividual(t)
		pop[i].Fitness = []float64{f}
	}
	return pop
}

func TestTournamentSelectorFullGroupPicksBest(t *testing.T) {
	pop := population(4.0, 1.0, 3.0, 2.0)
	s := NewTournamentSelector(64, false, 0)
	s.Prepare(pop)
	rng := rand.New(rand.NewSource(1))

	// a group that large all but surely contains the global best
	for trial := 0; trial < 20; trial++ {
		assert.Equal(t, 1, s.Select(rng))
	}
}

func TestTournamentSelectorMaximization(t *testing.T) {
	pop := population(4.0, 1.0, 3.0, 2.0)
	s := NewTournamentSelector(64, true, 0)
	s.Prepare(pop)
	rng := rand.New(rand.NewSource(2))

	for trial := 0; trial < 20; trial++ {
		assert.Equal(t, 0, s.Select(rng))
	}
}

func TestTournamentSelectorGroupSizeOneIsUniform(t *testing.T) {
	pop := population(4.0, 1.0, 3.0, 2.0)
	s := NewTournamentSelector(1, false, 0)
	s.Prepare(pop)
	rng := rand.New(rand.NewSource(3))

	seen := map[int]bool{}
	for trial := 0; trial < 200; trial++ {
		seen[s.Select(rng)] = true
	}
	assert.Len(t, seen, len(pop))
}

func TestTournamentSelectorAccessors(t *testing.T) {
	pop := population(1.0)
	s := NewTournamentSelector(3, true, 0)
	s.Prepare(pop)
	assert.True(t, s.Maximization())
	assert.Zero(t, s.ObjectiveIndex())
	assert.Len(t, s.Population(), 1)
}

func TestRandomSelectorIgnoresFitness(t *testing.T) {
	pop := population(100.0, 1.0, 100.0)
	s := NewRandomSelector(false, 0)
	s.Prepare(pop)
	rng := rand.New(rand.NewSource(4))

	seen := map[int]bool{}
	for trial := 0; trial < 300; trial++ {
		seen[s.Select(rng)] = true
	}
	assert.Len(t, seen, len(pop))
}
