package operators

import (
	"math/rand"

	"github.com/evoscope/symgp/pkg/evolve"
)

// TournamentSelector picks the fittest of a uniformly drawn group. Prepare
// runs single-threaded before a generation; Select only reads the stored
// population and is safe from concurrent trials.
type TournamentSelector struct {
	groupSize      int
	maximization   bool
	objectiveIndex int
	population     []evolve.Individual
}

// NewTournamentSelector builds a selector with the given tournament group
// size. A group size below 2 degenerates to uniform random selection.
func NewTournamentSelector(groupSize int, maximization bool, objectiveIndex int) *TournamentSelector {
	if groupSize < 1 {
		groupSize = 1
	}
	return &TournamentSelector{
		groupSize:      groupSize,
		maximization:   maximization,
		objectiveIndex: objectiveIndex,
	}
}

// Prepare freezes the population for the coming generation's trials.
func (s *TournamentSelector) Prepare(population []evolve.Individual) {
	s.population = population
}

// Population returns the population Prepare froze.
func (s *TournamentSelector) Population() []evolve.Individual { return s.population }

// Maximization reports the optimization direction.
func (s *TournamentSelector) Maximization() bool { return s.maximization }

// ObjectiveIndex returns the fitness vector slot under selection.
func (s *TournamentSelector) ObjectiveIndex() int { return s.objectiveIndex }

// Select runs one tournament and returns the winner's index.
func (s *TournamentSelector) Select(rng *rand.Rand) int {
	best := rng.Intn(len(s.population))
	for i := 1; i < s.groupSize; i++ {
		challenger := rng.Intn(len(s.population))
		a := s.population[challenger].Fitness[s.objectiveIndex]
		b := s.population[best].Fitness[s.objectiveIndex]
		if (s.maximization && a > b) || (!s.maximization && a < b) {
			best = challenger
		}
	}
	return best
}

// RandomSelector draws parents uniformly, ignoring fitness. Useful as a
// baseline and in tests.
type RandomSelector struct {
	maximization   bool
	objectiveIndex int
	population     []evolve.Individual
}

// NewRandomSelector builds a uniform selector.
func NewRandomSelector(maximization bool, objectiveIndex int) *RandomSelector {
	return &RandomSelector{maximization: maximization, objectiveIndex: objectiveIndex}
}

func (s *RandomSelector) Prepare(population []evolve.Individual) { s.population = population }
func (s *RandomSelector) Population() []evolve.Individual        { return s.population }
func (s *RandomSelector) Maximization() bool                     { return s.maximization }
func (s *RandomSelector) ObjectiveIndex() int                    { return s.objectiveIndex }

func (s *RandomSelector) Select(rng *rand.Rand) int {
	return rng.Intn(len(s.population))
}
