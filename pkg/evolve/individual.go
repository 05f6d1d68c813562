// Package evolve contains the offspring-production engine: the collaborator
// contracts (selection, crossover, mutation, evaluation), the recombinator
// strategies that combine them into per-offspring trials, and the
// generational driver that runs many trials concurrently.
package evolve

import (
	"github.com/google/uuid"

	"github.com/evoscope/symgp/pkg/tree"
)

// Individual pairs a genotype with its cached fitness vector.
type Individual struct {
	ID       uuid.UUID
	Genotype tree.Tree
	Fitness  []float64
}

// NewIndividual wraps a genotype into a fresh individual with no fitness yet.
func NewIndividual(genotype tree.Tree) Individual {
	return Individual{ID: uuid.New(), Genotype: genotype}
}

// Clone deep-copies the individual. The identity is preserved: a clone
// represents the same candidate, not a new one.
func (ind *Individual) Clone() Individual {
	return Individual{
		ID:       ind.ID,
		Genotype: ind.Genotype.Clone(),
		Fitness:  append([]float64(nil), ind.Fitness...),
	}
}
