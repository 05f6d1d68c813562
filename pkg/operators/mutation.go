package operators

import (
	"math/rand"

	"github.com/evoscope/symgp/pkg/evolve"
	"github.com/evoscope/symgp/pkg/tree"
)

// PointMutation perturbs the numeric value of one random leaf: a constant's
// value or a variable's weight. Structure and hashes of inner nodes are
// unaffected.
type PointMutation struct {
	sigma float64
}

// NewPointMutation builds a point mutation with the given Gaussian
// perturbation scale.
func NewPointMutation(sigma float64) *PointMutation {
	return &PointMutation{sigma: sigma}
}

// Mutate perturbs one leaf in place and returns the tree.
func (m *PointMutation) Mutate(rng *rand.Rand, genotype tree.Tree) tree.Tree {
	leaves := leafIndices(&genotype)
	i := leaves[rng.Intn(len(leaves))]
	genotype.At(i).Value += rng.NormFloat64() * m.sigma
	return genotype
}

// ChangeFunctionMutation swaps one random function node for another enabled
// type of the same declared arity, keeping the subtree shape intact. Trees
// without function nodes, and function nodes without an alternative in the
// set, are returned unchanged.
type ChangeFunctionMutation struct {
	pset *PrimitiveSet
}

// NewChangeFunctionMutation builds the mutation over the given set.
func NewChangeFunctionMutation(pset *PrimitiveSet) *ChangeFunctionMutation {
	return &ChangeFunctionMutation{pset: pset}
}

// Mutate swaps a function node in place and returns the tree.
func (m *ChangeFunctionMutation) Mutate(rng *rand.Rand, genotype tree.Tree) tree.Tree {
	functions, _ := partitionIndices(&genotype, func(n *tree.Node) bool { return !n.IsLeaf() })
	if len(functions) == 0 {
		return genotype
	}
	i := functions[rng.Intn(len(functions))]
	n := genotype.At(i)
	if !m.pset.hasArityIn(n.Arity, n.Arity) {
		return genotype
	}
	replacement := tree.NewNode(m.pset.Sample(rng, n.Arity, n.Arity))
	n.Type = replacement.Type
	n.HashValue = replacement.HashValue
	genotype.UpdateNodes()
	return genotype
}

// ChangeVariableMutation rebinds one random variable leaf to a different
// input column. A tree without variables, or a dataset with a single input,
// is returned unchanged.
type ChangeVariableMutation struct {
	variables int
}

// NewChangeVariableMutation builds the mutation over the dataset's input
// variable count.
func NewChangeVariableMutation(variables int) *ChangeVariableMutation {
	return &ChangeVariableMutation{variables: variables}
}

// Mutate rebinds one variable in place and returns the tree.
func (m *ChangeVariableMutation) Mutate(rng *rand.Rand, genotype tree.Tree) tree.Tree {
	if m.variables < 2 {
		return genotype
	}
	variables, _ := partitionIndices(&genotype, func(n *tree.Node) bool { return n.Type == tree.Variable })
	if len(variables) == 0 {
		return genotype
	}
	i := variables[rng.Intn(len(variables))]
	n := genotype.At(i)
	index := rng.Intn(m.variables - 1)
	if index >= n.VarIndex {
		index++ // skip the current binding
	}
	replacement := tree.NewVariable(index, n.Value)
	n.VarIndex = replacement.VarIndex
	n.HashValue = replacement.HashValue
	return genotype
}

// MultiMutation draws one of several mutations by weight and applies it.
type MultiMutation struct {
	mutators []weightedMutator
	total    float64
}

type weightedMutator struct {
	mutator evolve.Mutator
	weight  float64
}

// NewMultiMutation builds an empty composite; use Add to register mutations.
func NewMultiMutation() *MultiMutation { return &MultiMutation{} }

// Add registers a mutation with a sampling weight and returns the composite
// for chaining.
func (m *MultiMutation) Add(mutator evolve.Mutator, weight float64) *MultiMutation {
	if weight > 0 {
		m.mutators = append(m.mutators, weightedMutator{mutator: mutator, weight: weight})
		m.total += weight
	}
	return m
}

// Mutate applies one registered mutation chosen by weight. Panics when none
// are registered.
func (m *MultiMutation) Mutate(rng *rand.Rand, genotype tree.Tree) tree.Tree {
	if len(m.mutators) == 0 {
		panic("operators: MultiMutation has no registered mutations")
	}
	draw := rng.Float64() * m.total
	for _, w := range m.mutators {
		draw -= w.weight
		if draw <= 0 {
			return w.mutator.Mutate(rng, genotype)
		}
	}
	return m.mutators[len(m.mutators)-1].mutator.Mutate(rng, genotype)
}

func leafIndices(t *tree.Tree) []int {
	leaves, _ := partitionIndices(t, func(n *tree.Node) bool { return n.IsLeaf() })
	return leaves
}
