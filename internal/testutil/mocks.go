// Package testutil provides shared mocks and synthetic problems for tests
// and benchmarks.
package testutil

import (
	"math/rand"

	"github.com/stretchr/testify/mock"

	"github.com/evoscope/symgp/pkg/evolve"
	"github.com/evoscope/symgp/pkg/tree"
)

// MockEvaluator is a mock implementation of evolve.Evaluator.
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(rng *rand.Rand, ind *evolve.Individual) float64 {
	args := m.Called(rng, ind)
	return args.Get(0).(float64)
}

func (m *MockEvaluator) Evaluations() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

// MockSelector is a mock implementation of evolve.Selector.
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) Select(rng *rand.Rand) int {
	args := m.Called(rng)
	return args.Int(0)
}

func (m *MockSelector) Population() []evolve.Individual {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]evolve.Individual)
}

func (m *MockSelector) Prepare(population []evolve.Individual) {
	m.Called(population)
}

func (m *MockSelector) Maximization() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockSelector) ObjectiveIndex() int {
	args := m.Called()
	return args.Int(0)
}

// MockCrossover is a mock implementation of evolve.Crossover.
type MockCrossover struct {
	mock.Mock
}

func (m *MockCrossover) Cross(rng *rand.Rand, a, b *tree.Tree) tree.Tree {
	args := m.Called(rng, a, b)
	return args.Get(0).(tree.Tree)
}

// MockMutator is a mock implementation of evolve.Mutator.
type MockMutator struct {
	mock.Mock
}

func (m *MockMutator) Mutate(rng *rand.Rand, genotype tree.Tree) tree.Tree {
	args := m.Called(rng, genotype)
	return args.Get(0).(tree.Tree)
}

// MockCreator is a mock implementation of evolve.Creator.
type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) Create(rng *rand.Rand, targetLength, maxDepth int) tree.Tree {
	args := m.Called(rng, targetLength, maxDepth)
	return args.Get(0).(tree.Tree)
}

// MockRecombinator is a mock implementation of evolve.Recombinator.
type MockRecombinator struct {
	mock.Mock
}

func (m *MockRecombinator) Prepare(population []evolve.Individual) {
	m.Called(population)
}

func (m *MockRecombinator) Recombine(rng *rand.Rand, pCrossover, pMutation float64) (evolve.Individual, bool) {
	args := m.Called(rng, pCrossover, pMutation)
	return args.Get(0).(evolve.Individual), args.Bool(1)
}

func (m *MockRecombinator) Terminate() bool {
	args := m.Called()
	return args.Bool(0)
}
