package operators

import (
	"math/rand"

	"github.com/evoscope/symgp/pkg/tree"
)

// BalancedTreeCreator samples expression trees near a target length by
// splitting the length budget evenly among a function's children, which
// keeps the trees bushy rather than chain-shaped. Depth is capped
// independently of length.
type BalancedTreeCreator struct {
	pset      *PrimitiveSet
	variables int
}

// NewBalancedTreeCreator builds a creator over the primitive set and the
// dataset's input variable count.
func NewBalancedTreeCreator(pset *PrimitiveSet, variables int) *BalancedTreeCreator {
	return &BalancedTreeCreator{pset: pset, variables: variables}
}

// Create samples a tree with length at most targetLength and depth at most
// maxDepth. The result always has at least one node.
func (c *BalancedTreeCreator) Create(rng *rand.Rand, targetLength, maxDepth int) tree.Tree {
	if targetLength < 1 {
		targetLength = 1
	}
	if maxDepth < 1 {
		maxDepth = 1
	}
	t := tree.New(c.grow(rng, targetLength, maxDepth))
	t.UpdateNodes()
	return t
}

func (c *BalancedTreeCreator) grow(rng *rand.Rand, length, depth int) []tree.Node {
	maxArity := c.pset.MaxArity()
	if maxArity > length-1 {
		maxArity = length - 1
	}
	if length <= 1 || depth <= 1 || maxArity < 1 || !c.pset.hasArityIn(1, maxArity) {
		return []tree.Node{c.sampleLeaf(rng)}
	}

	n := tree.NewNode(c.pset.Sample(rng, 1, maxArity))
	budgets := splitBudget(rng, length-1, n.Arity)
	nodes := make([]tree.Node, 0, length)
	for _, budget := range budgets {
		nodes = append(nodes, c.grow(rng, budget, depth-1)...)
	}
	return append(nodes, n)
}

func (c *BalancedTreeCreator) sampleLeaf(rng *rand.Rand) tree.Node {
	if c.variables > 0 && c.pset.Contains(tree.Variable) {
		if !c.pset.Contains(tree.Constant) || rng.Float64() < 0.5 {
			return tree.NewVariable(rng.Intn(c.variables), 1.0)
		}
	}
	return tree.NewConstant(rng.NormFloat64())
}

// splitBudget distributes total across parts as evenly as possible, with the
// remainder assigned to random parts.
func splitBudget(rng *rand.Rand, total, parts int) []int {
	budgets := make([]int, parts)
	base, rem := total/parts, total%parts
	for i := range budgets {
		budgets[i] = base
	}
	for _, i := range rng.Perm(parts)[:rem] {
		budgets[i]++
	}
	return budgets
}
