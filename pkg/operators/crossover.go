package operators

import (
	"math/rand"

	"github.com/evoscope/symgp/pkg/tree"
)

// SubtreeCrossover replaces a random subtree of the first parent with a
// compatible subtree of the second. Cut points are biased toward internal
// nodes; the replacement is constrained so the offspring respects the
// configured length and depth limits. When no compatible cut exists the
// first parent is cloned unchanged.
type SubtreeCrossover struct {
	internalProbability float64
	maxLength           int
	maxDepth            int
}

// NewSubtreeCrossover builds a crossover with the given internal-node bias
// and offspring size limits.
func NewSubtreeCrossover(internalProbability float64, maxLength, maxDepth int) *SubtreeCrossover {
	return &SubtreeCrossover{
		internalProbability: internalProbability,
		maxLength:           maxLength,
		maxDepth:            maxDepth,
	}
}

// Cross produces one offspring. Both parents are left untouched.
func (c *SubtreeCrossover) Cross(rng *rand.Rand, a, b *tree.Tree) tree.Tree {
	i := c.cutPoint(rng, a)
	removed := a.At(i).Length + 1

	// what the replacement may occupy at this position
	lengthBudget := c.maxLength - a.Len() + removed
	depthBudget := c.maxDepth - a.Level(i)

	j, ok := c.replacement(rng, b, lengthBudget, depthBudget)
	if !ok {
		return a.Clone()
	}

	sub := b.Subtree(j)
	nodes := make([]tree.Node, 0, a.Len()-removed+sub.Len())
	nodes = append(nodes, a.Nodes()[:i-a.At(i).Length]...)
	nodes = append(nodes, sub.Nodes()...)
	nodes = append(nodes, a.Nodes()[i+1:]...)

	child := tree.New(nodes)
	child.UpdateNodes()
	return child
}

// cutPoint draws an index in t, preferring internal nodes with the
// configured probability when the tree has any.
func (c *SubtreeCrossover) cutPoint(rng *rand.Rand, t *tree.Tree) int {
	internal, leaves := partitionIndices(t, func(n *tree.Node) bool { return !n.IsLeaf() })
	if len(internal) > 0 && rng.Float64() < c.internalProbability {
		return internal[rng.Intn(len(internal))]
	}
	if len(leaves) == 0 {
		return internal[rng.Intn(len(internal))]
	}
	return leaves[rng.Intn(len(leaves))]
}

// replacement draws an index in donor whose subtree fits the length and
// depth budgets, with the same internal-node bias.
func (c *SubtreeCrossover) replacement(rng *rand.Rand, donor *tree.Tree, lengthBudget, depthBudget int) (int, bool) {
	fits := func(n *tree.Node) bool {
		return n.Length+1 <= lengthBudget && n.Depth <= depthBudget
	}
	internal, leaves := partitionIndices(donor, func(n *tree.Node) bool { return !n.IsLeaf() })
	internal = filterIndices(donor, internal, fits)
	leaves = filterIndices(donor, leaves, fits)

	if len(internal) > 0 && (len(leaves) == 0 || rng.Float64() < c.internalProbability) {
		return internal[rng.Intn(len(internal))], true
	}
	if len(leaves) > 0 {
		return leaves[rng.Intn(len(leaves))], true
	}
	return 0, false
}

func partitionIndices(t *tree.Tree, pred func(*tree.Node) bool) (yes, no []int) {
	for i := 0; i < t.Len(); i++ {
		if pred(t.At(i)) {
			yes = append(yes, i)
		} else {
			no = append(no, i)
		}
	}
	return yes, no
}

func filterIndices(t *tree.Tree, indices []int, pred func(*tree.Node) bool) []int {
	kept := indices[:0]
	for _, i := range indices {
		if pred(t.At(i)) {
			kept = append(kept, i)
		}
	}
	return kept
}
