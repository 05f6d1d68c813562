package tree

// Tree is the genome of one candidate expression: an ordered, contiguous
// sequence of nodes in postfix order (children strictly before their parent,
// the root last). There are no pointer links; parent/child relationships are
// derived from position and Node.Length, with Node.Parent kept as a cached
// shortcut by UpdateNodes.
//
// A Tree has value semantics. Copies are made explicitly with Clone; the
// zero value is an empty tree.
//
// Index bounds and vector sizing are caller contracts: violating them is a
// programming error and panics, it is never reported as a recoverable error.
type Tree struct {
	nodes []Node
}

// New wraps a postfix node sequence in a Tree. The sequence is taken over,
// not copied, and may still lack derived fields; call UpdateNodes before
// navigating, hashing or evaluating.
func New(nodes []Node) Tree {
	return Tree{nodes: nodes}
}

// Clone returns a deep copy sharing no storage with the receiver.
func (t *Tree) Clone() Tree {
	nodes := make([]Node, len(t.nodes))
	copy(nodes, t.nodes)
	return Tree{nodes: nodes}
}

// Nodes exposes the underlying storage. The node-array layout is the only
// shape other collaborators depend on.
func (t *Tree) Nodes() []Node { return t.nodes }

// At returns a pointer to the node at index i.
func (t *Tree) At(i int) *Node { return &t.nodes[i] }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Empty reports whether the tree has no nodes.
func (t *Tree) Empty() bool { return len(t.nodes) == 0 }

// Depth returns the height of the whole tree. Requires UpdateNodes.
func (t *Tree) Depth() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.nodes[len(t.nodes)-1].Depth
}

// RootHash returns the aggregated content hash of the root, i.e. the hash of
// the whole tree. Requires a prior Hash or Sort pass.
func (t *Tree) RootHash() uint64 {
	if len(t.nodes) == 0 {
		return 0
	}
	return t.nodes[len(t.nodes)-1].CalculatedHashValue
}

// Children returns an iterator over the immediate children of node i.
func (t *Tree) Children(i int) SubtreeIterator {
	return newSubtreeIterator(t.nodes, i)
}

// ChildIndices returns the storage indices of the children of node i in
// left-to-right order.
func (t *Tree) ChildIndices(i int) []int {
	n := &t.nodes[i]
	if n.IsLeaf() {
		return nil
	}
	indices := make([]int, n.Arity)
	pos := n.Arity
	for it := t.Children(i); it.HasNext(); it.Next() {
		pos--
		indices[pos] = it.Index()
	}
	return indices
}

// UpdateNodes recomputes the derived fields Length, Depth, Parent and Arity
// of every node in a single pass over the postfix storage. Children precede
// their parent, so each node's subtree statistics are final by the time the
// parent is visited. Must run after any structural edit before the tree is
// navigated, hashed or evaluated.
func (t *Tree) UpdateNodes() *Tree {
	for i := range t.nodes {
		s := &t.nodes[i]
		s.Depth = 1
		s.Length = s.Arity
		s.Parent = NoParent
		s.IsEnabled = true
		if s.Type.IsTerminal() {
			s.Arity = 0
			s.Length = 0
			continue
		}
		for it := t.Children(i); it.HasNext(); it.Next() {
			c := it.Node()
			s.Length += c.Length
			if s.Depth < c.Depth {
				s.Depth = c.Depth
			}
			c.Parent = i
		}
		s.Depth++
	}
	return t
}

// Subtree deep-copies the contiguous range of the subtree rooted at i into a
// new, independently updated tree.
func (t *Tree) Subtree(i int) Tree {
	n := &t.nodes[i]
	nodes := make([]Node, n.Length+1)
	copy(nodes, t.nodes[i-n.Length:i+1])
	sub := New(nodes)
	sub.UpdateNodes()
	return sub
}

// SetEnabled toggles the liveness flag across the whole range of the subtree
// rooted at i, marking it for later compaction.
func (t *Tree) SetEnabled(i int, enabled bool) {
	for j := i - t.nodes[i].Length; j <= i; j++ {
		t.nodes[j].IsEnabled = enabled
	}
}

// Reduce flattens nested same-operator commutative subtrees: a commutative
// node absorbs the children of any child carrying the same identity hash,
// the collapsed intermediates are disabled and the storage compacted.
func (t *Tree) Reduce() *Tree {
	reduced := false
	for i := range t.nodes {
		s := &t.nodes[i]
		if s.IsLeaf() || !s.IsCommutative() {
			continue
		}
		for it := t.Children(i); it.HasNext(); it.Next() {
			c := it.Node()
			if s.HashValue == c.HashValue {
				c.IsEnabled = false
				s.Arity += c.Arity - 1
				reduced = true
			}
		}
	}
	if reduced {
		kept := t.nodes[:0]
		for _, n := range t.nodes {
			if n.IsEnabled {
				kept = append(kept, n)
			}
		}
		t.nodes = kept
	}
	return t.UpdateNodes()
}

// CoefficientsCount returns the number of leaf coefficients, i.e. the size
// SetCoefficients expects.
func (t *Tree) CoefficientsCount() int {
	count := 0
	for i := range t.nodes {
		if t.nodes[i].IsLeaf() {
			count++
		}
	}
	return count
}

// GetCoefficients collects the leaf numeric values (constant values and
// variable weights) in postfix visitation order.
func (t *Tree) GetCoefficients() []float64 {
	coefficients := make([]float64, 0, t.CoefficientsCount())
	for i := range t.nodes {
		if t.nodes[i].IsLeaf() {
			coefficients = append(coefficients, t.nodes[i].Value)
		}
	}
	return coefficients
}

// SetCoefficients writes the leaf numeric values in the same order
// GetCoefficients reads them. The input length must match
// CoefficientsCount exactly.
func (t *Tree) SetCoefficients(coefficients []float64) {
	if len(coefficients) != t.CoefficientsCount() {
		panic("tree: SetCoefficients size mismatch")
	}
	idx := 0
	for i := range t.nodes {
		if t.nodes[i].IsLeaf() {
			t.nodes[i].Value = coefficients[idx]
			idx++
		}
	}
}

// Level returns the distance from the subtree root at index i to the tree
// root. Requires UpdateNodes.
func (t *Tree) Level(i int) int {
	root := len(t.nodes) - 1
	level := 0
	for i < root {
		i = t.nodes[i].Parent
		level++
	}
	return level
}

// VisitationLength is the total size of all subtrees, a common complexity
// measure for bloat control.
func (t *Tree) VisitationLength() int {
	total := 0
	for i := range t.nodes {
		total += t.nodes[i].Length + 1
	}
	return total
}
