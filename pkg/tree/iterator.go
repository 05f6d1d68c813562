package tree

// SubtreeIterator walks the immediate children of one parent node over a
// tree's flat postfix storage. Children are visited right to left, because in
// postfix order the rightmost child sits immediately before its parent; each
// advance jumps over the whole subtree of the current child, so a full pass
// costs O(arity).
//
// The iterator holds a reference to the tree's storage; it must not be used
// across structural edits.
type SubtreeIterator struct {
	nodes  []Node
	parent int // index of the parent node
	index  int // index of the current child
}

func newSubtreeIterator(nodes []Node, parent int) SubtreeIterator {
	if parent <= 0 || parent >= len(nodes) {
		panic("tree: subtree iterator parent index out of range")
	}
	return SubtreeIterator{nodes: nodes, parent: parent, index: parent - 1}
}

// HasNext reports whether the cursor still points at a child of the parent.
func (it *SubtreeIterator) HasNext() bool {
	return it.index < it.parent && it.index >= it.parent-it.nodes[it.parent].Length
}

// Node returns the current child. Valid only while HasNext is true.
func (it *SubtreeIterator) Node() *Node { return &it.nodes[it.index] }

// Index returns the storage index of the current child.
func (it *SubtreeIterator) Index() int { return it.index }

// Next advances the cursor past the current child's entire subtree.
func (it *SubtreeIterator) Next() {
	it.index -= it.nodes[it.index].Length + 1
}

// Equal reports whether two iterators denote the same position: same child
// index, same parent, same underlying storage.
func (it *SubtreeIterator) Equal(other *SubtreeIterator) bool {
	return it.index == other.index && it.parent == other.parent && sameStorage(it.nodes, other.nodes)
}

// Before reports whether it is further advanced than other. The comparison is
// only defined for iterators over the same parent and storage; traversal runs
// right to left through postfix storage, so the lower index is the more
// advanced position.
func (it *SubtreeIterator) Before(other *SubtreeIterator) bool {
	return it.parent == other.parent && sameStorage(it.nodes, other.nodes) && it.index > other.index
}

func sameStorage(a, b []Node) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
