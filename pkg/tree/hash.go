package tree

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// HashMode selects whether leaf numeric values participate in the structural
// hash.
type HashMode int

const (
	// HashStrict folds leaf values into the hash, so numerically different
	// constants (or variable weights) hash differently.
	HashStrict HashMode = iota
	// HashRelaxed ignores numeric payloads: equal hashes imply structural
	// isomorphism modulo constants.
	HashRelaxed
)

// Hash computes CalculatedHashValue bottom-up for every node, in the manner
// of a Merkle tree: leaves hash their identity (plus their value in strict
// mode), internal nodes hash their children's aggregated hashes, sorted first
// for commutative operators, followed by their own identity hash. Required
// before RootHash, deduplication or canonical sorting are meaningful.
func (t *Tree) Hash(mode HashMode) *Tree {
	hashes := make([]uint64, 0, 4)
	for i := range t.nodes {
		s := &t.nodes[i]
		if s.IsLeaf() {
			s.CalculatedHashValue = leafHash(s, mode)
			continue
		}
		hashes = hashes[:0]
		for it := t.Children(i); it.HasNext(); it.Next() {
			hashes = append(hashes, it.Node().CalculatedHashValue)
		}
		if s.IsCommutative() {
			sort.Slice(hashes, func(a, b int) bool { return hashes[a] < hashes[b] })
		}
		hashes = append(hashes, s.HashValue)
		s.CalculatedHashValue = hashUint64s(hashes)
	}
	return t
}

// Sort canonicalizes the storage layout: the children of every commutative
// operator are reordered by the total order over their subtree content
// hashes, so semantically equivalent trees that differ only in commutative
// child order converge to one array layout. Content hashes are recomputed
// (relaxed mode) along the way and the pass ends with UpdateNodes.
func (t *Tree) Sort() *Tree {
	sorted := make([]Node, 0, len(t.nodes))
	children := make([]int, 0, 4)
	hashes := make([]uint64, 0, 4)

	for i := range t.nodes {
		s := &t.nodes[i]
		if s.IsLeaf() {
			s.CalculatedHashValue = leafHash(s, HashRelaxed)
			continue
		}

		begin := i - s.Length
		if s.IsCommutative() {
			if s.Arity == s.Length {
				// all children are leaves, sort the range in place
				segment := t.nodes[begin:i]
				sort.SliceStable(segment, func(a, b int) bool { return segment[a].Less(&segment[b]) })
			} else {
				children = children[:0]
				for it := t.Children(i); it.HasNext(); it.Next() {
					children = append(children, it.Index())
				}
				sort.SliceStable(children, func(a, b int) bool {
					return t.nodes[children[a]].Less(&t.nodes[children[b]])
				})

				sorted = sorted[:0]
				for _, j := range children {
					c := &t.nodes[j]
					sorted = append(sorted, t.nodes[j-c.Length:j+1]...)
				}
				copy(t.nodes[begin:i], sorted)
			}
		}

		hashes = hashes[:0]
		for it := t.Children(i); it.HasNext(); it.Next() {
			hashes = append(hashes, it.Node().CalculatedHashValue)
		}
		if s.IsCommutative() {
			sort.Slice(hashes, func(a, b int) bool { return hashes[a] < hashes[b] })
		}
		hashes = append(hashes, s.HashValue)
		s.CalculatedHashValue = hashUint64s(hashes)
	}
	return t.UpdateNodes()
}

func leafHash(n *Node, mode HashMode) uint64 {
	if mode == HashStrict {
		var key [16]byte
		binary.LittleEndian.PutUint64(key[:8], n.HashValue)
		binary.LittleEndian.PutUint64(key[8:], math.Float64bits(n.Value))
		return xxhash.Sum64(key[:])
	}
	return n.HashValue
}

func hashUint64s(values []uint64) uint64 {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[8*i:], v)
	}
	return xxhash.Sum64(buf)
}
