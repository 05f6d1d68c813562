package tree

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// NoParent is the Parent value of a node that has no parent, i.e. the root of
// an updated tree or any node of a tree whose derived fields are stale.
const NoParent = -1

// Node is one element of a tree's flat postfix storage. Arity, HashValue,
// Value and VarIndex are fixed at construction; Length, Depth and Parent are
// derived fields maintained by Tree.UpdateNodes; CalculatedHashValue is
// maintained by Tree.Hash and Tree.Sort; IsEnabled is a transient liveness
// flag consumed by Tree.Reduce.
type Node struct {
	Type                NodeType
	Arity               int
	Length              int // descendant count, excluding self
	Depth               int // subtree height, 1 for terminals
	Parent              int // index of the immediate parent, NoParent for the root
	IsEnabled           bool
	HashValue           uint64 // identity hash, folds in the variable index for variables
	CalculatedHashValue uint64 // bottom-up aggregated content hash
	Value               float64
	VarIndex            int // dataset column, meaningful only for Variable nodes
}

// NewNode constructs an operator node of the given type.
func NewNode(t NodeType) Node {
	if t.IsTerminal() {
		panic("tree: NewNode called with terminal type " + t.String())
	}
	return Node{
		Type:      t,
		Arity:     t.DeclaredArity(),
		Depth:     1,
		Parent:    NoParent,
		IsEnabled: true,
		HashValue: identityHash(t, 0),
	}
}

// NewConstant constructs a constant terminal holding v.
func NewConstant(v float64) Node {
	return Node{
		Type:      Constant,
		Depth:     1,
		Parent:    NoParent,
		IsEnabled: true,
		HashValue: identityHash(Constant, 0),
		Value:     v,
	}
}

// NewVariable constructs a weighted variable terminal referring to dataset
// column index. The identity hash incorporates the variable identity, so two
// different variables never collide structurally.
func NewVariable(index int, weight float64) Node {
	return Node{
		Type:      Variable,
		Depth:     1,
		Parent:    NoParent,
		IsEnabled: true,
		HashValue: identityHash(Variable, uint64(index)+1),
		Value:     weight,
		VarIndex:  index,
	}
}

func identityHash(t NodeType, aux uint64) uint64 {
	var key [16]byte
	binary.LittleEndian.PutUint64(key[:8], uint64(t))
	binary.LittleEndian.PutUint64(key[8:], aux)
	return xxhash.Sum64(key[:])
}

// IsLeaf reports whether the node is a terminal.
func (n *Node) IsLeaf() bool { return n.Arity == 0 }

// IsConstant reports whether the node is a constant terminal.
func (n *Node) IsConstant() bool { return n.Type == Constant }

// IsVariable reports whether the node is a variable terminal.
func (n *Node) IsVariable() bool { return n.Type == Variable }

// IsCommutative reports whether the node's children may be reordered freely.
func (n *Node) IsCommutative() bool { return n.Type.IsCommutative() }

// Less defines the canonical total order used when sorting the children of
// commutative operators. The primary key is the aggregated content hash; ties
// are broken deterministically so canonicalization never depends on the
// incoming layout.
func (n *Node) Less(other *Node) bool {
	if n.CalculatedHashValue != other.CalculatedHashValue {
		return n.CalculatedHashValue < other.CalculatedHashValue
	}
	if n.HashValue != other.HashValue {
		return n.HashValue < other.HashValue
	}
	return n.Value < other.Value
}
