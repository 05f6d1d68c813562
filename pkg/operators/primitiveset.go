// Package operators provides the concrete genetic operators a symbolic
// regression run is assembled from: tree creation, parent selection,
// subtree crossover and the mutation family. All of them satisfy the
// collaborator interfaces in pkg/evolve.
package operators

import (
	"math/rand"

	"github.com/evoscope/symgp/pkg/tree"
)

type primitive struct {
	nodeType  tree.NodeType
	frequency float64
}

// PrimitiveSet holds the node types a run is allowed to use, each with a
// sampling frequency. Immutable after construction, safe for concurrent
// sampling.
type PrimitiveSet struct {
	entries []primitive
}

// NewPrimitiveSet builds a set with every given type at frequency 1.
func NewPrimitiveSet(types ...tree.NodeType) *PrimitiveSet {
	p := &PrimitiveSet{}
	for _, t := range types {
		p.entries = append(p.entries, primitive{nodeType: t, frequency: 1})
	}
	return p
}

// DefaultPrimitiveSet enables the four arithmetic operators plus constant
// and variable leaves.
func DefaultPrimitiveSet() *PrimitiveSet {
	return NewPrimitiveSet(tree.Add, tree.Sub, tree.Mul, tree.Div, tree.Constant, tree.Variable)
}

// SetFrequency adjusts the sampling weight of one type. A frequency of zero
// removes the type from sampling without removing it from the set.
func (p *PrimitiveSet) SetFrequency(t tree.NodeType, frequency float64) {
	for i := range p.entries {
		if p.entries[i].nodeType == t {
			p.entries[i].frequency = frequency
			return
		}
	}
	p.entries = append(p.entries, primitive{nodeType: t, frequency: frequency})
}

// Contains reports whether t is part of the set with positive frequency.
func (p *PrimitiveSet) Contains(t tree.NodeType) bool {
	for _, e := range p.entries {
		if e.nodeType == t && e.frequency > 0 {
			return true
		}
	}
	return false
}

// Types returns the enabled node types.
func (p *PrimitiveSet) Types() []tree.NodeType {
	types := make([]tree.NodeType, 0, len(p.entries))
	for _, e := range p.entries {
		if e.frequency > 0 {
			types = append(types, e.nodeType)
		}
	}
	return types
}

// MaxArity returns the largest declared arity among the enabled types.
func (p *PrimitiveSet) MaxArity() int {
	maxArity := 0
	for _, e := range p.entries {
		if e.frequency > 0 && e.nodeType.DeclaredArity() > maxArity {
			maxArity = e.nodeType.DeclaredArity()
		}
	}
	return maxArity
}

func (p *PrimitiveSet) hasArityIn(minArity, maxArity int) bool {
	for _, e := range p.entries {
		if a := e.nodeType.DeclaredArity(); e.frequency > 0 && a >= minArity && a <= maxArity {
			return true
		}
	}
	return false
}

// Sample draws an enabled type with declared arity in [minArity, maxArity],
// weighted by frequency. Panics when the range is empty: callers are
// expected to clamp their arity bounds against the set first.
func (p *PrimitiveSet) Sample(rng *rand.Rand, minArity, maxArity int) tree.NodeType {
	total := 0.0
	for _, e := range p.entries {
		if a := e.nodeType.DeclaredArity(); e.frequency > 0 && a >= minArity && a <= maxArity {
			total += e.frequency
		}
	}
	if total == 0 {
		panic("operators: no primitive with arity in requested range")
	}
	draw := rng.Float64() * total
	for _, e := range p.entries {
		if a := e.nodeType.DeclaredArity(); e.frequency > 0 && a >= minArity && a <= maxArity {
			draw -= e.frequency
			if draw <= 0 {
				return e.nodeType
			}
		}
	}
	// float accumulation can leave a sliver; fall back to the last eligible
	for i := len(p.entries) - 1; i >= 0; i-- {
		e := p.entries[i]
		if a := e.nodeType.DeclaredArity(); e.frequency > 0 && a >= minArity && a <= maxArity {
			return e.nodeType
		}
	}
	panic("operators: unreachable")
}
