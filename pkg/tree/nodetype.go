package tree

import "math"

// NodeType identifies the operator or terminal kind of a node. The set is
// closed: every kind the engine understands is listed here, together with its
// static metadata (arity, commutativity, display name).
type NodeType uint8

const (
	Add NodeType = iota
	Sub
	Mul
	Div
	Aq // analytic quotient: a / sqrt(1 + b*b)
	Pow
	Exp
	Log
	Sin
	Cos
	Tan
	Sqrt
	Square
	Constant
	Variable

	numNodeTypes
)

type nodeTypeInfo struct {
	name        string
	arity       int
	commutative bool
}

var nodeTypes = [numNodeTypes]nodeTypeInfo{
	Add:      {name: "add", arity: 2, commutative: true},
	Sub:      {name: "sub", arity: 2},
	Mul:      {name: "mul", arity: 2, commutative: true},
	Div:      {name: "div", arity: 2},
	Aq:       {name: "aq", arity: 2},
	Pow:      {name: "pow", arity: 2},
	Exp:      {name: "exp", arity: 1},
	Log:      {name: "log", arity: 1},
	Sin:      {name: "sin", arity: 1},
	Cos:      {name: "cos", arity: 1},
	Tan:      {name: "tan", arity: 1},
	Sqrt:     {name: "sqrt", arity: 1},
	Square:   {name: "square", arity: 1},
	Constant: {name: "constant"},
	Variable: {name: "variable"},
}

// ParseNodeType resolves a display name back to its node type.
func ParseNodeType(name string) (NodeType, bool) {
	for t := NodeType(0); t < numNodeTypes; t++ {
		if nodeTypes[t].name == name {
			return t, true
		}
	}
	return numNodeTypes, false
}

// String returns the display name of the node type.
func (t NodeType) String() string {
	if t >= numNodeTypes {
		return "invalid"
	}
	return nodeTypes[t].name
}

// DeclaredArity returns the child count prescribed for this node type.
func (t NodeType) DeclaredArity() int { return nodeTypes[t].arity }

// IsCommutative reports whether child order is semantically irrelevant.
func (t NodeType) IsCommutative() bool { return nodeTypes[t].commutative }

// IsTerminal reports whether the type takes no children.
func (t NodeType) IsTerminal() bool { return t == Constant || t == Variable }

// Apply evaluates the operator on already-computed child values, in
// left-to-right child order. It panics for terminal types.
func (t NodeType) Apply(args ...float64) float64 {
	switch t {
	case Add:
		return args[0] + args[1]
	case Sub:
		return args[0] - args[1]
	case Mul:
		return args[0] * args[1]
	case Div:
		return args[0] / args[1]
	case Aq:
		return args[0] / math.Sqrt(1+args[1]*args[1])
	case Pow:
		return math.Pow(args[0], args[1])
	case Exp:
		return math.Exp(args[0])
	case Log:
		return math.Log(args[0])
	case Sin:
		return math.Sin(args[0])
	case Cos:
		return math.Cos(args[0])
	case Tan:
		return math.Tan(args[0])
	case Sqrt:
		return math.Sqrt(args[0])
	case Square:
		return args[0] * args[0]
	default:
		panic("tree: Apply called on terminal node type " + t.String())
	}
}
