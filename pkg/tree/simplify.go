package tree

// Simplify performs algebraic simplification in a single bottom-up pass:
// operators whose children are all constants are folded, and arithmetic
// identities that hold for every float64 input (x+0, x-0, x*1, x/1, x^1,
// x^0) are eliminated. Evaluation semantics are preserved exactly; rules
// that change behavior on non-finite inputs (such as x*0) are deliberately
// not applied. Requires UpdateNodes.
func (t *Tree) Simplify() *Tree {
	if t.Empty() {
		return t
	}
	stack := make([][]Node, 0, len(t.nodes))
	for i := range t.nodes {
		n := t.nodes[i]
		if n.IsLeaf() {
			stack = append(stack, []Node{n})
			continue
		}
		args := make([][]Node, n.Arity)
		copy(args, stack[len(stack)-n.Arity:])
		stack = stack[:len(stack)-n.Arity]
		stack = append(stack, simplifySubtree(n, args))
	}
	t.nodes = stack[len(stack)-1]
	return t.UpdateNodes()
}

// simplifySubtree combines already-simplified child segments (in
// left-to-right order) under operator n, applying folding and identity rules.
func simplifySubtree(n Node, args [][]Node) []Node {
	if vals, ok := constantArgs(args); ok && n.Arity == n.Type.DeclaredArity() {
		return []Node{NewConstant(n.Type.Apply(vals...))}
	}

	if n.Arity == 2 {
		a, b := args[0], args[1]
		switch n.Type {
		case Add:
			if isConstant(b, 0) {
				return a
			}
			if isConstant(a, 0) {
				return b
			}
		case Sub:
			if isConstant(b, 0) {
				return a
			}
		case Mul:
			if isConstant(b, 1) {
				return a
			}
			if isConstant(a, 1) {
				return b
			}
		case Div:
			if isConstant(b, 1) {
				return a
			}
		case Pow:
			if isConstant(b, 1) {
				return a
			}
			if isConstant(b, 0) {
				// math.Pow(x, 0) is 1 for every x, non-finite included
				return []Node{NewConstant(1)}
			}
		}
	}

	size := 1
	for _, a := range args {
		size += len(a)
	}
	out := make([]Node, 0, size)
	for _, a := range args {
		out = append(out, a...)
	}
	return append(out, n)
}

func constantArgs(args [][]Node) ([]float64, bool) {
	vals := make([]float64, len(args))
	for i, a := range args {
		if len(a) != 1 || !a[0].IsConstant() {
			return nil, false
		}
		vals[i] = a[0].Value
	}
	return vals, true
}

func isConstant(segment []Node, value float64) bool {
	return len(segment) == 1 && segment[0].IsConstant() && segment[0].Value == value
}
