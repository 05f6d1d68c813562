// Package eval executes expression trees against datasets and adapts tree
// residuals to the calling convention of Jacobian-based least-squares
// solvers.
package eval

import (
	"github.com/evoscope/symgp/pkg/dataset"
	"github.com/evoscope/symgp/pkg/tree"
)

// Interpreter evaluates a tree's postfix storage directly with a small
// operand stack, one dataset row at a time. Evaluation is deterministic given
// tree and data. Trees must be updated before evaluation.
type Interpreter struct{}

// Evaluate computes the tree's value for every row in the range, using the
// coefficients currently stored in the tree's leaves.
func (Interpreter) Evaluate(t *tree.Tree, d *dataset.Dataset, r dataset.Range) []float64 {
	return evaluateRows(t, d, r, t.GetCoefficients())
}

// EvaluateWithCoefficients behaves like Evaluate with the leaf coefficients
// replaced by the given vector, in GetCoefficients order, without mutating
// the tree.
func (Interpreter) EvaluateWithCoefficients(t *tree.Tree, d *dataset.Dataset, r dataset.Range, coefficients []float64) []float64 {
	if len(coefficients) != t.CoefficientsCount() {
		panic("eval: coefficient count mismatch")
	}
	return evaluateRows(t, d, r, coefficients)
}

func evaluateRows(t *tree.Tree, d *dataset.Dataset, r dataset.Range, coefficients []float64) []float64 {
	nodes := t.Nodes()
	out := make([]float64, r.Size())
	stack := make([]float64, 0, len(nodes))

	for row := r.Start; row < r.End; row++ {
		stack = stack[:0]
		leaf := 0
		for i := range nodes {
			n := &nodes[i]
			if n.IsLeaf() {
				v := coefficients[leaf]
				leaf++
				if n.IsVariable() {
					v *= d.Value(n.VarIndex, row)
				}
				stack = append(stack, v)
				continue
			}
			args := stack[len(stack)-n.Arity:]
			v := applyScalar(n.Type, args)
			stack = stack[:len(stack)-n.Arity]
			stack = append(stack, v)
		}
		out[row-r.Start] = stack[0]
	}
	return out
}

// applyScalar folds the operator over its arguments. Arities above the
// declared one occur for commutative operators flattened by Tree.Reduce.
func applyScalar(op tree.NodeType, args []float64) float64 {
	if len(args) <= 2 {
		return op.Apply(args...)
	}
	acc := args[0]
	for _, v := range args[1:] {
		acc = op.Apply(acc, v)
	}
	return acc
}

// EvaluateDual is the forward-mode twin of EvaluateWithCoefficients: the
// coefficient vector carries tangent lanes and the per-row results are
// written into out, which must have the range's size.
func (Interpreter) EvaluateDual(t *tree.Tree, d *dataset.Dataset, r dataset.Range, coefficients []Dual, out []Dual) {
	if len(coefficients) != t.CoefficientsCount() {
		panic("eval: coefficient count mismatch")
	}
	if len(out) != r.Size() {
		panic("eval: output size mismatch")
	}
	nodes := t.Nodes()
	stack := make([]Dual, 0, len(nodes))

	for row := r.Start; row < r.End; row++ {
		stack = stack[:0]
		leaf := 0
		for i := range nodes {
			n := &nodes[i]
			if n.IsLeaf() {
				v := coefficients[leaf]
				leaf++
				if n.IsVariable() {
					v = v.Scale(d.Value(n.VarIndex, row))
				}
				stack = append(stack, v)
				continue
			}
			args := stack[len(stack)-n.Arity:]
			v := applyDual(n.Type, args)
			stack = stack[:len(stack)-n.Arity]
			stack = append(stack, v)
		}
		out[row-r.Start] = stack[0]
	}
}

func applyDual(op tree.NodeType, args []Dual) Dual {
	if len(args) > 2 {
		acc := args[0]
		for _, v := range args[1:] {
			acc = applyDual2(op, acc, v)
		}
		return acc
	}
	if len(args) == 2 {
		return applyDual2(op, args[0], args[1])
	}
	return applyDual1(op, args[0])
}

func applyDual2(op tree.NodeType, a, b Dual) Dual {
	switch op {
	case tree.Add:
		return a.Add(b)
	case tree.Sub:
		return a.Sub(b)
	case tree.Mul:
		return a.Mul(b)
	case tree.Div:
		return a.Div(b)
	case tree.Aq:
		return a.Aq(b)
	case tree.Pow:
		return a.Pow(b)
	default:
		panic("eval: not a binary operator: " + op.String())
	}
}

func applyDual1(op tree.NodeType, a Dual) Dual {
	switch op {
	case tree.Exp:
		return a.Exp()
	case tree.Log:
		return a.Log()
	case tree.Sin:
		return a.Sin()
	case tree.Cos:
		return a.Cos()
	case tree.Tan:
		return a.Tan()
	case tree.Sqrt:
		return a.Sqrt()
	case tree.Square:
		return a.Square()
	default:
		panic("eval: not a unary operator: " + op.String())
	}
}
