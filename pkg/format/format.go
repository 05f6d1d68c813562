// Package format converts expression trees to infix strings and parses
// infix strings back into postfix node sequences. Formatting and parsing
// round-trip to interpreter-equivalent trees, not necessarily to identical
// storage layouts: a weighted variable prints as "w * name" and parses back
// as an explicit multiplication.
package format

import (
	"strconv"
	"strings"

	"github.com/evoscope/symgp/pkg/tree"
)

// Formatter renders trees as infix expressions with named variables.
type Formatter struct {
	names     []string
	precision int
}

// NewFormatter builds a formatter. Variable index i renders as names[i] when
// available and as x<i> otherwise; precision controls the decimal digits of
// constants and weights.
func NewFormatter(names []string, precision int) *Formatter {
	if precision <= 0 {
		precision = 6
	}
	return &Formatter{names: names, precision: precision}
}

// Format renders the whole tree.
func (f *Formatter) Format(t *tree.Tree) string {
	if t.Empty() {
		return ""
	}
	var sb strings.Builder
	f.formatNode(&sb, t, t.Len()-1, 0)
	return sb.String()
}

// operator precedence, higher binds tighter
const (
	precAdd = iota + 1
	precMul
	precPow
)

func infixPrecedence(nt tree.NodeType) (string, int, bool) {
	switch nt {
	case tree.Add:
		return " + ", precAdd, true
	case tree.Sub:
		return " - ", precAdd, true
	case tree.Mul:
		return " * ", precMul, true
	case tree.Div:
		return " / ", precMul, true
	case tree.Pow:
		return " ^ ", precPow, true
	}
	return "", 0, false
}

func (f *Formatter) formatNode(sb *strings.Builder, t *tree.Tree, i, parentPrec int) {
	n := t.At(i)
	switch {
	case n.Type == tree.Constant:
		sb.WriteString(f.number(n.Value))
	case n.Type == tree.Variable:
		f.formatVariable(sb, n, parentPrec)
	default:
		if op, prec, ok := infixPrecedence(n.Type); ok {
			f.formatInfix(sb, t, i, op, prec, parentPrec)
		} else {
			f.formatCall(sb, t, i)
		}
	}
}

func (f *Formatter) formatVariable(sb *strings.Builder, n *tree.Node, parentPrec int) {
	name := "x" + strconv.Itoa(n.VarIndex)
	if n.VarIndex < len(f.names) {
		name = f.names[n.VarIndex]
	}
	if n.Value == 1 {
		sb.WriteString(name)
		return
	}
	if parentPrec > precMul {
		sb.WriteByte('(')
	}
	sb.WriteString(f.number(n.Value))
	sb.WriteString(" * ")
	sb.WriteString(name)
	if parentPrec > precMul {
		sb.WriteByte(')')
	}
}

func (f *Formatter) formatInfix(sb *strings.Builder, t *tree.Tree, i int, op string, prec, parentPrec int) {
	needParens := prec < parentPrec || (prec == parentPrec && !t.At(i).IsCommutative())
	if needParens {
		sb.WriteByte('(')
	}
	// non-commutative operators bind their right operands one level tighter,
	// so a - (b - c) keeps its parentheses
	children := t.ChildIndices(i)
	for k, child := range children {
		childPrec := prec
		if k > 0 && !t.At(i).IsCommutative() {
			childPrec = prec + 1
		}
		if k > 0 {
			sb.WriteString(op)
		}
		f.formatNode(sb, t, child, childPrec)
	}
	if needParens {
		sb.WriteByte(')')
	}
}

func (f *Formatter) formatCall(sb *strings.Builder, t *tree.Tree, i int) {
	sb.WriteString(t.At(i).Type.String())
	sb.WriteByte('(')
	for k, child := range t.ChildIndices(i) {
		if k > 0 {
			sb.WriteString(", ")
		}
		f.formatNode(sb, t, child, 0)
	}
	sb.WriteByte(')')
}

func (f *Formatter) number(v float64) string {
	s := strconv.FormatFloat(v, 'g', f.precision, 64)
	// keep negative atoms parseable inside expressions
	if strings.HasPrefix(s, "-") {
		return "(" + s + ")"
	}
	return s
}
