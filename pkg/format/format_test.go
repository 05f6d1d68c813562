package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoscope/symgp/pkg/dataset"
	"github.com/evoscope/symgp/pkg/eval"
	"github.com/evoscope/symgp/pkg/tree"
)

func updated(nodes ...tree.Node) tree.Tree {
	t := tree.New(nodes)
	t.UpdateNodes()
	return t
}

func TestFormatSimpleExpressions(t *testing.T) {
	f := NewFormatter([]string{"x", "y"}, 6)

	tests := []struct {
		name  string
		tree  tree.Tree
		infix string
	}{
		{
			name:  "sum",
			tree:  updated(tree.NewVariable(0, 1), tree.NewVariable(1, 1), tree.NewNode(tree.Add)),
			infix: "x + y",
		},
		{
			name:  "weighted variable",
			tree:  updated(tree.NewVariable(0, 2.5)),
			infix: "2.5 * x",
		},
		{
			name: "product of sums",
			tree: updated(
				tree.NewVariable(0, 1), tree.NewConstant(1), tree.NewNode(tree.Add),
				tree.NewVariable(1, 1), tree.NewConstant(2), tree.NewNode(tree.Add),
				tree.NewNode(tree.Mul),
			),
			infix: "(x + 1) * (y + 2)",
		},
		{
			name: "right-nested subtraction keeps parens",
			tree: updated(
				tree.NewVariable(0, 1),
				tree.NewVariable(1, 1), tree.NewConstant(1), tree.NewNode(tree.Sub),
				tree.NewNode(tree.Sub),
			),
			infix: "x - (y - 1)",
		},
		{
			name:  "unary call",
			tree:  updated(tree.NewVariable(0, 1), tree.NewNode(tree.Sin)),
			infix: "sin(x)",
		},
		{
			name: "analytic quotient",
			tree: updated(
				tree.NewVariable(0, 1), tree.NewVariable(1, 1), tree.NewNode(tree.Aq),
			),
			infix: "aq(x, y)",
		},
		{
			name:  "negative constant",
			tree:  updated(tree.NewConstant(-3), tree.NewVariable(0, 1), tree.NewNode(tree.Mul)),
			infix: "(-3) * x",
		},
		{
			name:  "power",
			tree:  updated(tree.NewVariable(0, 1), tree.NewConstant(2), tree.NewNode(tree.Pow)),
			infix: "x ^ 2",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.infix, f.Format(&tc.tree))
		})
	}
}

func TestFormatUnnamedVariables(t *testing.T) {
	f := NewFormatter(nil, 6)
	tr := updated(tree.NewVariable(3, 1))
	assert.Equal(t, "x3", f.Format(&tr))
}

func TestFormatEmptyTree(t *testing.T) {
	f := NewFormatter(nil, 6)
	empty := tree.New(nil)
	assert.Equal(t, "", f.Format(&empty))
}

func TestParseSimpleExpressions(t *testing.T) {
	p := NewParser([]string{"x", "y"})

	tr, err := p.Parse("x + y * 2")
	require.NoError(t, err)
	// postfix: x y 2 mul add
	require.Equal(t, 5, tr.Len())
	assert.Equal(t, tree.Variable, tr.At(0).Type)
	assert.Equal(t, tree.Mul, tr.At(3).Type)
	assert.Equal(t, tree.Add, tr.At(4).Type)
}

func TestParsePrecedenceAndParens(t *testing.T) {
	p := NewParser([]string{"x"})
	d := unitData(t)
	var interp eval.Interpreter

	grouped, err := p.Parse("(x + 1) * 2")
	require.NoError(t, err)
	flat, err := p.Parse("x + 1 * 2")
	require.NoError(t, err)

	g := interp.Evaluate(&grouped, d, d.FullRange())
	fl := interp.Evaluate(&flat, d, d.FullRange())
	assert.Equal(t, []float64{4, 6, 8}, g)
	assert.Equal(t, []float64{3, 4, 5}, fl)
}

func TestParseErrors(t *testing.T) {
	p := NewParser([]string{"x"})
	for _, input := range []string{
		"", "x +", "(x", "x)", "z", "foo(x)", "sin(x, x)", "aq(x)", "1..2", "x $ 2",
	} {
		_, err := p.Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseUnaryMinus(t *testing.T) {
	p := NewParser([]string{"x"})
	d := unitData(t)
	var interp eval.Interpreter

	negConst, err := p.Parse("-2")
	require.NoError(t, err)
	require.Equal(t, 1, negConst.Len())
	assert.Equal(t, -2.0, negConst.At(0).Value)

	negVar, err := p.Parse("-x")
	require.NoError(t, err)
	values := interp.Evaluate(&negVar, d, d.FullRange())
	assert.Equal(t, []float64{-1, -2, -3}, values)
}

func TestRoundTripMatchesInterpreter(t *testing.T) {
	names := []string{"x", "y"}
	f := NewFormatter(names, 17)
	p := NewParser(names)
	d := pairData(t)
	var interp eval.Interpreter

	trees := []tree.Tree{
		updated(tree.NewVariable(0, 1.5), tree.NewVariable(1, 1), tree.NewNode(tree.Div)),
		updated(
			tree.NewVariable(0, 1), tree.NewNode(tree.Square),
			tree.NewVariable(1, 0.25), tree.NewNode(tree.Exp),
			tree.NewNode(tree.Add),
		),
		updated(
			tree.NewConstant(2), tree.NewVariable(0, 1), tree.NewNode(tree.Pow),
			tree.NewVariable(1, -3.5), tree.NewNode(tree.Sub),
		),
		updated(
			tree.NewVariable(0, 1), tree.NewVariable(1, 1), tree.NewNode(tree.Aq),
			tree.NewNode(tree.Sqrt),
		),
	}
	for _, original := range trees {
		infix := f.Format(&original)
		parsed, err := p.Parse(infix)
		require.NoError(t, err, "formatted %q", infix)

		want := interp.Evaluate(&original, d, d.FullRange())
		got := interp.Evaluate(&parsed, d, d.FullRange())
		require.Len(t, got, len(want))
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-9, "formatted %q row %d", infix, i)
		}
	}
}

func unitData(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New([]string{"x"}, [][]float64{{1, 2, 3}})
	require.NoError(t, err)
	return d
}

func pairData(t *testing.T) *dataset.Dataset {
	t.Helper()
	d, err := dataset.New([]string{"x", "y"}, [][]float64{{0.5, 1.5, 2.5}, {2, 4, 8}})
	require.NoError(t, err)
	return d
}
