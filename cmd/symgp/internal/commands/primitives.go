package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evoscope/symgp/pkg/tree"
)

// NewPrimitivesCommand creates the primitives command, which lists the node
// types a run can enable.
func NewPrimitivesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "primitives",
		Short: "List the available expression primitives",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("NAME      ARITY  COMMUTATIVE")
			for _, t := range []tree.NodeType{
				tree.Add, tree.Sub, tree.Mul, tree.Div, tree.Aq, tree.Pow,
				tree.Exp, tree.Log, tree.Sin, tree.Cos, tree.Tan,
				tree.Sqrt, tree.Square, tree.Constant, tree.Variable,
			} {
				fmt.Printf("%-9s %-6d %v\n", t.String(), t.DeclaredArity(), t.IsCommutative())
			}
		},
	}
}
