package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evoscope/symgp/cmd/symgp/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "symgp",
	Short: "Symbolic regression with genetic programming",
	Long: `symgp evolves closed-form expressions that fit tabular data.

It searches over expression trees with a generational genetic algorithm:
tournament selection, subtree crossover and a family of mutations, with
either plus selection or offspring selection as the survivor policy.`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewPrimitivesCommand())
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
