// Package symgp is a genetic programming engine for symbolic regression:
// it evolves closed-form mathematical expressions that fit tabular data.
//
// Expressions are stored as postfix arrays of nodes (children before
// parents, root last), which keeps genetic operators cache-friendly and
// makes subtree extraction a contiguous slice copy. The engine evolves
// them with a generational loop over pluggable operators.
//
// Key Components:
//
//   - tree: the expression genome. Postfix node storage, subtree
//     iteration, Merkle-style structural hashing with strict and relaxed
//     modes, canonical sorting of commutative operands, flattening of
//     nested commutative operators and conservative algebraic
//     simplification.
//
//   - eval: evaluation machinery. A postfix stack interpreter over
//     columnar datasets, forward-mode dual numbers for derivatives, a
//     Gauss-Newton style cost function adapter that assembles Jacobians in
//     fixed-width strides, and the MSE / R-squared fitness evaluators.
//
//   - evolve: the recombination engine. Individual, the collaborator
//     interfaces (Evaluator, Selector, Crossover, Mutator, Creator), the
//     plus-selection and offspring-selection recombination strategies and
//     the generational driver with bounded worker-pool parallelism and
//     deterministic per-trial random streams.
//
//   - operators: concrete genetic operators. Balanced tree creation over
//     a primitive set, tournament selection, size-constrained subtree
//     crossover and the point / change-function / change-variable
//     mutations.
//
//   - dataset: columnar in-memory datasets backed by Apache Arrow, CSV
//     loading, range partitioning, shuffling and standardization.
//
//   - format: precedence-aware infix formatting and an infix parser that
//     round-trips with the interpreter.
//
//   - archive: a SQLite-backed hall of fame recording the best individual
//     of each generation.
//
// Simple Example:
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/evoscope/symgp/pkg/dataset"
//	    "github.com/evoscope/symgp/pkg/eval"
//	    "github.com/evoscope/symgp/pkg/evolve"
//	    "github.com/evoscope/symgp/pkg/operators"
//	)
//
//	func main() {
//	    data, err := dataset.FromCSV("points.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    target := data.Cols() - 1
//
//	    pset := operators.DefaultPrimitiveSet()
//	    evaluator := eval.NewMSEEvaluator(data, target, data.FullRange())
//	    selector := operators.NewTournamentSelector(5, false, 0)
//	    crossover := operators.NewSubtreeCrossover(0.9, 50, 10)
//	    mutator := operators.NewPointMutation(1.0)
//
//	    program := evolve.NewGeneticProgram(
//	        evolve.DefaultConfig(),
//	        operators.NewBalancedTreeCreator(pset, target),
//	        evaluator,
//	        selector,
//	        evolve.NewPlusRecombinator(evaluator, selector, crossover, mutator),
//	    )
//
//	    best, err := program.Run(context.Background())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(best.Fitness[0])
//	}
//
// The cmd/symgp command wraps all of this behind a CLI with YAML
// configuration, structured logging and localized run reports.
package symgp
