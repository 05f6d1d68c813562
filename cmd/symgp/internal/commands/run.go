package commands

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/evoscope/symgp/pkg/archive"
	"github.com/evoscope/symgp/pkg/config"
	"github.com/evoscope/symgp/pkg/dataset"
	"github.com/evoscope/symgp/pkg/errors"
	"github.com/evoscope/symgp/pkg/eval"
	"github.com/evoscope/symgp/pkg/evolve"
	"github.com/evoscope/symgp/pkg/format"
	"github.com/evoscope/symgp/pkg/logging"
	"github.com/evoscope/symgp/pkg/operators"
	"github.com/evoscope/symgp/pkg/tree"
)

// NewRunCommand creates the run command, the main entry point of a
// symbolic regression run.
func NewRunCommand() *cobra.Command {
	var configPath, tracePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a symbolic regression search on a CSV dataset",
		Long: `Run evolves an expression that fits the target column of a CSV
dataset. Options can come from a YAML config file, from flags, or both;
flags win.`,
		Example: `  # Fit the "y" column of points.csv with defaults
  symgp run --dataset points.csv --target y

  # Offspring selection with a pressure limit and a holdout range
  symgp run --dataset points.csv --target y --train 0:150 --test 150:200 \
    --offspring-selection --selection-pressure 100

  # Everything from a config file, overriding the seed
  symgp run --config run.yaml --seed 1234`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return runSearch(cmd.Context(), cfg, tracePath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	cmd.Flags().String("dataset", "", "CSV file with named columns")
	cmd.Flags().String("target", "", "name of the target column")
	cmd.Flags().String("train", "", "training rows as start:end")
	cmd.Flags().String("test", "", "holdout rows as start:end")
	cmd.Flags().Bool("shuffle", false, "shuffle rows before partitioning")
	cmd.Flags().Bool("standardize", false, "standardize columns over the training range")
	cmd.Flags().Int("population-size", 0, "population size")
	cmd.Flags().Int("pool-size", 0, "offspring trials per generation")
	cmd.Flags().Int("generations", 0, "generation limit")
	cmd.Flags().Uint64("evaluations", 0, "total evaluation budget")
	cmd.Flags().Float64("crossover-probability", 0, "crossover participation probability")
	cmd.Flags().Float64("mutation-probability", 0, "mutation participation probability")
	cmd.Flags().Int("maxlength", 0, "offspring length limit")
	cmd.Flags().Int("maxdepth", 0, "offspring depth limit")
	cmd.Flags().Uint64("seed", 0, "master random seed")
	cmd.Flags().Int("threads", 0, "worker goroutines (0 = all cores)")
	cmd.Flags().String("error-metric", "", "fitness metric: mse or r2")
	cmd.Flags().Bool("offspring-selection", false, "use offspring selection")
	cmd.Flags().Float64("selection-pressure", 0, "selection pressure limit")
	cmd.Flags().String("archive", "", "SQLite hall-of-fame database path")
	cmd.Flags().StringVar(&tracePath, "trace", "", "write a runtime trace snapshot to this file")

	return cmd
}

// resolveConfig layers defaults, the optional config file and explicit
// flags, in that order.
func resolveConfig(cmd *cobra.Command, configPath string) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dataset") {
		cfg.Dataset.Path, _ = flags.GetString("dataset")
	}
	if flags.Changed("target") {
		cfg.Dataset.Target, _ = flags.GetString("target")
	}
	if flags.Changed("train") {
		cfg.Dataset.TrainRange, _ = flags.GetString("train")
	}
	if flags.Changed("test") {
		cfg.Dataset.TestRange, _ = flags.GetString("test")
	}
	if flags.Changed("shuffle") {
		cfg.Dataset.Shuffle, _ = flags.GetBool("shuffle")
	}
	if flags.Changed("standardize") {
		cfg.Dataset.Standardize, _ = flags.GetBool("standardize")
	}
	if flags.Changed("population-size") {
		cfg.Run.PopulationSize, _ = flags.GetInt("population-size")
	}
	if flags.Changed("pool-size") {
		cfg.Run.PoolSize, _ = flags.GetInt("pool-size")
	}
	if flags.Changed("generations") {
		cfg.Run.Generations, _ = flags.GetInt("generations")
	}
	if flags.Changed("evaluations") {
		cfg.Run.Evaluations, _ = flags.GetUint64("evaluations")
	}
	if flags.Changed("crossover-probability") {
		cfg.Run.CrossoverProbability, _ = flags.GetFloat64("crossover-probability")
	}
	if flags.Changed("mutation-probability") {
		cfg.Run.MutationProbability, _ = flags.GetFloat64("mutation-probability")
	}
	if flags.Changed("maxlength") {
		cfg.Run.MaxLength, _ = flags.GetInt("maxlength")
	}
	if flags.Changed("maxdepth") {
		cfg.Run.MaxDepth, _ = flags.GetInt("maxdepth")
	}
	if flags.Changed("seed") {
		cfg.Run.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("threads") {
		cfg.Run.Threads, _ = flags.GetInt("threads")
	}
	if flags.Changed("error-metric") {
		cfg.Run.ErrorMetric, _ = flags.GetString("error-metric")
	}
	if flags.Changed("offspring-selection") {
		cfg.Run.OffspringSelection, _ = flags.GetBool("offspring-selection")
	}
	if flags.Changed("selection-pressure") {
		cfg.Run.MaxSelectionPressure, _ = flags.GetFloat64("selection-pressure")
	}
	if flags.Changed("archive") {
		cfg.Archive.Path, _ = flags.GetString("archive")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSearch(ctx context.Context, cfg *config.Config, tracePath string) error {
	logger := logging.GetLogger()
	ctx = logging.WithRunID(ctx, uuid.NewString())

	if tracePath != "" {
		fr := logging.NewFlightRecorder()
		if err := fr.Start(); err != nil {
			return err
		}
		defer func() {
			if err := fr.Snapshot(tracePath); err != nil {
				logger.Warn(ctx, "failed to write trace snapshot: %v", err)
			}
			fr.Stop()
		}()
	}

	data, inputs, target, err := loadData(cfg)
	if err != nil {
		return err
	}
	trainRange, testRange, err := resolveRanges(cfg, data)
	if err != nil {
		return err
	}
	if cfg.Dataset.Shuffle {
		data.Shuffle(rand.New(rand.NewSource(int64(cfg.Run.Seed))))
	}
	if cfg.Dataset.Standardize {
		data.Standardize(trainRange)
	}
	logger.Info(ctx, "Loaded dataset: rows=%d, inputs=%d, target=%s, train=%s",
		data.Rows(), len(inputs), cfg.Dataset.Target, trainRange.String())

	pset, err := buildPrimitiveSet(cfg.Operators.Primitives)
	if err != nil {
		return err
	}

	maximization := cfg.Run.ErrorMetric == "r2"
	var evaluator evolve.Evaluator
	if maximization {
		evaluator = eval.NewRSquaredEvaluator(data, target, trainRange)
	} else {
		evaluator = eval.NewMSEEvaluator(data, target, trainRange)
	}

	selector := operators.NewTournamentSelector(cfg.Operators.TournamentSize, maximization, 0)
	creator := operators.NewBalancedTreeCreator(pset, len(inputs))
	crossover := operators.NewSubtreeCrossover(cfg.Operators.InternalCrossoverBias, cfg.Run.MaxLength, cfg.Run.MaxDepth)
	mutator := operators.NewMultiMutation().
		Add(operators.NewPointMutation(cfg.Operators.MutationSigma), 1).
		Add(operators.NewChangeFunctionMutation(pset), 1).
		Add(operators.NewChangeVariableMutation(len(inputs)), 1)

	var recombinator evolve.Recombinator
	if cfg.Run.OffspringSelection {
		recombinator = evolve.NewOSRecombinator(evaluator, selector, crossover, mutator, cfg.Run.MaxSelectionPressure)
	} else {
		recombinator = evolve.NewPlusRecombinator(evaluator, selector, crossover, mutator)
	}

	program := evolve.NewGeneticProgram(evolve.Config{
		PopulationSize:       cfg.Run.PopulationSize,
		PoolSize:             cfg.Run.PoolSize,
		Generations:          cfg.Run.Generations,
		Evaluations:          cfg.Run.Evaluations,
		CrossoverProbability: cfg.Run.CrossoverProbability,
		MutationProbability:  cfg.Run.MutationProbability,
		MaxLength:            cfg.Run.MaxLength,
		MaxDepth:             cfg.Run.MaxDepth,
		Seed:                 cfg.Run.Seed,
		Threads:              cfg.Run.Threads,
	}, creator, evaluator, selector, recombinator)

	formatter := format.NewFormatter(inputs, 6)

	var store *archive.Store
	if cfg.Archive.Path != "" {
		store, err = archive.NewStore(cfg.Archive.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		program.OnGeneration = func(stats evolve.GenerationStats) {
			canonical := stats.Best.Genotype.Clone()
			canonical.Sort()
			entry := archive.Entry{
				Generation:  stats.Generation,
				Expression:  formatter.Format(&stats.Best.Genotype),
				Fitness:     stats.BestFitness,
				Length:      stats.Best.Genotype.Len(),
				Depth:       stats.Best.Genotype.Depth(),
				Hash:        canonical.RootHash(),
				Evaluations: stats.Evaluations,
			}
			if err := store.Record(ctx, entry); err != nil {
				logger.Warn(ctx, "failed to archive generation %d: %v", stats.Generation, err)
			}
		}
	}

	start := time.Now()
	best, err := program.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	report(cfg, data, target, testRange, best, evaluator, formatter, elapsed)
	return nil
}

// loadData reads the CSV and reorders columns so the inputs come first and
// the target sits last, which is the layout the variable indices assume.
func loadData(cfg *config.Config) (*dataset.Dataset, []string, int, error) {
	raw, err := dataset.FromCSV(cfg.Dataset.Path)
	if err != nil {
		return nil, nil, 0, err
	}
	targetIdx, err := raw.ColumnIndex(cfg.Dataset.Target)
	if err != nil {
		return nil, nil, 0, err
	}

	names := make([]string, 0, raw.Cols())
	columns := make([][]float64, 0, raw.Cols())
	for i := 0; i < raw.Cols(); i++ {
		if i == targetIdx {
			continue
		}
		names = append(names, raw.Names()[i])
		columns = append(columns, raw.Column(i))
	}
	inputs := append([]string(nil), names...)
	names = append(names, cfg.Dataset.Target)
	columns = append(columns, raw.Column(targetIdx))

	data, err := dataset.New(names, columns)
	if err != nil {
		return nil, nil, 0, err
	}
	return data, inputs, data.Cols() - 1, nil
}

func resolveRanges(cfg *config.Config, data *dataset.Dataset) (dataset.Range, dataset.Range, error) {
	trainRange := data.FullRange()
	testRange := dataset.Range{}
	var err error
	if cfg.Dataset.TrainRange != "" {
		if trainRange, err = dataset.ParseRange(cfg.Dataset.TrainRange); err != nil {
			return trainRange, testRange, err
		}
	}
	if cfg.Dataset.TestRange != "" {
		if testRange, err = dataset.ParseRange(cfg.Dataset.TestRange); err != nil {
			return trainRange, testRange, err
		}
	}
	if trainRange.End > data.Rows() || testRange.End > data.Rows() {
		return trainRange, testRange, errors.WithFields(
			errors.New(errors.InvalidInput, "range exceeds dataset rows"),
			errors.Fields{"rows": data.Rows()},
		)
	}
	return trainRange, testRange, nil
}

func buildPrimitiveSet(names []string) (*operators.PrimitiveSet, error) {
	types := make([]tree.NodeType, 0, len(names))
	for _, name := range names {
		t, ok := tree.ParseNodeType(name)
		if !ok {
			return nil, errors.WithFields(
				errors.New(errors.InvalidInput, "unknown primitive"),
				errors.Fields{"primitive": name},
			)
		}
		types = append(types, t)
	}
	return operators.NewPrimitiveSet(types...), nil
}

func report(cfg *config.Config, data *dataset.Dataset, target int,
	testRange dataset.Range, best evolve.Individual,
	evaluator evolve.Evaluator, formatter *format.Formatter, elapsed time.Duration) {

	p := message.NewPrinter(language.English)
	var interp eval.Interpreter

	p.Printf("\nmodel:       %s\n", formatter.Format(&best.Genotype))
	p.Printf("length:      %d, depth: %d\n", best.Genotype.Len(), best.Genotype.Depth())
	p.Printf("%s (train):  %.6g\n", cfg.Run.ErrorMetric, best.Fitness[0])
	if testRange.Size() > 0 {
		predicted := interp.Evaluate(&best.Genotype, data, testRange)
		actual := data.Column(target)[testRange.Start:testRange.End]
		p.Printf("mse (test):  %.6g\n", eval.MeanSquaredError(predicted, actual))
	}
	p.Printf("evaluations: %d\n", evaluator.Evaluations())
	p.Printf("elapsed:     %s\n", elapsed.Round(time.Millisecond))
}
