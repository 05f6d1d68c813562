package evolve

import (
	"context"
	"runtime"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/evoscope/symgp/pkg/errors"
	"github.com/evoscope/symgp/pkg/logging"
)

// Config holds the generational loop parameters.
type Config struct {
	PopulationSize       int     `json:"population_size"`       // Default: 1000
	PoolSize             int     `json:"pool_size"`             // Offspring trials per generation; default: population size
	Generations          int     `json:"generations"`           // Default: 100
	Evaluations          uint64  `json:"evaluations"`           // Total evaluation budget; default: 1000000
	CrossoverProbability float64 `json:"crossover_probability"` // Default: 1.0
	MutationProbability  float64 `json:"mutation_probability"`  // Default: 0.25
	MaxLength            int     `json:"max_length"`            // Default: 50
	MaxDepth             int     `json:"max_depth"`             // Default: 10
	Seed                 uint64  `json:"seed"`
	Threads              int     `json:"threads"` // Default: GOMAXPROCS
}

// DefaultConfig returns the default generational loop parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize:       1000,
		PoolSize:             1000,
		Generations:          100,
		Evaluations:          1_000_000,
		CrossoverProbability: 1.0,
		MutationProbability:  0.25,
		MaxLength:            50,
		MaxDepth:             10,
	}
}

// GenerationStats is reported to the observer after every generation.
type GenerationStats struct {
	Generation  int
	BestFitness float64
	Evaluations uint64
	Diversity   float64 // distinct structural hashes / population size
	Best        Individual
}

// GeneticProgram runs the generational loop: initialize, then repeat
// Prepare-barrier plus many concurrent offspring trials, keep-best
// reinsertion and termination checks. The parent population is frozen while
// trials run; every trial owns a private candidate tree and a private random
// stream, so the only cross-trial contention is the evaluator's atomic
// counter.
type GeneticProgram struct {
	config       Config
	creator      Creator
	evaluator    Evaluator
	selector     Selector
	recombinator Recombinator

	// OnGeneration, when set, observes per-generation statistics.
	OnGeneration func(GenerationStats)
}

// NewGeneticProgram assembles a run from its collaborators. The selector
// must be the one the recombinator prepares.
func NewGeneticProgram(config Config, creator Creator, evaluator Evaluator, selector Selector, recombinator Recombinator) *GeneticProgram {
	if config.Threads <= 0 {
		config.Threads = runtime.GOMAXPROCS(0)
	}
	if config.PoolSize <= 0 {
		config.PoolSize = config.PopulationSize
	}
	return &GeneticProgram{
		config:       config,
		creator:      creator,
		evaluator:    evaluator,
		selector:     selector,
		recombinator: recombinator,
	}
}

// Run executes the loop until the generation count, the evaluation budget,
// the recombinator's own termination signal or context cancellation stops
// it, and returns the best individual seen.
func (g *GeneticProgram) Run(ctx context.Context) (Individual, error) {
	logger := logging.GetLogger()
	cfg := g.config
	idx := g.selector.ObjectiveIndex()
	maximization := g.selector.Maximization()

	population := g.initialize(ctx)
	best := g.bestOf(population).Clone()

	logger.Info(ctx, "Population initialized: size=%d, evaluations=%d",
		len(population), g.evaluator.Evaluations())

	for gen := 1; gen <= cfg.Generations; gen++ {
		if err := errors.CheckContext(ctx, "generation"); err != nil {
			return best, err
		}

		// single-writer barrier: no trial may start before Prepare returns
		g.recombinator.Prepare(population)

		// one result slot per trial index keeps the outcome independent of
		// goroutine scheduling order
		children := make([]Individual, cfg.PoolSize)
		produced := make([]bool, cfg.PoolSize)

		p := pool.New().WithMaxGoroutines(cfg.Threads)
		for trial := 0; trial < cfg.PoolSize; trial++ {
			trial := trial
			p.Go(func() {
				if g.recombinator.Terminate() {
					return
				}
				rng := NewTrialRNG(cfg.Seed, gen, trial)
				child, ok := g.recombinator.Recombine(rng, cfg.CrossoverProbability, cfg.MutationProbability)
				if ok {
					children[trial] = child
					produced[trial] = true
				}
			})
		}
		p.Wait()

		offspring := make([]Individual, 0, cfg.PoolSize)
		for trial, ok := range produced {
			if ok {
				offspring = append(offspring, children[trial])
			}
		}

		population = reinsertKeepBest(population, offspring, idx, maximization, cfg.PopulationSize)

		generationBest := g.bestOf(population)
		if better(generationBest.Fitness[idx], best.Fitness[idx], maximization) {
			best = generationBest.Clone()
		}

		stats := GenerationStats{
			Generation:  gen,
			BestFitness: best.Fitness[idx],
			Evaluations: g.evaluator.Evaluations(),
			Diversity:   diversity(population),
			Best:        best,
		}
		if g.OnGeneration != nil {
			g.OnGeneration(stats)
		}
		logger.Info(ctx, "Generation %d: offspring=%d, best=%.6g, evaluations=%d, diversity=%.3f",
			gen, len(offspring), stats.BestFitness, stats.Evaluations, stats.Diversity)

		if g.recombinator.Terminate() {
			logger.Info(ctx, "Recombinator signalled termination at generation %d", gen)
			break
		}
		if g.evaluator.Evaluations() >= cfg.Evaluations {
			logger.Info(ctx, "Evaluation budget exhausted: %d", g.evaluator.Evaluations())
			break
		}
	}
	return best, nil
}

// initialize samples and evaluates the starting population concurrently.
// Generation zero trial streams are reserved for initialization.
func (g *GeneticProgram) initialize(ctx context.Context) []Individual {
	cfg := g.config
	idx := g.selector.ObjectiveIndex()
	maximization := g.selector.Maximization()

	population := make([]Individual, cfg.PopulationSize)
	p := pool.New().WithMaxGoroutines(cfg.Threads)
	for i := 0; i < cfg.PopulationSize; i++ {
		i := i
		p.Go(func() {
			rng := NewTrialRNG(cfg.Seed, 0, i)
			targetLength := 1 + rng.Intn(cfg.MaxLength)
			ind := NewIndividual(g.creator.Create(rng, targetLength, cfg.MaxDepth))
			fitness := g.evaluator.Evaluate(rng, &ind)
			if !isFinite(fitness) {
				fitness = worstFitness(maximization)
			}
			ind.Fitness = makeFitness(idx, fitness)
			population[i] = ind
		})
	}
	p.Wait()
	return population
}

func (g *GeneticProgram) bestOf(population []Individual) *Individual {
	idx := g.selector.ObjectiveIndex()
	maximization := g.selector.Maximization()
	best := &population[0]
	for i := 1; i < len(population); i++ {
		if better(population[i].Fitness[idx], best.Fitness[idx], maximization) {
			best = &population[i]
		}
	}
	return best
}

// reinsertKeepBest merges parents and offspring and keeps the fittest
// populationSize individuals, ties resolved by insertion order.
func reinsertKeepBest(parents, offspring []Individual, idx int, maximization bool, populationSize int) []Individual {
	merged := make([]Individual, 0, len(parents)+len(offspring))
	merged = append(merged, parents...)
	merged = append(merged, offspring...)
	sort.SliceStable(merged, func(a, b int) bool {
		return better(merged[a].Fitness[idx], merged[b].Fitness[idx], maximization)
	})
	return merged[:populationSize]
}

// diversity counts distinct canonical structural hashes relative to
// population size.
func diversity(population []Individual) float64 {
	if len(population) == 0 {
		return 0
	}
	seen := make(map[uint64]struct{}, len(population))
	for i := range population {
		canonical := population[i].Genotype.Clone()
		canonical.Sort()
		seen[canonical.RootHash()] = struct{}{}
	}
	return float64(len(seen)) / float64(len(population))
}
