// Package config defines the YAML-mapped run configuration and its
// validation rules.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/evoscope/symgp/pkg/errors"
)

// Config is the complete configuration of a symbolic regression run.
type Config struct {
	// Dataset configuration
	Dataset DatasetConfig `yaml:"dataset" validate:"required"`

	// Evolutionary run configuration
	Run RunConfig `yaml:"run,omitempty"`

	// Operator configuration
	Operators OperatorsConfig `yaml:"operators,omitempty"`

	// Archive configuration
	Archive ArchiveConfig `yaml:"archive,omitempty"`
}

// DatasetConfig describes the input data and its partitioning.
type DatasetConfig struct {
	// Path to the CSV file with named columns
	Path string `yaml:"path" validate:"required"`

	// Name of the target column
	Target string `yaml:"target" validate:"required"`

	// Training rows as start:end (half-open); empty means all rows
	TrainRange string `yaml:"train_range,omitempty"`

	// Test rows as start:end (half-open); empty means no holdout
	TestRange string `yaml:"test_range,omitempty"`

	// Shuffle rows before partitioning
	Shuffle bool `yaml:"shuffle,omitempty"`

	// Standardize columns to zero mean and unit variance over the
	// training range
	Standardize bool `yaml:"standardize,omitempty"`
}

// RunConfig holds the generational loop parameters.
type RunConfig struct {
	// Population size
	PopulationSize int `yaml:"population_size" validate:"min=1"`

	// Offspring trials per generation; zero means population size
	PoolSize int `yaml:"pool_size" validate:"min=0"`

	// Generation limit
	Generations int `yaml:"generations" validate:"min=1"`

	// Total evaluation budget
	Evaluations uint64 `yaml:"evaluations" validate:"min=1"`

	// Probability that crossover participates in a trial
	CrossoverProbability float64 `yaml:"crossover_probability" validate:"min=0,max=1"`

	// Probability that mutation participates in a trial
	MutationProbability float64 `yaml:"mutation_probability" validate:"min=0,max=1"`

	// Offspring length limit
	MaxLength int `yaml:"max_length" validate:"min=1"`

	// Offspring depth limit
	MaxDepth int `yaml:"max_depth" validate:"min=1"`

	// Master seed for the per-trial random streams
	Seed uint64 `yaml:"seed"`

	// Worker goroutine cap; zero means GOMAXPROCS
	Threads int `yaml:"threads" validate:"min=0"`

	// Fitness metric
	ErrorMetric string `yaml:"error_metric" validate:"oneof=mse r2"`

	// Use offspring selection instead of plus selection
	OffspringSelection bool `yaml:"offspring_selection,omitempty"`

	// Selection pressure limit for offspring selection
	MaxSelectionPressure float64 `yaml:"max_selection_pressure" validate:"min=0"`
}

// OperatorsConfig holds the genetic operator parameters.
type OperatorsConfig struct {
	// Enabled primitives (add, sub, mul, div, aq, pow, exp, log, sin, cos,
	// tan, sqrt, square, constant, variable)
	Primitives []string `yaml:"primitives" validate:"min=1,dive,required"`

	// Tournament group size
	TournamentSize int `yaml:"tournament_size" validate:"min=1"`

	// Probability of picking internal nodes as crossover cut points
	InternalCrossoverBias float64 `yaml:"internal_crossover_bias" validate:"min=0,max=1"`

	// Gaussian scale of coefficient perturbation
	MutationSigma float64 `yaml:"mutation_sigma" validate:"min=0"`
}

// ArchiveConfig describes the optional hall-of-fame database.
type ArchiveConfig struct {
	// Path of the SQLite database; empty disables archiving
	Path string `yaml:"path,omitempty"`
}

// Load reads, merges over defaults and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.InvalidInput, "failed to read config file"),
			errors.Fields{"path": path},
		)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ParseError, "failed to parse config file"),
			errors.Fields{"path": path},
		)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, errors.Unknown, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WithFields(
			errors.Wrap(err, errors.Unknown, "failed to write config file"),
			errors.Fields{"path": path},
		)
	}
	return nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}
	return nil
}
