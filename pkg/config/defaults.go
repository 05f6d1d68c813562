package config

// Default returns the configuration a run starts from before the YAML file
// and command line flags are applied.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			PopulationSize:       1000,
			Generations:          100,
			Evaluations:          1_000_000,
			CrossoverProbability: 1.0,
			MutationProbability:  0.25,
			MaxLength:            50,
			MaxDepth:             10,
			ErrorMetric:          "mse",
			MaxSelectionPressure: 100,
		},
		Operators: OperatorsConfig{
			Primitives:            []string{"add", "sub", "mul", "div", "constant", "variable"},
			TournamentSize:        5,
			InternalCrossoverBias: 0.9,
			MutationSigma:         1.0,
		},
	}
}
