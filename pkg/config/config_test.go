package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoscope/symgp/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
dataset:
  path: /data/points.csv
  target: y
run:
  population_size: 50
  generations: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/points.csv", cfg.Dataset.Path)
	assert.Equal(t, "y", cfg.Dataset.Target)
	assert.Equal(t, 50, cfg.Run.PopulationSize)
	assert.Equal(t, 10, cfg.Run.Generations)
	// untouched fields keep their defaults
	assert.Equal(t, 0.25, cfg.Run.MutationProbability)
	assert.Equal(t, "mse", cfg.Run.ErrorMetric)
	assert.Equal(t, 5, cfg.Operators.TournamentSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	var cfgErr *errors.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errors.InvalidInput, cfgErr.Code())
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "dataset: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *errors.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errors.ParseError, cfgErr.Code())
}

func TestValidateRejectsMissingDataset(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	var cfgErr *errors.Error
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, errors.ValidationFailed, cfgErr.Code())
}

func TestValidateRejectsBadMetric(t *testing.T) {
	cfg := Default()
	cfg.Dataset = DatasetConfig{Path: "/data/points.csv", Target: "y"}
	cfg.Run.ErrorMetric = "mae"
	assert.Error(t, cfg.Validate())

	cfg.Run.ErrorMetric = "r2"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsProbabilityOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Dataset = DatasetConfig{Path: "/data/points.csv", Target: "y"}
	cfg.Run.CrossoverProbability = 1.5
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Dataset = DatasetConfig{Path: "/data/points.csv", Target: "y", Shuffle: true}
	cfg.Run.Seed = 42

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
