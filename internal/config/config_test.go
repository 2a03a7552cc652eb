package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15, cfg.Width)
	assert.Equal(t, 90, cfg.Rewards)
	assert.Equal(t, 500, cfg.PopulationSize)
	assert.Equal(t, 20, cfg.SurvivorCount)
	assert.InDelta(t, 0.005, cfg.MutationProbability, 1e-12)
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "narrow grid", mutate: func(c *Config) { c.Width = 3 }, wantErr: "width must be >= 4"},
		{name: "too many rewards", mutate: func(c *Config) { c.Rewards = 169 }, wantErr: "must be < interior cells 169"},
		{name: "empty population", mutate: func(c *Config) { c.PopulationSize = 0 }, wantErr: "population size must be > 0"},
		{name: "survivors above population", mutate: func(c *Config) { c.SurvivorCount = 501 }, wantErr: "survivor count"},
		{name: "mutation above one", mutate: func(c *Config) { c.MutationProbability = 1.5 }, wantErr: "mutation probability"},
		{name: "no generations", mutate: func(c *Config) { c.Generations = 0 }, wantErr: "generations must be > 0"},
		{name: "no trials", mutate: func(c *Config) { c.Trials = 0 }, wantErr: "trials must be > 0"},
		{name: "no steps", mutate: func(c *Config) { c.Steps = 0 }, wantErr: "steps must be > 0"},
		{name: "unknown selection", mutate: func(c *Config) { c.Selection = "roulette" }, wantErr: "unsupported selection"},
		{name: "empty tournament", mutate: func(c *Config) { c.Selection = SelectionTournament; c.TournamentSize = 0 }, wantErr: "tournament size"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Steps = 0
	cfg.Trials = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps must be > 0")
	assert.Contains(t, err.Error(), "trials must be > 0")
}

func TestLoadFileJSONOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"width": 10, "height": 8, "rewards": 12, "seed": 42}`), 0o600))

	cfg, err := LoadFile(Default(), path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)
	assert.Equal(t, 8, cfg.Height)
	assert.Equal(t, 12, cfg.Rewards)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 500, cfg.PopulationSize, "unset keys keep defaults")
}

func TestLoadFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	body := `
population_size = 60
survivor_count = 6
mutation_probability = 0.02
selection = "tournament"
tournament_size = 4
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := LoadFile(Default(), path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.PopulationSize)
	assert.Equal(t, 6, cfg.SurvivorCount)
	assert.InDelta(t, 0.02, cfg.MutationProbability, 1e-12)
	assert.Equal(t, SelectionTournament, cfg.Selection)
	assert.Equal(t, 4, cfg.TournamentSize)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileRejectsUnknownKeysAndFormats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"widht": 10}`), 0o600))
	_, err := LoadFile(Default(), jsonPath)
	require.Error(t, err)

	tomlPath := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("widht = 10\n"), 0o600))
	_, err = LoadFile(Default(), tomlPath)
	require.ErrorContains(t, err, "unknown keys")

	yamlPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("width: 10\n"), 0o600))
	_, err = LoadFile(Default(), yamlPath)
	require.ErrorContains(t, err, "unsupported config format")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GRIDBOT_WIDTH":                "9",
		"GRIDBOT_SEED":                 "18446744073709551615",
		"GRIDBOT_MUTATION_PROBABILITY": "0.1",
		"GRIDBOT_SELECTION":            " tournament ",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := ApplyEnv(Default(), lookup)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Width)
	assert.Equal(t, uint64(18446744073709551615), cfg.Seed)
	assert.InDelta(t, 0.1, cfg.MutationProbability, 1e-12)
	assert.Equal(t, SelectionTournament, cfg.Selection)
	assert.Equal(t, 15, cfg.Height)
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	lookup := func(key string) (string, bool) {
		switch key {
		case "GRIDBOT_STEPS":
			return "many", true
		case "GRIDBOT_SEED":
			return "-1", true
		}
		return "", false
	}
	_, err := ApplyEnv(Default(), lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRIDBOT_STEPS")
	assert.Contains(t, err.Error(), "GRIDBOT_SEED")
}

func TestLoadDotEnvIgnoresMissingFile(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadDotEnvExportsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GRIDBOT_TRIALS=4\n"), 0o600))
	t.Setenv("GRIDBOT_TRIALS", "")
	require.NoError(t, os.Unsetenv("GRIDBOT_TRIALS"))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := ApplyEnv(Default(), os.LookupEnv)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Trials)
}
