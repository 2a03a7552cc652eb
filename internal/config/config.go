// Package config holds the run configuration. Values are layered: Default,
// then a JSON or TOML file, then GRIDBOT_* environment variables (optionally
// seeded from a .env file), then whatever the caller applies on top.
package config

import (
	"errors"
	"fmt"

	"gridbot/internal/grid"
)

const (
	SelectionElite      = "elite"
	SelectionTournament = "tournament"
)

type Config struct {
	Width               int     `json:"width" toml:"width"`
	Height              int     `json:"height" toml:"height"`
	Rewards             int     `json:"rewards" toml:"rewards"`
	PopulationSize      int     `json:"population_size" toml:"population_size"`
	SurvivorCount       int     `json:"survivor_count" toml:"survivor_count"`
	MutationProbability float64 `json:"mutation_probability" toml:"mutation_probability"`
	Generations         int     `json:"generations" toml:"generations"`
	Trials              int     `json:"trials" toml:"trials"`
	Steps               int     `json:"steps" toml:"steps"`
	Seed                uint64  `json:"seed" toml:"seed"`
	Selection           string  `json:"selection,omitempty" toml:"selection"`
	TournamentSize      int     `json:"tournament_size,omitempty" toml:"tournament_size"`
}

// Default is the reference experiment: a 15x15 world with 90 rewards, 500
// policies of which 20 survive each of 200 generations.
func Default() Config {
	return Config{
		Width:               15,
		Height:              15,
		Rewards:             90,
		PopulationSize:      500,
		SurvivorCount:       20,
		MutationProbability: 0.005,
		Generations:         200,
		Trials:              1,
		Steps:               150,
		Seed:                0,
		Selection:           SelectionElite,
		TournamentSize:      3,
	}
}

func (c Config) Shape() grid.Shape {
	return grid.Shape{Rows: c.Height, Cols: c.Width, Rewards: c.Rewards}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if err := c.Shape().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.PopulationSize <= 0 {
		errs = append(errs, fmt.Errorf("population size must be > 0, got %d", c.PopulationSize))
	}
	if c.SurvivorCount <= 0 || c.SurvivorCount > c.PopulationSize {
		errs = append(errs, fmt.Errorf("survivor count must be in [1, population size], got %d", c.SurvivorCount))
	}
	if c.MutationProbability < 0 || c.MutationProbability > 1 {
		errs = append(errs, fmt.Errorf("mutation probability must be in [0, 1], got %g", c.MutationProbability))
	}
	if c.Generations <= 0 {
		errs = append(errs, fmt.Errorf("generations must be > 0, got %d", c.Generations))
	}
	if c.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials must be > 0, got %d", c.Trials))
	}
	if c.Steps <= 0 {
		errs = append(errs, fmt.Errorf("steps must be > 0, got %d", c.Steps))
	}
	switch c.Selection {
	case "", SelectionElite:
	case SelectionTournament:
		if c.TournamentSize <= 0 {
			errs = append(errs, fmt.Errorf("tournament size must be > 0, got %d", c.TournamentSize))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported selection: %s", c.Selection))
	}
	return errors.Join(errs...)
}
