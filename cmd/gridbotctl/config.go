package main

import (
	"flag"
	"fmt"

	"gridbot/internal/config"
)

// configFlags mirrors config.Config. Only flags set on the command line
// override the resolved configuration.
type configFlags struct {
	width          *int
	height         *int
	rewards        *int
	population     *int
	survivors      *int
	mutation       *float64
	generations    *int
	trials         *int
	steps          *int
	seed           *uint64
	selection      *string
	tournamentSize *int
}

func addConfigFlags(fs *flag.FlagSet) configFlags {
	d := config.Default()
	return configFlags{
		width:          fs.Int("width", d.Width, "grid width including walls"),
		height:         fs.Int("height", d.Height, "grid height including walls"),
		rewards:        fs.Int("rewards", d.Rewards, "rewards placed per world"),
		population:     fs.Int("pop", d.PopulationSize, "population size"),
		survivors:      fs.Int("survivors", d.SurvivorCount, "policies kept each generation"),
		mutation:       fs.Float64("mutation", d.MutationProbability, "per-signature mutation probability"),
		generations:    fs.Int("gens", d.Generations, "generation count"),
		trials:         fs.Int("trials", d.Trials, "trials per evaluation"),
		steps:          fs.Int("steps", d.Steps, "steps per trial"),
		seed:           fs.Uint64("seed", d.Seed, "rng seed"),
		selection:      fs.String("selection", d.Selection, "parent selection: elite|tournament"),
		tournamentSize: fs.Int("tournament-size", d.TournamentSize, "tournament size for selection=tournament"),
	}
}

// resolveRunConfig layers defaults, the optional config file, GRIDBOT_*
// environment variables and finally explicitly set flags.
func resolveRunConfig(fs *flag.FlagSet, configPath string, flags configFlags) (config.Config, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *flags.width
		case "height":
			cfg.Height = *flags.height
		case "rewards":
			cfg.Rewards = *flags.rewards
		case "pop":
			cfg.PopulationSize = *flags.population
		case "survivors":
			cfg.SurvivorCount = *flags.survivors
		case "mutation":
			cfg.MutationProbability = *flags.mutation
		case "gens":
			cfg.Generations = *flags.generations
		case "trials":
			cfg.Trials = *flags.trials
		case "steps":
			cfg.Steps = *flags.steps
		case "seed":
			cfg.Seed = *flags.seed
		case "selection":
			cfg.Selection = *flags.selection
		case "tournament-size":
			cfg.TournamentSize = *flags.tournamentSize
		}
	})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
