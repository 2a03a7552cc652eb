package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDBOT_"

// LoadFile overlays the file at path onto base. The format follows the
// extension: .json or .toml. Keys missing from the file keep base's value.
func LoadFile(base Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("decode %s: unknown keys %v", path, undecoded)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", path)
	}
	return cfg, nil
}

// LoadDotEnv exports the variables in the given .env files (default ".env")
// without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overlays GRIDBOT_* variables read through lookup onto base.
func ApplyEnv(base Config, lookup func(string) (string, bool)) (Config, error) {
	cfg := base
	var errs []error
	intVar := func(name string, dst *int) {
		raw, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s must be an integer: %w", EnvPrefix, name, err))
			return
		}
		*dst = v
	}

	intVar("WIDTH", &cfg.Width)
	intVar("HEIGHT", &cfg.Height)
	intVar("REWARDS", &cfg.Rewards)
	intVar("POPULATION", &cfg.PopulationSize)
	intVar("SURVIVORS", &cfg.SurvivorCount)
	intVar("GENERATIONS", &cfg.Generations)
	intVar("TRIALS", &cfg.Trials)
	intVar("STEPS", &cfg.Steps)
	intVar("TOURNAMENT_SIZE", &cfg.TournamentSize)

	if raw, ok := lookup(EnvPrefix + "MUTATION_PROBABILITY"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sMUTATION_PROBABILITY must be a number: %w", EnvPrefix, err))
		} else {
			cfg.MutationProbability = v
		}
	}
	if raw, ok := lookup(EnvPrefix + "SEED"); ok {
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED must be an unsigned integer: %w", EnvPrefix, err))
		} else {
			cfg.Seed = v
		}
	}
	if raw, ok := lookup(EnvPrefix + "SELECTION"); ok {
		cfg.Selection = strings.TrimSpace(raw)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve runs the standard layering: Default, optional file, .env and the
// process environment. The result is not validated.
func Resolve(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = LoadFile(cfg, path)
		if err != nil {
			return Config{}, err
		}
	}
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return ApplyEnv(cfg, os.LookupEnv)
}
