// Package platform hosts the Polis, which owns the run-history store and
// executes evolution runs against it.
package platform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gridbot/internal/config"
	"gridbot/internal/evo"
	"gridbot/internal/model"
	"gridbot/internal/policy"
	"gridbot/internal/rng"
	"gridbot/internal/scape"
	"gridbot/internal/storage"
)

// createdAtLayout is fixed width so stored timestamps sort as strings.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

type Config struct {
	Store storage.Store
	// Now stamps run records. Defaults to time.Now.
	Now func() time.Time
}

type EvolutionConfig struct {
	// RunID names the stored run. A random UUID is used when empty.
	RunID        string
	Run          config.Config
	OnGeneration evo.GenerationHook
}

type EvolutionResult struct {
	Record                model.RunRecord
	BestByGeneration      []float64
	GenerationDiagnostics []model.GenerationDiagnostics
	Champion              *policy.Policy
	Evaluations           int
}

type Polis struct {
	store storage.Store
	now   func() time.Time

	mu      sync.RWMutex
	started bool
}

func NewPolis(cfg Config) *Polis {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Polis{store: cfg.Store, now: now}
}

func (p *Polis) Init(ctx context.Context) error {
	if p.store == nil {
		return fmt.Errorf("store is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := p.store.Init(ctx); err != nil {
		return err
	}
	p.started = true
	return nil
}

func (p *Polis) Started() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started
}

func (p *Polis) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started = false
}

func (p *Polis) Store() storage.Store {
	return p.store
}

// RunEvolution validates cfg.Run, evolves a population seeded from
// cfg.Run.Seed and records the run summary and its generation history.
func (p *Polis) RunEvolution(ctx context.Context, cfg EvolutionConfig) (EvolutionResult, error) {
	if !p.Started() {
		return EvolutionResult{}, fmt.Errorf("polis is not initialized")
	}
	if err := cfg.Run.Validate(); err != nil {
		return EvolutionResult{}, fmt.Errorf("invalid run config: %w", err)
	}
	selector, err := evo.SelectorFromName(cfg.Run.Selection, cfg.Run.TournamentSize)
	if err != nil {
		return EvolutionResult{}, err
	}

	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		Scape: scape.ForageScape{
			Shape:  cfg.Run.Shape(),
			Trials: cfg.Run.Trials,
			Steps:  cfg.Run.Steps,
		},
		Selector:            selector,
		PopulationSize:      cfg.Run.PopulationSize,
		SurvivorCount:       cfg.Run.SurvivorCount,
		MutationProbability: cfg.Run.MutationProbability,
		Generations:         cfg.Run.Generations,
		OnGeneration:        cfg.OnGeneration,
	})
	if err != nil {
		return EvolutionResult{}, err
	}

	result, err := monitor.Run(ctx, rng.New(cfg.Run.Seed))
	if err != nil {
		return EvolutionResult{}, err
	}

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	record := storage.Stamp(model.RunRecord{
		ID:           runID,
		CreatedAtUTC: p.now().UTC().Format(createdAtLayout),
		Config:       cfg.Run,
		Generations:  len(result.BestByGeneration),
		BestID:       result.Champion.ID,
		BestScore:    result.BestScore,
		FinalScore:   result.FinalScore,
		Champion:     result.Champion.Genome(),
	})
	if err := p.store.SaveRun(ctx, record); err != nil {
		return EvolutionResult{}, fmt.Errorf("save run %s: %w", runID, err)
	}
	if err := p.store.SaveGenerations(ctx, runID, result.GenerationDiagnostics); err != nil {
		return EvolutionResult{}, fmt.Errorf("save generations %s: %w", runID, err)
	}

	return EvolutionResult{
		Record:                record,
		BestByGeneration:      result.BestByGeneration,
		GenerationDiagnostics: result.GenerationDiagnostics,
		Champion:              result.Champion,
		Evaluations:           result.Evaluations,
	}, nil
}
