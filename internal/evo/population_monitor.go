// Package evo runs the generational loop: evaluate every policy, keep the
// best, and refill the population with crossover offspring.
package evo

import (
	"context"
	"fmt"
	"sort"

	"gridbot/internal/model"
	"gridbot/internal/policy"
	"gridbot/internal/rng"
	"gridbot/internal/scape"
)

// GenerationHook observes each generation after selection. It must not
// modify the population.
type GenerationHook func(model.GenerationDiagnostics)

type MonitorConfig struct {
	Scape               scape.Scape
	Selector            Selector
	PopulationSize      int
	SurvivorCount       int
	MutationProbability float64
	Generations         int
	OnGeneration        GenerationHook
}

type RunResult struct {
	BestByGeneration      []float64
	GenerationDiagnostics []model.GenerationDiagnostics
	// Champion is the best policy of the last generation; FinalScore is its
	// score on one extra rollout, which is less biased than BestScore.
	Champion        *policy.Policy
	BestScore       float64
	FinalScore      float64
	FinalPopulation []*policy.Policy
	Evaluations     int
}

type PopulationMonitor struct {
	cfg    MonitorConfig
	nextID int
}

func NewPopulationMonitor(cfg MonitorConfig) (*PopulationMonitor, error) {
	if cfg.Scape == nil {
		return nil, fmt.Errorf("scape is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.SurvivorCount <= 0 || cfg.SurvivorCount > cfg.PopulationSize {
		return nil, fmt.Errorf("survivor count must be in [1, population size]")
	}
	if cfg.MutationProbability < 0 || cfg.MutationProbability > 1 {
		return nil, fmt.Errorf("mutation probability must be in [0, 1]")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.Selector == nil {
		cfg.Selector = EliteSelector{}
	}
	return &PopulationMonitor{cfg: cfg}, nil
}

// Run evolves a fresh population. Every random decision is drawn from src in
// a fixed order, so equal seeds give identical runs. ctx is only consulted
// between generations.
func (m *PopulationMonitor) Run(ctx context.Context, src rng.Source) (RunResult, error) {
	m.nextID = 0
	population := make([]*policy.Policy, 0, m.cfg.PopulationSize)
	for len(population) < m.cfg.PopulationSize {
		population = append(population, policy.Random(src, m.allocateID()))
	}

	bestHistory := make([]float64, 0, m.cfg.Generations)
	diagnostics := make([]model.GenerationDiagnostics, 0, m.cfg.Generations)
	evaluations := 0
	bestID := population[0].ID

	for gen := 0; gen < m.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return RunResult{}, err
		}

		for _, p := range population {
			p.Score = m.cfg.Scape.Evaluate(src, p)
			evaluations++
		}

		sort.SliceStable(population, func(i, j int) bool {
			return population[i].Score > population[j].Score
		})
		summary := summarizeGeneration(population, gen+1)
		diagnostics = append(diagnostics, summary)
		bestHistory = append(bestHistory, population[0].Score)
		bestID = population[0].ID

		population = population[:m.cfg.SurvivorCount]
		if m.cfg.OnGeneration != nil {
			m.cfg.OnGeneration(summary)
		}

		var err error
		population, err = m.reproduce(src, population)
		if err != nil {
			return RunResult{}, err
		}
	}

	champion := findPolicy(population, bestID)
	if champion == nil {
		return RunResult{}, fmt.Errorf("best policy %d missing from final population", bestID)
	}
	bestScore := champion.Score
	finalScore := m.cfg.Scape.Evaluate(src, champion)
	evaluations++

	return RunResult{
		BestByGeneration:      bestHistory,
		GenerationDiagnostics: diagnostics,
		Champion:              champion,
		BestScore:             bestScore,
		FinalScore:            finalScore,
		FinalPopulation:       population,
		Evaluations:           evaluations,
	}, nil
}

// reproduce appends crossover offspring of the survivors until the population
// is back at its target size.
func (m *PopulationMonitor) reproduce(src rng.Source, survivors []*policy.Policy) ([]*policy.Policy, error) {
	parents := survivors[:len(survivors):len(survivors)]
	next := make([]*policy.Policy, 0, m.cfg.PopulationSize)
	next = append(next, survivors...)
	for len(next) < m.cfg.PopulationSize {
		a, err := m.cfg.Selector.PickParent(src, parents)
		if err != nil {
			return nil, err
		}
		b, err := m.cfg.Selector.PickParent(src, parents)
		if err != nil {
			return nil, err
		}
		next = append(next, policy.Crossover(src, a, b, m.allocateID(), m.cfg.MutationProbability))
	}
	return next, nil
}

func (m *PopulationMonitor) allocateID() int {
	id := m.nextID
	m.nextID++
	return id
}

func findPolicy(population []*policy.Policy, id int) *policy.Policy {
	for _, p := range population {
		if p.ID == id {
			return p
		}
	}
	return nil
}
