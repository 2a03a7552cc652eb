package evo

import (
	"context"
	"errors"
	"testing"

	"gridbot/internal/grid"
	"gridbot/internal/model"
	"gridbot/internal/policy"
	"gridbot/internal/rng"
	"gridbot/internal/scape"
)

// funcScape scores policies without drawing from the source.
type funcScape struct {
	calls int
	score func(calls int, p *policy.Policy) float64
}

func (*funcScape) Name() string { return "func" }

func (s *funcScape) Evaluate(_ rng.Source, p *policy.Policy) float64 {
	s.calls++
	return s.score(s.calls, p)
}

func constantScape(v float64) *funcScape {
	return &funcScape{score: func(int, *policy.Policy) float64 { return v }}
}

func TestNewPopulationMonitorValidatesConfig(t *testing.T) {
	base := MonitorConfig{Scape: constantScape(0), PopulationSize: 10, SurvivorCount: 2, Generations: 1}
	tests := []struct {
		name   string
		mutate func(*MonitorConfig)
	}{
		{name: "missing scape", mutate: func(c *MonitorConfig) { c.Scape = nil }},
		{name: "empty population", mutate: func(c *MonitorConfig) { c.PopulationSize = 0 }},
		{name: "no survivors", mutate: func(c *MonitorConfig) { c.SurvivorCount = 0 }},
		{name: "too many survivors", mutate: func(c *MonitorConfig) { c.SurvivorCount = 11 }},
		{name: "negative mutation", mutate: func(c *MonitorConfig) { c.MutationProbability = -0.1 }},
		{name: "no generations", mutate: func(c *MonitorConfig) { c.Generations = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if _, err := NewPopulationMonitor(cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
	if _, err := NewPopulationMonitor(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestRunKeepsPopulationAtTargetSize(t *testing.T) {
	const (
		population  = 12
		survivors   = 3
		generations = 4
	)
	fs := &funcScape{score: func(_ int, p *policy.Policy) float64 { return float64(p.ID % 7) }}
	var seen []model.GenerationDiagnostics
	monitor, err := NewPopulationMonitor(MonitorConfig{
		Scape:               fs,
		PopulationSize:      population,
		SurvivorCount:       survivors,
		MutationProbability: 0.05,
		Generations:         generations,
		OnGeneration:        func(d model.GenerationDiagnostics) { seen = append(seen, d) },
	})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	result, err := monitor.Run(context.Background(), rng.New(1))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.FinalPopulation) != population {
		t.Fatalf("final population size got=%d want=%d", len(result.FinalPopulation), population)
	}
	if fs.calls != population*generations+1 || result.Evaluations != fs.calls {
		t.Fatalf("expected %d evaluations, scape saw %d, result reports %d", population*generations+1, fs.calls, result.Evaluations)
	}
	if len(seen) != generations || len(result.GenerationDiagnostics) != generations || len(result.BestByGeneration) != generations {
		t.Fatalf("expected one summary per generation, hook=%d diagnostics=%d best=%d", len(seen), len(result.GenerationDiagnostics), len(result.BestByGeneration))
	}
	for i, d := range seen {
		if d.Generation != i+1 {
			t.Fatalf("summary %d has generation %d", i, d.Generation)
		}
	}

	ids := map[int]struct{}{}
	for _, p := range result.FinalPopulation {
		if _, dup := ids[p.ID]; dup {
			t.Fatalf("duplicate policy id %d", p.ID)
		}
		ids[p.ID] = struct{}{}
		if p.Size() != policy.DomainSize() {
			t.Fatalf("policy %d covers %d signatures", p.ID, p.Size())
		}
	}
}

func TestRunTiesKeepPopulationOrder(t *testing.T) {
	monitor, err := NewPopulationMonitor(MonitorConfig{
		Scape:          constantScape(0),
		PopulationSize: 6,
		SurvivorCount:  2,
		Generations:    1,
	})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	result, err := monitor.Run(context.Background(), rng.New(3))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []int{0, 1, 6, 7, 8, 9}
	for i, p := range result.FinalPopulation {
		if p.ID != want[i] {
			t.Fatalf("position %d: got id %d want %d", i, p.ID, want[i])
		}
	}
	if result.Champion.ID != 0 {
		t.Fatalf("expected first policy to win a full tie, got %d", result.Champion.ID)
	}
	for _, child := range result.FinalPopulation[2:] {
		for _, parent := range child.Parents {
			if parent != 0 && parent != 1 {
				t.Fatalf("child %d has non-survivor parent %d", child.ID, parent)
			}
		}
	}
}

func TestRunReportsBestAndFinalScore(t *testing.T) {
	const population = 8
	fs := &funcScape{score: func(calls int, p *policy.Policy) float64 {
		if calls > population {
			return 100
		}
		return float64(p.ID)
	}}
	monitor, err := NewPopulationMonitor(MonitorConfig{Scape: fs, PopulationSize: population, SurvivorCount: 2, Generations: 1})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	result, err := monitor.Run(context.Background(), rng.New(4))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Champion.ID != population-1 || result.BestScore != population-1 {
		t.Fatalf("unexpected champion id=%d best=%v", result.Champion.ID, result.BestScore)
	}
	if result.FinalScore != 100 {
		t.Fatalf("final score should come from a fresh evaluation, got %v", result.FinalScore)
	}
	d := result.GenerationDiagnostics[0]
	if d.BestID != population-1 || d.MinScore != 0 || d.MeanScore != 3.5 {
		t.Fatalf("unexpected diagnostics: %+v", d)
	}
}

func TestRunDrawOrderAfterInitialisation(t *testing.T) {
	rec := rng.NewRecorder(rng.New(9))
	monitor, err := NewPopulationMonitor(MonitorConfig{Scape: constantScape(1), PopulationSize: 3, SurvivorCount: 1, Generations: 1})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	if _, err := monitor.Run(context.Background(), rec); err != nil {
		t.Fatalf("run: %v", err)
	}

	init := 3 * policy.DomainSize()
	for i := 0; i < init; i++ {
		if d := rec.Draws[i]; d.Kind != rng.DrawInt || d.N != len(policy.Actions) {
			t.Fatalf("initial draw %d: %+v", i, d)
		}
	}
	// First child: parent a, parent b, then the parent fraction.
	if d := rec.Draws[init]; d.Kind != rng.DrawInt || d.N != 1 {
		t.Fatalf("expected parent draw, got %+v", d)
	}
	if d := rec.Draws[init+1]; d.Kind != rng.DrawInt || d.N != 1 {
		t.Fatalf("expected second parent draw, got %+v", d)
	}
	if d := rec.Draws[init+2]; d.Kind != rng.DrawFloat {
		t.Fatalf("expected parent fraction draw, got %+v", d)
	}
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	run := func() RunResult {
		monitor, err := NewPopulationMonitor(MonitorConfig{
			Scape:               scape.ForageScape{Shape: grid.Shape{Rows: 8, Cols: 8, Rewards: 12}, Trials: 2, Steps: 40},
			PopulationSize:      20,
			SurvivorCount:       4,
			MutationProbability: 0.01,
			Generations:         3,
		})
		if err != nil {
			t.Fatalf("new monitor: %v", err)
		}
		result, err := monitor.Run(context.Background(), rng.New(2024))
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		return result
	}

	a := run()
	b := run()
	if a.Champion.ID != b.Champion.ID || a.Champion.Genome() != b.Champion.Genome() {
		t.Fatalf("champions differ: %d vs %d", a.Champion.ID, b.Champion.ID)
	}
	if a.FinalScore != b.FinalScore {
		t.Fatalf("final scores differ: %v vs %v", a.FinalScore, b.FinalScore)
	}
	for i := range a.BestByGeneration {
		if a.BestByGeneration[i] != b.BestByGeneration[i] {
			t.Fatalf("generation %d best differs: %v vs %v", i+1, a.BestByGeneration[i], b.BestByGeneration[i])
		}
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	monitor, err := NewPopulationMonitor(MonitorConfig{Scape: constantScape(0), PopulationSize: 4, SurvivorCount: 1, Generations: 5})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := monitor.Run(ctx, rng.New(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestRunWithTournamentSelector(t *testing.T) {
	monitor, err := NewPopulationMonitor(MonitorConfig{
		Scape:          &funcScape{score: func(_ int, p *policy.Policy) float64 { return float64(p.ID) }},
		Selector:       TournamentSelector{Size: 2},
		PopulationSize: 10,
		SurvivorCount:  5,
		Generations:    2,
	})
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}
	result, err := monitor.Run(context.Background(), rng.New(6))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.FinalPopulation) != 10 {
		t.Fatalf("unexpected population size %d", len(result.FinalPopulation))
	}
}
