// Package gridbot is the public entry point: it evolves foraging policies,
// keeps their run history and replays stored champions.
package gridbot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gridbot/internal/config"
	"gridbot/internal/evo"
	"gridbot/internal/grid"
	"gridbot/internal/model"
	"gridbot/internal/platform"
	"gridbot/internal/policy"
	"gridbot/internal/rng"
	"gridbot/internal/scape"
	"gridbot/internal/stats"
	"gridbot/internal/storage"
)

const (
	defaultExportsDir = "exports"
	defaultDBPath     = "gridbot.db"
)

type Options struct {
	StoreKind  string
	DBPath     string
	ExportsDir string
}

type Client struct {
	store storage.Store
	polis *platform.Polis

	exportsDir string
}

type RunRequest struct {
	// RunID is optional; a UUID is generated when empty.
	RunID        string
	Config       config.Config
	OnGeneration evo.GenerationHook
}

type RunSummary struct {
	RunID            string
	BestByGeneration []float64
	BestScore        float64
	FinalScore       float64
	Evaluations      int
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID        string
	CreatedAtUTC string
	Seed         uint64
	Population   int
	Generations  int
	BestScore    float64
	FinalScore   float64
}

// RunRef selects a stored run by id, or the newest one when Latest is set.
type RunRef struct {
	RunID  string
	Latest bool
}

type HistoryRequest struct {
	RunRef
	Limit int
}

type ExportRequest struct {
	RunRef
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

type ShowRequest struct {
	RunRef
	// Seed drives the replayed world, start location and random moves.
	Seed     uint64
	Observer scape.Observer
}

type ShowSummary struct {
	RunID   string
	Initial *grid.Grid
	Start   grid.Location
	Result  scape.TrialResult
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store, exportsDir: exportsDir}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.ensurePolis(ctx)
	return err
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	p, err := c.ensurePolis(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	result, err := p.RunEvolution(ctx, platform.EvolutionConfig{
		RunID:        req.RunID,
		Run:          req.Config,
		OnGeneration: req.OnGeneration,
	})
	if err != nil {
		return RunSummary{}, err
	}
	return RunSummary{
		RunID:            result.Record.ID,
		BestByGeneration: result.BestByGeneration,
		BestScore:        result.Record.BestScore,
		FinalScore:       result.Record.FinalScore,
		Evaluations:      result.Evaluations,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if _, err := c.ensurePolis(ctx); err != nil {
		return nil, err
	}
	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}

	out := make([]RunItem, 0, len(runs))
	for _, r := range runs {
		out = append(out, RunItem{
			RunID:        r.ID,
			CreatedAtUTC: r.CreatedAtUTC,
			Seed:         r.Config.Seed,
			Population:   r.Config.PopulationSize,
			Generations:  r.Generations,
			BestScore:    r.BestScore,
			FinalScore:   r.FinalScore,
		})
	}
	return out, nil
}

// FitnessHistory returns the best score of every stored generation.
func (c *Client) FitnessHistory(ctx context.Context, req HistoryRequest) ([]float64, error) {
	diagnostics, err := c.Diagnostics(ctx, req)
	if err != nil {
		return nil, err
	}
	history := make([]float64, 0, len(diagnostics))
	for _, d := range diagnostics {
		history = append(history, d.BestScore)
	}
	return history, nil
}

func (c *Client) Diagnostics(ctx context.Context, req HistoryRequest) ([]model.GenerationDiagnostics, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	run, err := c.resolveRun(ctx, req.RunRef)
	if err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerations(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("diagnostics not found for run id: %s", run.ID)
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	run, err := c.resolveRun(ctx, req.RunRef)
	if err != nil {
		return ExportSummary{}, err
	}
	diagnostics, _, err := c.store.GetGenerations(ctx, run.ID)
	if err != nil {
		return ExportSummary{}, err
	}
	dir, err := stats.WriteRunArtifacts(req.OutDir, run, diagnostics)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: run.ID, Directory: filepath.Clean(dir)}, nil
}

// Show replays the stored champion of a run for a single trial in a world
// generated from req.Seed, reporting every step to req.Observer.
func (c *Client) Show(ctx context.Context, req ShowRequest) (ShowSummary, error) {
	run, err := c.resolveRun(ctx, req.RunRef)
	if err != nil {
		return ShowSummary{}, err
	}
	champion, err := policy.Parse(run.BestID, run.Champion)
	if err != nil {
		return ShowSummary{}, fmt.Errorf("run %s champion: %w", run.ID, err)
	}

	sc := scape.ForageScape{
		Shape:    run.Config.Shape(),
		Trials:   1,
		Steps:    run.Config.Steps,
		Observer: req.Observer,
	}
	if err := sc.Validate(); err != nil {
		return ShowSummary{}, fmt.Errorf("run %s config: %w", run.ID, err)
	}

	src := rng.New(req.Seed)
	world := grid.Generate(src, sc.Shape)
	start := grid.RandomInterior(src, sc.Shape.Rows, sc.Shape.Cols)
	initial := world.Clone()
	result := sc.RunTrial(src, champion, world, start, 0)
	return ShowSummary{RunID: run.ID, Initial: initial, Start: start, Result: result}, nil
}

func (c *Client) resolveRun(ctx context.Context, ref RunRef) (model.RunRecord, error) {
	if ref.RunID != "" && ref.Latest {
		return model.RunRecord{}, errors.New("use either run id or latest")
	}
	if ref.RunID == "" && !ref.Latest {
		return model.RunRecord{}, errors.New("run id or latest is required")
	}
	if _, err := c.ensurePolis(ctx); err != nil {
		return model.RunRecord{}, err
	}

	if ref.Latest {
		runs, err := c.store.ListRuns(ctx)
		if err != nil {
			return model.RunRecord{}, err
		}
		if len(runs) == 0 {
			return model.RunRecord{}, errors.New("no runs available")
		}
		return runs[0], nil
	}

	run, ok, err := c.store.GetRun(ctx, ref.RunID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run not found: %s", ref.RunID)
	}
	return run, nil
}

func (c *Client) ensurePolis(ctx context.Context) (*platform.Polis, error) {
	if c.polis != nil {
		return c.polis, nil
	}
	p := platform.NewPolis(platform.Config{Store: c.store})
	if err := p.Init(ctx); err != nil {
		return nil, err
	}
	c.polis = p
	return c.polis, nil
}
