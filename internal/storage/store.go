package storage

import (
	"context"

	"gridbot/internal/model"
)

// Store keeps the history of finished runs: their summaries and per-generation
// diagnostics. Populations themselves are never stored.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context) ([]model.RunRecord, error)
	SaveGenerations(ctx context.Context, runID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerations(ctx context.Context, runID string) ([]model.GenerationDiagnostics, bool, error)
}
