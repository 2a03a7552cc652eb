package model

import "gridbot/internal/config"

// VersionedRecord captures schema and codec evolution for stored data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord summarises one finished evolution run.
type RunRecord struct {
	VersionedRecord
	ID           string        `json:"id"`
	CreatedAtUTC string        `json:"created_at_utc"`
	Config       config.Config `json:"config"`
	Generations  int           `json:"generations"`
	BestID       int           `json:"best_id"`
	BestScore    float64       `json:"best_score"`
	FinalScore   float64       `json:"final_score"`
	Champion     string        `json:"champion"`
}

// GenerationDiagnostics summarises the evaluated population of one generation,
// before truncation.
type GenerationDiagnostics struct {
	Generation      int     `json:"generation"`
	BestID          int     `json:"best_id"`
	BestScore       float64 `json:"best_score"`
	MeanScore       float64 `json:"mean_score"`
	StdDevScore     float64 `json:"stddev_score"`
	MinScore        float64 `json:"min_score"`
	DistinctGenomes int     `json:"distinct_genomes"`
}
