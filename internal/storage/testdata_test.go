package storage

import (
	"gridbot/internal/config"
	"gridbot/internal/model"
)

func sampleRun(id, createdAt string) model.RunRecord {
	return Stamp(model.RunRecord{
		ID:           id,
		CreatedAtUTC: createdAt,
		Config:       config.Default(),
		Generations:  200,
		BestID:       41,
		BestScore:    37,
		FinalScore:   31,
		Champion:     "UDLR?P",
	})
}

func sampleGenerations() []model.GenerationDiagnostics {
	return []model.GenerationDiagnostics{
		{Generation: 1, BestID: 3, BestScore: 4, MeanScore: 0.5, StdDevScore: 0.9, MinScore: 0, DistinctGenomes: 500},
		{Generation: 2, BestID: 512, BestScore: 6, MeanScore: 1.5, StdDevScore: 1.2, MinScore: 0, DistinctGenomes: 498},
	}
}
