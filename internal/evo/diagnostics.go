package evo

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gridbot/internal/model"
	"gridbot/internal/policy"
)

// summarizeGeneration describes a ranked, not yet truncated population.
func summarizeGeneration(ranked []*policy.Policy, generation int) model.GenerationDiagnostics {
	if len(ranked) == 0 {
		return model.GenerationDiagnostics{Generation: generation}
	}

	scores := make([]float64, len(ranked))
	genomes := make(map[string]struct{}, len(ranked))
	for i, p := range ranked {
		scores[i] = p.Score
		genomes[p.Genome()] = struct{}{}
	}
	mean, std := stat.PopMeanStdDev(scores, nil)

	return model.GenerationDiagnostics{
		Generation:      generation,
		BestID:          ranked[0].ID,
		BestScore:       ranked[0].Score,
		MeanScore:       mean,
		StdDevScore:     std,
		MinScore:        floats.Min(scores),
		DistinctGenomes: len(genomes),
	}
}
