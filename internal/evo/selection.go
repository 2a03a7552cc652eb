package evo

import (
	"fmt"

	"gridbot/internal/policy"
	"gridbot/internal/rng"
)

// Selector chooses a parent from the ranked survivors of a generation.
type Selector interface {
	Name() string
	PickParent(src rng.Source, survivors []*policy.Policy) (*policy.Policy, error)
}

// EliteSelector picks uniformly from the survivors, with replacement.
type EliteSelector struct{}

func (EliteSelector) Name() string {
	return "elite"
}

func (EliteSelector) PickParent(src rng.Source, survivors []*policy.Policy) (*policy.Policy, error) {
	if src == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(survivors) == 0 {
		return nil, fmt.Errorf("no survivors to select from")
	}
	return survivors[src.IntN(len(survivors))], nil
}

// TournamentSelector samples Size survivors and keeps the best scoring one.
// The earliest sample wins ties.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(src rng.Source, survivors []*policy.Policy) (*policy.Policy, error) {
	if src == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(survivors) == 0 {
		return nil, fmt.Errorf("no survivors to select from")
	}

	size := s.Size
	if size <= 0 {
		size = 3
	}

	best := survivors[src.IntN(len(survivors))]
	for i := 1; i < size; i++ {
		candidate := survivors[src.IntN(len(survivors))]
		if candidate.Score > best.Score {
			best = candidate
		}
	}
	return best, nil
}

// SelectorFromName maps a configured selection name to a Selector.
func SelectorFromName(name string, tournamentSize int) (Selector, error) {
	switch name {
	case "", "elite":
		return EliteSelector{}, nil
	case "tournament":
		return TournamentSelector{Size: tournamentSize}, nil
	default:
		return nil, fmt.Errorf("unsupported selection: %s", name)
	}
}
