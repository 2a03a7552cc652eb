package scape

import (
	"fmt"

	"gridbot/internal/grid"
	"gridbot/internal/policy"
	"gridbot/internal/rng"
)

// Resolve turns MoveRandom into one of the four moves drawn uniformly; any
// other action is returned unchanged without drawing.
func Resolve(src rng.Source, a policy.Action) policy.Action {
	if a != policy.MoveRandom {
		return a
	}
	return policy.Moves[src.IntN(len(policy.Moves))]
}

// Apply executes a concrete action at loc and returns the new location and the
// reward earned. Moves into a wall leave the agent in place; PickUp empties a
// reward cell for +1 and does nothing elsewhere.
func Apply(g *grid.Grid, loc grid.Location, a policy.Action) (grid.Location, int) {
	next := loc
	switch a {
	case policy.MoveUp:
		next.Row--
	case policy.MoveDown:
		next.Row++
	case policy.MoveLeft:
		next.Col--
	case policy.MoveRight:
		next.Col++
	case policy.PickUp:
		if g.At(loc) == grid.Reward {
			g.Set(loc, grid.Empty)
			return loc, 1
		}
		return loc, 0
	default:
		panic(fmt.Sprintf("scape: cannot apply unresolved action %s", a))
	}
	if g.At(next) == grid.Wall {
		return loc, 0
	}
	return next, 0
}

// Step resolves chosen once and applies the result.
func Step(src rng.Source, g *grid.Grid, loc grid.Location, chosen policy.Action) (policy.Action, grid.Location, int) {
	resolved := Resolve(src, chosen)
	next, reward := Apply(g, loc, resolved)
	return resolved, next, reward
}
