package policy

import (
	"fmt"

	"gridbot/internal/rng"
)

// Action is what a policy tells the agent to do for one signature.
type Action uint8

// noAction marks a table slot outside the reachable domain.
const noAction Action = 0

const (
	MoveUp Action = iota + 1
	MoveDown
	MoveLeft
	MoveRight
	MoveRandom
	PickUp
)

// Actions lists every action in draw order: RandomAction maps IntN(6) onto it.
var Actions = [...]Action{MoveUp, MoveDown, MoveLeft, MoveRight, MoveRandom, PickUp}

// Moves lists the concrete directional moves MoveRandom resolves to.
var Moves = [...]Action{MoveUp, MoveDown, MoveLeft, MoveRight}

func RandomAction(src rng.Source) Action {
	return Actions[src.IntN(len(Actions))]
}

// IsMove reports whether a is one of the four directional moves.
func (a Action) IsMove() bool {
	return a >= MoveUp && a <= MoveRight
}

// Glyph is the single-character form used in genome strings.
func (a Action) Glyph() byte {
	switch a {
	case MoveUp:
		return 'U'
	case MoveDown:
		return 'D'
	case MoveLeft:
		return 'L'
	case MoveRight:
		return 'R'
	case MoveRandom:
		return '?'
	case PickUp:
		return 'P'
	default:
		return '-'
	}
}

func (a Action) String() string {
	switch a {
	case MoveUp:
		return "move_up"
	case MoveDown:
		return "move_down"
	case MoveLeft:
		return "move_left"
	case MoveRight:
		return "move_right"
	case MoveRandom:
		return "move_random"
	case PickUp:
		return "pick_up"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

func actionFromGlyph(g byte) (Action, bool) {
	for _, a := range Actions {
		if a.Glyph() == g {
			return a, true
		}
	}
	return noAction, false
}
