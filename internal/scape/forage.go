package scape

import (
	"errors"
	"fmt"

	"gridbot/internal/grid"
	"gridbot/internal/policy"
	"gridbot/internal/rng"
)

// StepEvent is a read-only view of one executed step. Grid is a snapshot taken
// after the step and may be kept by the observer.
type StepEvent struct {
	Trial    int
	Step     int
	Chosen   policy.Action
	Resolved policy.Action
	From     grid.Location
	To       grid.Location
	Reward   int
	Stopped  bool
	Grid     *grid.Grid
}

type Observer func(StepEvent)

type TrialResult struct {
	Reward  int
	Steps   int
	Stopped bool
	End     grid.Location
}

// ForageScape drops the agent into freshly generated worlds and counts the
// rewards it picks up.
type ForageScape struct {
	Shape    grid.Shape
	Trials   int
	Steps    int
	Observer Observer
}

func (ForageScape) Name() string {
	return "forage"
}

func (s ForageScape) Validate() error {
	var errs []error
	if err := s.Shape.Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials must be > 0, got %d", s.Trials))
	}
	if s.Steps <= 0 {
		errs = append(errs, fmt.Errorf("steps must be > 0, got %d", s.Steps))
	}
	return errors.Join(errs...)
}

// Evaluate averages the reward of s.Trials independent trials. Each trial
// draws its world and then its start location from src.
func (s ForageScape) Evaluate(src rng.Source, p *policy.Policy) float64 {
	total := 0
	for trial := 0; trial < s.Trials; trial++ {
		world := grid.Generate(src, s.Shape)
		start := grid.RandomInterior(src, s.Shape.Rows, s.Shape.Cols)
		total += s.RunTrial(src, p, world, start, trial).Reward
	}
	return float64(total) / float64(s.Trials)
}

// RunTrial runs up to s.Steps steps of p on world from start, mutating world.
//
// A step whose chosen action is not MoveRandom and that changes neither the
// location nor the reward ends the trial: repeating it could never differ.
// MoveRandom steps never end a trial early.
func (s ForageScape) RunTrial(src rng.Source, p *policy.Policy, world *grid.Grid, start grid.Location, trial int) TrialResult {
	res := TrialResult{End: start}
	loc := start
	for step := 0; step < s.Steps; step++ {
		chosen := p.Lookup(grid.Encode(world, loc))
		resolved, next, reward := Step(src, world, loc, chosen)
		changed := next != loc || reward != 0
		stopped := chosen != policy.MoveRandom && !changed
		res.Steps = step + 1

		if s.Observer != nil {
			s.Observer(StepEvent{
				Trial:    trial,
				Step:     step,
				Chosen:   chosen,
				Resolved: resolved,
				From:     loc,
				To:       next,
				Reward:   reward,
				Stopped:  stopped,
				Grid:     world.Clone(),
			})
		}
		if stopped {
			res.Stopped = true
			break
		}
		loc = next
		res.Reward += reward
	}
	res.End = loc
	return res
}
