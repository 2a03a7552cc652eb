// Package scape hosts the environments policies are scored in.
package scape

import (
	"gridbot/internal/policy"
	"gridbot/internal/rng"
)

// Scape scores a policy. Evaluate is the fitness function of a run: it is
// deterministic given the Source's draw sequence.
type Scape interface {
	Name() string
	Evaluate(src rng.Source, p *policy.Policy) float64
}
