// Package rng holds the single random stream threaded through world
// generation, rollouts and reproduction. Every consumer takes a Source
// explicitly; nothing in the module reads ambient randomness, so the order of
// calls against one Source fully determines a run.
package rng

import "math/rand/v2"

// Source is the subset of *rand.Rand the simulation draws from.
type Source interface {
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

// New returns the production stream: a PCG generator keyed by seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
