package policy

import (
	"fmt"

	"gridbot/internal/rng"
)

// Crossover builds a child from two parents sharing the reachable domain.
//
// One parent fraction f is drawn for the whole child. Then, per signature in
// domain order, an inherit draw r selects parent a when r < f and parent b
// otherwise, and a mutate draw m replaces the inherited action with a fresh
// random one when m < mutationProbability.
func Crossover(src rng.Source, a, b *Policy, id int, mutationProbability float64) *Policy {
	child := &Policy{ID: id, Parents: [2]int{a.ID, b.ID}}
	fraction := src.Float64()
	for _, sig := range domain {
		idx := sig.Index()
		inherited := a.table[idx]
		if inherited == noAction {
			panic(fmt.Sprintf("crossover: parent %d has no action for signature %s", a.ID, sig))
		}
		if src.Float64() >= fraction {
			inherited = b.table[idx]
			if inherited == noAction {
				panic(fmt.Sprintf("crossover: parent %d has no action for signature %s", b.ID, sig))
			}
		}
		if src.Float64() < mutationProbability {
			inherited = RandomAction(src)
		}
		child.table[idx] = inherited
	}
	return child
}
