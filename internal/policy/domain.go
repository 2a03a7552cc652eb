package policy

import "gridbot/internal/grid"

// domain is every reachable signature in enumeration order: Up outermost,
// Center innermost, each slot iterating Empty, Reward, Wall. Random
// initialisation and crossover both walk it in this order.
var domain = buildDomain()

func buildDomain() []grid.Signature {
	out := make([]grid.Signature, 0, grid.SignatureSpace)
	for _, up := range grid.Cells {
		for _, down := range grid.Cells {
			for _, left := range grid.Cells {
				for _, right := range grid.Cells {
					for _, center := range grid.Cells {
						sig := grid.Signature{Up: up, Down: down, Left: left, Right: right, Center: center}
						if sig.Reachable() {
							out = append(out, sig)
						}
					}
				}
			}
		}
	}
	return out
}

// Domain returns a copy of the reachable signature set.
func Domain() []grid.Signature {
	return append([]grid.Signature(nil), domain...)
}

// DomainSize is len(Domain()) without the copy.
func DomainSize() int {
	return len(domain)
}
