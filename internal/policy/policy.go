// Package policy implements the evolved genome: a total lookup table from
// reachable neighbourhood signatures to actions, with random construction,
// crossover and mutation.
package policy

import (
	"fmt"
	"strings"

	"gridbot/internal/grid"
	"gridbot/internal/rng"
)

// NoParent fills Parents for founders.
const NoParent = -1

type Policy struct {
	ID      int
	Score   float64
	Parents [2]int

	table [grid.SignatureSpace]Action
}

// Random draws one uniform action per reachable signature, in domain order.
func Random(src rng.Source, id int) *Policy {
	p := &Policy{ID: id, Parents: [2]int{NoParent, NoParent}}
	for _, sig := range domain {
		p.table[sig.Index()] = RandomAction(src)
	}
	return p
}

// Uniform maps every reachable signature to the same action.
func Uniform(id int, a Action) *Policy {
	p := &Policy{ID: id, Parents: [2]int{NoParent, NoParent}}
	for _, sig := range domain {
		p.table[sig.Index()] = a
	}
	return p
}

// Lookup returns the action for sig. A signature the table does not cover is
// a construction defect and panics.
func (p *Policy) Lookup(sig grid.Signature) Action {
	a := p.table[sig.Index()]
	if a == noAction {
		panic(fmt.Sprintf("policy %d: no action for signature %s", p.ID, sig))
	}
	return a
}

// Set overrides the action for a reachable signature.
func (p *Policy) Set(sig grid.Signature, a Action) {
	if !sig.Reachable() {
		panic(fmt.Sprintf("policy %d: signature %s is unreachable", p.ID, sig))
	}
	p.table[sig.Index()] = a
}

// Covers reports whether sig has an action.
func (p *Policy) Covers(sig grid.Signature) bool {
	return p.table[sig.Index()] != noAction
}

// Size counts mapped signatures.
func (p *Policy) Size() int {
	n := 0
	for _, a := range p.table {
		if a != noAction {
			n++
		}
	}
	return n
}

// Genome renders the table as one glyph per domain signature.
func (p *Policy) Genome() string {
	var b strings.Builder
	b.Grow(len(domain))
	for _, sig := range domain {
		b.WriteByte(p.table[sig.Index()].Glyph())
	}
	return b.String()
}

func (p *Policy) String() string {
	return fmt.Sprintf("policy %d score=%g genome=%s", p.ID, p.Score, p.Genome())
}

// Parse rebuilds a policy from a Genome string.
func Parse(id int, genome string) (*Policy, error) {
	if len(genome) != len(domain) {
		return nil, fmt.Errorf("genome length %d, want %d", len(genome), len(domain))
	}
	p := &Policy{ID: id, Parents: [2]int{NoParent, NoParent}}
	for i, sig := range domain {
		a, ok := actionFromGlyph(genome[i])
		if !ok {
			return nil, fmt.Errorf("genome position %d: unknown action glyph %q", i, genome[i])
		}
		p.table[sig.Index()] = a
	}
	return p, nil
}
