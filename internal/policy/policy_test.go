package policy

import (
	"strings"
	"testing"

	"gridbot/internal/grid"
	"gridbot/internal/rng"
)

func TestDomainSizeMatchesHandCount(t *testing.T) {
	// Centre is Empty or Reward (2). Of the 81 neighbour combinations, 9 have
	// walls above and below, 9 left and right, 1 both: 81-17 = 64 per centre.
	if got := DomainSize(); got != 128 {
		t.Fatalf("domain size got=%d want=128", got)
	}

	seen := map[grid.Signature]struct{}{}
	for _, sig := range Domain() {
		if !sig.Reachable() {
			t.Fatalf("domain contains unreachable signature %s", sig)
		}
		seen[sig] = struct{}{}
	}
	if len(seen) != DomainSize() {
		t.Fatalf("domain has duplicates: distinct=%d size=%d", len(seen), DomainSize())
	}

	reachable := 0
	for i := 0; i < grid.SignatureSpace; i++ {
		if grid.SignatureFromIndex(i).Reachable() {
			reachable++
		}
	}
	if reachable != DomainSize() {
		t.Fatalf("reachable predicate admits %d signatures, domain has %d", reachable, DomainSize())
	}
}

func TestDomainOrderIsLexicographic(t *testing.T) {
	d := Domain()
	for i := 1; i < len(d); i++ {
		if d[i-1].Index() >= d[i].Index() {
			t.Fatalf("domain not in enumeration order at %d: %s then %s", i, d[i-1], d[i])
		}
	}
	first := grid.Signature{}
	if d[0] != first {
		t.Fatalf("expected all-empty signature first, got %s", d[0])
	}
}

func TestRandomPolicyCoversExactlyTheDomain(t *testing.T) {
	src := rng.NewRecorder(rng.New(9))
	p := Random(src, 4)
	if p.ID != 4 || p.Score != 0 {
		t.Fatalf("unexpected identity: id=%d score=%v", p.ID, p.Score)
	}
	if p.Parents != [2]int{NoParent, NoParent} {
		t.Fatalf("founder should have no parents, got %v", p.Parents)
	}
	assertCoversDomain(t, p)
	if len(src.Draws) != DomainSize() {
		t.Fatalf("expected one draw per signature, got %d", len(src.Draws))
	}
	for i, d := range src.Draws {
		if d.Kind != rng.DrawInt || d.N != len(Actions) {
			t.Fatalf("draw %d: expected IntN(%d), got %+v", i, len(Actions), d)
		}
	}
}

func TestRandomPolicyUsesEveryAction(t *testing.T) {
	p := Random(rng.New(1), 0)
	counts := map[Action]int{}
	for _, sig := range Domain() {
		counts[p.Lookup(sig)]++
	}
	for _, a := range Actions {
		if counts[a] == 0 {
			t.Fatalf("action %s never drawn across %d signatures", a, DomainSize())
		}
	}
}

func TestLookupPanicsOutsideDomain(t *testing.T) {
	p := Random(rng.New(1), 0)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	p.Lookup(grid.Signature{Up: grid.Wall, Down: grid.Wall})
}

func TestCrossoverFollowsScriptedDraws(t *testing.T) {
	a := Uniform(1, MoveUp)
	b := Uniform(2, PickUp)

	draws := rng.Floats(0.5)
	for i := 0; i < DomainSize(); i++ {
		inherit := 0.9
		if i%2 == 0 {
			inherit = 0.1
		}
		mutate := 0.99
		if i == 3 {
			mutate = 0.0
		}
		draws = append(draws, rng.Floats(inherit, mutate)...)
		if i == 3 {
			draws = append(draws, rng.Ints(4)...)
		}
	}
	src := rng.NewScript(draws...)

	child := Crossover(src, a, b, 3, 0.01)
	if src.Remaining() != 0 {
		t.Fatalf("crossover left %d scripted draws", src.Remaining())
	}
	if child.Parents != [2]int{1, 2} || child.ID != 3 || child.Score != 0 {
		t.Fatalf("unexpected child identity: %+v", child)
	}
	for i, sig := range Domain() {
		want := PickUp
		if i%2 == 0 {
			want = MoveUp
		}
		if i == 3 {
			want = MoveRandom
		}
		if got := child.Lookup(sig); got != want {
			t.Fatalf("signature %d (%s): got=%s want=%s", i, sig, got, want)
		}
	}
}

func TestCrossoverFractionBoundaryPicksSecondParent(t *testing.T) {
	a := Uniform(1, MoveLeft)
	b := Uniform(2, MoveRight)

	draws := rng.Floats(0.3)
	for i := 0; i < DomainSize(); i++ {
		draws = append(draws, rng.Floats(0.3, 0.5)...)
	}
	child := Crossover(rng.NewScript(draws...), a, b, 3, 0)
	for _, sig := range Domain() {
		if child.Lookup(sig) != MoveRight {
			t.Fatalf("inherit draw equal to fraction must take parent b at %s", sig)
		}
	}
}

func TestCrossoverReplaysFromRecordedDraws(t *testing.T) {
	seed := rng.New(21)
	a := Random(seed, 0)
	b := Random(seed, 1)

	rec := rng.NewRecorder(rng.New(99))
	first := Crossover(rec, a, b, 2, 0.2)

	replayed := Crossover(rng.NewScript(rec.Draws...), a, b, 2, 0.2)
	if first.Genome() != replayed.Genome() {
		t.Fatalf("replay diverged:\n%s\n%s", first.Genome(), replayed.Genome())
	}
	assertCoversDomain(t, first)
}

func TestCrossoverWithoutMutationOnlyCopiesParents(t *testing.T) {
	seed := rng.New(4)
	a := Random(seed, 0)
	b := Random(seed, 1)
	child := Crossover(rng.New(5), a, b, 2, 0)
	for _, sig := range Domain() {
		got := child.Lookup(sig)
		if got != a.Lookup(sig) && got != b.Lookup(sig) {
			t.Fatalf("signature %s: action %s comes from neither parent", sig, got)
		}
	}
}

func TestGenomeParseRoundTrip(t *testing.T) {
	p := Random(rng.New(8), 5)
	genome := p.Genome()
	if len(genome) != DomainSize() {
		t.Fatalf("genome length got=%d want=%d", len(genome), DomainSize())
	}
	parsed, err := Parse(5, genome)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, sig := range Domain() {
		if parsed.Lookup(sig) != p.Lookup(sig) {
			t.Fatalf("parsed policy differs at %s", sig)
		}
	}
}

func TestParseRejectsMalformedGenome(t *testing.T) {
	if _, err := Parse(0, "UDLR"); err == nil || !strings.Contains(err.Error(), "genome length") {
		t.Fatalf("expected length error, got %v", err)
	}
	bad := strings.Repeat("U", DomainSize()-1) + "x"
	if _, err := Parse(0, bad); err == nil || !strings.Contains(err.Error(), "unknown action glyph") {
		t.Fatalf("expected glyph error, got %v", err)
	}
}

func assertCoversDomain(t *testing.T, p *Policy) {
	t.Helper()
	if p.Size() != DomainSize() {
		t.Fatalf("policy %d maps %d signatures, want %d", p.ID, p.Size(), DomainSize())
	}
	for _, sig := range Domain() {
		if !p.Covers(sig) {
			t.Fatalf("policy %d missing signature %s", p.ID, sig)
		}
	}
}
