package rng

import "fmt"

type DrawKind uint8

const (
	DrawInt DrawKind = iota + 1
	DrawFloat
)

// Draw is one value taken from a Source. N is the IntN bound for DrawInt.
type Draw struct {
	Kind  DrawKind
	N     int
	Int   int
	Float float64
}

// Recorder forwards to an underlying Source and keeps every draw in order.
type Recorder struct {
	Source Source
	Draws  []Draw
}

func NewRecorder(src Source) *Recorder {
	return &Recorder{Source: src}
}

func (r *Recorder) IntN(n int) int {
	v := r.Source.IntN(n)
	r.Draws = append(r.Draws, Draw{Kind: DrawInt, N: n, Int: v})
	return v
}

func (r *Recorder) Float64() float64 {
	v := r.Source.Float64()
	r.Draws = append(r.Draws, Draw{Kind: DrawFloat, Float: v})
	return v
}

// Script replays a fixed sequence of draws. A draw of the wrong kind, an IntN
// bound that differs from the recorded one, or running past the end panics:
// any of those means the caller's draw order changed.
type Script struct {
	draws []Draw
	pos   int
}

func NewScript(draws ...Draw) *Script {
	return &Script{draws: append([]Draw(nil), draws...)}
}

// Ints builds int draws without recorded bounds.
func Ints(values ...int) []Draw {
	out := make([]Draw, 0, len(values))
	for _, v := range values {
		out = append(out, Draw{Kind: DrawInt, Int: v})
	}
	return out
}

// Floats builds float draws.
func Floats(values ...float64) []Draw {
	out := make([]Draw, 0, len(values))
	for _, v := range values {
		out = append(out, Draw{Kind: DrawFloat, Float: v})
	}
	return out
}

func (s *Script) IntN(n int) int {
	d := s.next(DrawInt)
	if d.N != 0 && d.N != n {
		panic(fmt.Sprintf("rng script: draw %d recorded IntN(%d), replayed IntN(%d)", s.pos-1, d.N, n))
	}
	if d.Int < 0 || d.Int >= n {
		panic(fmt.Sprintf("rng script: draw %d value %d out of range [0,%d)", s.pos-1, d.Int, n))
	}
	return d.Int
}

func (s *Script) Float64() float64 {
	return s.next(DrawFloat).Float
}

// Remaining reports how many scripted draws have not been consumed.
func (s *Script) Remaining() int {
	return len(s.draws) - s.pos
}

func (s *Script) next(kind DrawKind) Draw {
	if s.pos >= len(s.draws) {
		panic(fmt.Sprintf("rng script: exhausted after %d draws", len(s.draws)))
	}
	d := s.draws[s.pos]
	if d.Kind != kind {
		panic(fmt.Sprintf("rng script: draw %d has kind %d, caller wanted %d", s.pos, d.Kind, kind))
	}
	s.pos++
	return d
}
