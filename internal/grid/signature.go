package grid

import "fmt"

// SignatureSpace is the number of raw five-slot combinations (3^5).
const SignatureSpace = 243

// Signature is the agent's view of the world: the four orthogonal neighbours
// and the cell it stands on.
type Signature struct {
	Up     Cell
	Down   Cell
	Left   Cell
	Right  Cell
	Center Cell
}

// Index packs the signature base-3, Up most significant, into [0, SignatureSpace).
func (s Signature) Index() int {
	return (((int(s.Up)*3+int(s.Down))*3+int(s.Left))*3+int(s.Right))*3 + int(s.Center)
}

func SignatureFromIndex(i int) Signature {
	if i < 0 || i >= SignatureSpace {
		panic(fmt.Sprintf("grid: signature index %d out of range", i))
	}
	var s Signature
	s.Center = Cell(i % 3)
	i /= 3
	s.Right = Cell(i % 3)
	i /= 3
	s.Left = Cell(i % 3)
	i /= 3
	s.Down = Cell(i % 3)
	i /= 3
	s.Up = Cell(i % 3)
	return s
}

// Reachable reports whether an interior location can ever produce s. The agent
// never stands on a wall, and a grid at least four cells wide and tall never
// has walls on two opposite sides of an interior cell.
func (s Signature) Reachable() bool {
	if s.Center == Wall {
		return false
	}
	if s.Up == Wall && s.Down == Wall {
		return false
	}
	return !(s.Left == Wall && s.Right == Wall)
}

func (s Signature) String() string {
	return fmt.Sprintf("%s%s%s%s%s", s.Up, s.Down, s.Left, s.Right, s.Center)
}

// Encode reads the signature at loc. loc must be strictly interior.
func Encode(g *Grid, loc Location) Signature {
	if !g.Interior(loc) {
		panic(fmt.Sprintf("grid: encode at non-interior location %s", loc))
	}
	return Signature{
		Up:     g.At(Location{Row: loc.Row - 1, Col: loc.Col}),
		Down:   g.At(Location{Row: loc.Row + 1, Col: loc.Col}),
		Left:   g.At(Location{Row: loc.Row, Col: loc.Col - 1}),
		Right:  g.At(Location{Row: loc.Row, Col: loc.Col + 1}),
		Center: g.At(loc),
	}
}
