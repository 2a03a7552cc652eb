package grid

import "fmt"

// Cell is the content of one grid square.
type Cell uint8

const (
	Empty Cell = iota
	Reward
	Wall
)

// Cells lists every cell value in definition order.
var Cells = [...]Cell{Empty, Reward, Wall}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "_"
	case Reward:
		return "O"
	case Wall:
		return "#"
	default:
		return fmt.Sprintf("Cell(%d)", uint8(c))
	}
}
