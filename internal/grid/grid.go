// Package grid models the walled world an agent forages in: cells, locations,
// the five-cell neighbourhood signature and the random world generator.
package grid

import (
	"fmt"
	"strings"
)

// Location addresses a cell by row and column.
type Location struct {
	Row int
	Col int
}

func (l Location) String() string {
	return fmt.Sprintf("(%d, %d)", l.Row, l.Col)
}

// Grid is a rows x cols field of cells stored row-major.
type Grid struct {
	rows  int
	cols  int
	cells []Cell
}

// New allocates an all-Empty grid.
func New(rows, cols int) *Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("grid: invalid dimensions %dx%d", rows, cols))
	}
	return &Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether loc lies on the grid, border included.
func (g *Grid) InBounds(loc Location) bool {
	return loc.Row >= 0 && loc.Row < g.rows && loc.Col >= 0 && loc.Col < g.cols
}

// Interior reports whether loc lies strictly inside the border.
func (g *Grid) Interior(loc Location) bool {
	return loc.Row > 0 && loc.Row < g.rows-1 && loc.Col > 0 && loc.Col < g.cols-1
}

func (g *Grid) At(loc Location) Cell {
	return g.cells[g.index(loc)]
}

func (g *Grid) Set(loc Location, c Cell) {
	g.cells[g.index(loc)] = c
}

// Count returns how many cells hold c.
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, v := range g.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Clone returns an independent copy, used to hand snapshots to observers.
func (g *Grid) Clone() *Grid {
	return &Grid{rows: g.rows, cols: g.cols, cells: append([]Cell(nil), g.cells...)}
}

func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g.At(Location{Row: r, Col: c}).String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Grid) index(loc Location) int {
	if !g.InBounds(loc) {
		panic(fmt.Sprintf("grid: location %s outside %dx%d grid", loc, g.rows, g.cols))
	}
	return loc.Row*g.cols + loc.Col
}
