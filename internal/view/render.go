// Package view draws a world snapshot for terminal replay.
package view

import (
	"bufio"
	"io"
	"math"
	"os"

	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-isatty"

	"gridbot/internal/grid"
)

// Render writes one line per row, each cell as its glyph followed by a space.
// The agent's cell is red and cells closer than distance 2 are blue when
// colour is enabled.
func Render(w io.Writer, g *grid.Grid, agent grid.Location, colour bool) error {
	au := aurora.NewAurora(colour)
	out := bufio.NewWriter(w)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			loc := grid.Location{Row: r, Col: c}
			text := g.At(loc).String() + " "
			var cell aurora.Value
			switch d := distance(loc, agent); {
			case d == 0:
				cell = au.Red(text)
			case d < 2:
				cell = au.Blue(text)
			default:
				cell = au.Reset(text)
			}
			if _, err := out.WriteString(cell.String()); err != nil {
				return err
			}
		}
		if err := out.WriteByte('\n'); err != nil {
			return err
		}
	}
	return out.Flush()
}

// ColourEnabled reports whether f is an interactive terminal.
func ColourEnabled(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func distance(a, b grid.Location) float64 {
	dr := float64(a.Row - b.Row)
	dc := float64(a.Col - b.Col)
	return math.Sqrt(dr*dr + dc*dc)
}
