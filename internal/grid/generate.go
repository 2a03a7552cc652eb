package grid

import (
	"errors"
	"fmt"

	"gridbot/internal/rng"
)

// MinSide is the smallest legal grid dimension.
const MinSide = 4

// Shape fixes the dimensions and reward count of generated worlds.
type Shape struct {
	Rows    int
	Cols    int
	Rewards int
}

// InteriorCells is the number of non-border cells.
func (s Shape) InteriorCells() int {
	if s.Rows < 2 || s.Cols < 2 {
		return 0
	}
	return (s.Rows - 2) * (s.Cols - 2)
}

// Validate rejects shapes Generate cannot satisfy. It runs once at startup.
func (s Shape) Validate() error {
	var errs []error
	if s.Rows < MinSide {
		errs = append(errs, fmt.Errorf("grid height must be >= %d, got %d", MinSide, s.Rows))
	}
	if s.Cols < MinSide {
		errs = append(errs, fmt.Errorf("grid width must be >= %d, got %d", MinSide, s.Cols))
	}
	if s.Rewards < 0 {
		errs = append(errs, fmt.Errorf("reward count must be >= 0, got %d", s.Rewards))
	}
	if len(errs) == 0 && s.Rewards >= s.InteriorCells() {
		errs = append(errs, fmt.Errorf("reward count %d must be < interior cells %d", s.Rewards, s.InteriorCells()))
	}
	return errors.Join(errs...)
}

// RandomInterior draws a uniform interior location, row first.
func RandomInterior(src rng.Source, rows, cols int) Location {
	row := 1 + src.IntN(rows-2)
	col := 1 + src.IntN(cols-2)
	return Location{Row: row, Col: col}
}

// Generate builds a walled world holding exactly shape.Rewards rewards.
// Placement redraws on collision, so an unsatisfiable shape would never
// terminate; Generate panics on one instead.
func Generate(src rng.Source, shape Shape) *Grid {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("grid: generate with invalid shape: %v", err))
	}

	g := New(shape.Rows, shape.Cols)
	for r := 0; r < shape.Rows; r++ {
		g.Set(Location{Row: r, Col: 0}, Wall)
		g.Set(Location{Row: r, Col: shape.Cols - 1}, Wall)
	}
	for c := 0; c < shape.Cols; c++ {
		g.Set(Location{Row: 0, Col: c}, Wall)
		g.Set(Location{Row: shape.Rows - 1, Col: c}, Wall)
	}

	for placed := 0; placed < shape.Rewards; placed++ {
		for {
			loc := RandomInterior(src, shape.Rows, shape.Cols)
			if g.At(loc) == Empty {
				g.Set(loc, Reward)
				break
			}
		}
	}
	return g
}
