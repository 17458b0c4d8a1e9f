package common

import "math"

// Board dimensions. Every system works in grid cells and converts to pixels
// only at the transform level.
const (
	CellSize = 64
	GridCols = 12
	GridRows = 9
)

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// Add returns the cell offset by dx, dy.
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// CellToPixel returns the pixel position of a cell's origin.
func CellToPixel(c Cell) (float64, float64) {
	return float64(c.X * CellSize), float64(c.Y * CellSize)
}

// PixelToCell maps a pixel position to the nearest cell. An entity mid-move
// rounds to whichever cell it is closest to.
func PixelToCell(x, y float64) Cell {
	return Cell{
		X: int(math.Round(x / CellSize)),
		Y: int(math.Round(y / CellSize)),
	}
}

// InBounds reports whether a cell lies on the board.
func InBounds(c Cell) bool {
	return c.X >= 0 && c.X < GridCols && c.Y >= 0 && c.Y < GridRows
}

// Manhattan returns the grid distance between two cells.
func Manhattan(a, b Cell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Lerp interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
