// Package grid defines coordinates, compass directions, sentinel errors and
// the clearance cap for the grid subpackage of github.com/katalvlaran/portalgrid.
package grid

import (
	"errors"
	"fmt"
)

// MaxClearance is the saturation cap of a cell's clearance. A cell whose free
// square reaches this side length reports MaxClearance no matter how much more
// open terrain surrounds it.
const MaxClearance = 7

// MaxDimension bounds Width and Height so every cell fits a 16-bit Coord.
const MaxDimension = 1 << 16

// Sentinel errors for grid construction.
var (
	// ErrEmptyGrid indicates the input has no rows or no columns.
	ErrEmptyGrid = errors.New("grid: input must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("grid: all rows must have the same length")
	// ErrSizeMismatch indicates a flat cell slice whose length is not width*height.
	ErrSizeMismatch = errors.New("grid: cell count does not match width*height")
	// ErrTooLarge indicates a dimension that cannot be addressed by a Coord.
	ErrTooLarge = errors.New("grid: dimension exceeds coordinate range")
)

// Moves selects which diagonal steps an agent may take.
type Moves uint8

const (
	// NoCornerCutting allows a diagonal step only when both orthogonal cells
	// it passes between are open as well.
	NoCornerCutting Moves = iota
	// CornerCutting allows a diagonal step between any two open cells,
	// squeezing between walls that touch at a corner.
	CornerCutting
)

// Coord is a 4-component cell position. Only X and Y take part in the 2D
// logic; Z and W are carried for layered maps.
type Coord struct {
	X, Y, Z, W uint16
}

// XY builds a planar Coord with Z and W left at zero.
func XY(x, y int) Coord {
	return Coord{X: uint16(x), Y: uint16(y)}
}

// FromIndex converts a row-major index back to a planar Coord.
func FromIndex(idx, width int) Coord {
	return XY(idx%width, idx/width)
}

// Index maps c to its row-major index: X + Y*width.
func (c Coord) Index(width int) int {
	return int(c.X) + int(c.Y)*width
}

// Step returns the neighbor of c in direction d. ok is false when the step
// would leave the unsigned coordinate range.
func (c Coord) Step(d Direction) (n Coord, ok bool) {
	dx, dy := d.Offset()
	x, y := int(c.X)+dx, int(c.Y)+dy
	if x < 0 || y < 0 || x >= MaxDimension || y >= MaxDimension {
		return Coord{}, false
	}
	n = c
	n.X, n.Y = uint16(x), uint16(y)

	return n, true
}

// DirectionTo returns the direction of the single step from c to n, and
// false when n is not one of c's eight planar neighbors.
func (c Coord) DirectionTo(n Coord) (Direction, bool) {
	for _, d := range Compass {
		if s, ok := c.Step(d); ok && s == n {
			return d, true
		}
	}

	return None, false
}

// Chebyshev returns max(|dx|, |dy|, |dz|) between a and b: the number of
// unit moves separating them when diagonal steps cost the same as straight ones.
func Chebyshev(a, b Coord) int {
	return max(absDiff(a.X, b.X), absDiff(a.Y, b.Y), absDiff(a.Z, b.Z))
}

func absDiff(a, b uint16) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// String renders c as "(x, y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Direction is one of the eight compass directions plus Center, Up, Down
// and None. North points toward decreasing Y.
type Direction uint8

const (
	None Direction = iota
	SouthWest
	South
	SouthEast
	West
	Center
	East
	NorthWest
	North
	NorthEast
	Up
	Down
)

var (
	offsetX = [...]int{0, -1, 0, 1, -1, 0, 1, -1, 0, 1, 0, 0}
	offsetY = [...]int{0, 1, 1, 1, 0, 0, 0, -1, -1, -1, 0, 0}

	inverse = [...]Direction{
		None, NorthEast, North, NorthWest, East, Center, West, SouthEast, South, SouthWest, Down, Up,
	}

	directionName = [...]string{"", "SW", "S", "SE", "W", "C", "E", "NW", "N", "NE", "U", "D"}
)

// Compass lists the eight planar directions in neighbor enumeration order.
var Compass = [8]Direction{SouthWest, South, SouthEast, West, East, NorthWest, North, NorthEast}

// Offset returns the planar (dx, dy) of one step in d.
func (d Direction) Offset() (dx, dy int) {
	if int(d) >= len(offsetX) {
		return 0, 0
	}
	return offsetX[d], offsetY[d]
}

// Inverse returns the 180°-opposite of d (Up and Down swap).
func (d Direction) Inverse() Direction {
	if int(d) >= len(inverse) {
		return None
	}
	return inverse[d]
}

// Diagonal reports whether d moves along both axes.
func (d Direction) Diagonal() bool {
	dx, dy := d.Offset()
	return dx != 0 && dy != 0
}

// String returns the short compass name ("N", "SE", ...).
func (d Direction) String() string {
	if int(d) >= len(directionName) {
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
	return directionName[d]
}
