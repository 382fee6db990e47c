package grid

// Grid is an immutable row-major array of clearance values.
// Cell (x, y) lives at index x + y*Width. A Grid is built once from raw
// passability flags and never mutated again, so it is safe for concurrent readers.
type Grid struct {
	width, height int
	cells         []uint8
}

// New builds a Grid of the given dimensions from row-major passability flags
// and computes every cell's clearance.
// Returns ErrEmptyGrid for a zero dimension, ErrTooLarge when a dimension does
// not fit a Coord, and ErrSizeMismatch when len(passable) != width*height.
// Complexity: O(W·H·MaxClearance²) time, O(W·H) memory.
func New(width, height int, passable []bool) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, ErrTooLarge
	}
	if len(passable) != width*height {
		return nil, ErrSizeMismatch
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  ComputeClearance(passable, width, height),
	}, nil
}

// FromRows builds a Grid from a non-empty rectangular [y][x] slice of
// passability flags.
func FromRows(rows [][]bool) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	w := len(rows[0])
	flat := make([]bool, 0, w*len(rows))
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
		flat = append(flat, row...)
	}

	return New(w, len(rows), flat)
}

// FromClearance wraps already computed clearance values without recomputing
// them. Values above MaxClearance are clamped.
func FromClearance(width, height int, clearance []uint8) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	if width > MaxDimension || height > MaxDimension {
		return nil, ErrTooLarge
	}
	if len(clearance) != width*height {
		return nil, ErrSizeMismatch
	}
	cells := make([]uint8, len(clearance))
	for i, v := range clearance {
		cells[i] = min(v, MaxClearance)
	}

	return &Grid{width: width, height: height, cells: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether (x, y) lies within the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Contains reports whether c lies within the grid.
func (g *Grid) Contains(c Coord) bool {
	return g.InBounds(int(c.X), int(c.Y))
}

// Clearance returns the clearance of c, or 0 when c is outside the grid.
func (g *Grid) Clearance(c Coord) int {
	if !g.Contains(c) {
		return 0
	}
	return int(g.cells[c.Index(g.width)])
}

// ClearanceAt returns the clearance at row-major index idx.
func (g *Grid) ClearanceAt(idx int) int {
	return int(g.cells[idx])
}

// Walkable returns the clearance of the neighbor of c in direction d,
// or 0 when that neighbor is outside the grid.
func (g *Grid) Walkable(c Coord, d Direction) int {
	n, ok := c.Step(d)
	if !ok {
		return 0
	}
	return g.Clearance(n)
}

// StepWidth returns the largest agent size that can step from c to its
// neighbor in d: the smaller clearance of the two cells. Under
// NoCornerCutting a diagonal step is further bounded by the two orthogonal
// cells it passes between. 0 means the step is blocked for every agent.
func (g *Grid) StepWidth(c Coord, d Direction, moves Moves) int {
	w := min(g.Clearance(c), g.Walkable(c, d))
	if w == 0 || moves == CornerCutting || !d.Diagonal() {
		return w
	}
	dx, dy := d.Offset()
	x, y := int(c.X), int(c.Y)
	if !g.InBounds(x+dx, y) || !g.InBounds(x, y+dy) {
		return 0
	}

	return min(w,
		int(g.cells[x+dx+y*g.width]),
		int(g.cells[x+(y+dy)*g.width]))
}

// Clearances returns a copy of the row-major clearance array.
func (g *Grid) Clearances() []uint8 {
	out := make([]uint8, len(g.cells))
	copy(out, g.cells)

	return out
}

// Passable returns the row-major passability flags the grid was built from.
func (g *Grid) Passable() []bool {
	out := make([]bool, len(g.cells))
	for i, v := range g.cells {
		out[i] = v > 0
	}

	return out
}
