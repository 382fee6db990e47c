package portal

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/portalgrid/grid"
)

// DefaultBlockSize is the side length of a block when none is configured.
const DefaultBlockSize = 16

// ErrBadBlockSize indicates a block size that is not a power of two ≥ 2.
var ErrBadBlockSize = errors.New("portal: block size must be a power of two >= 2")

// Portal is a maximal run of contiguous border cells of one block, all
// walkable in Direction, that together form a crossing into the neighboring
// block. Passability is the minimum clearance seen across the run, on both
// sides of the boundary.
type Portal struct {
	Start       grid.Coord     `json:"start"`       // first cell of the run
	Direction   grid.Direction `json:"direction"`   // direction of the crossing
	Size        int            `json:"size"`        // run length in cells
	Passability int            `json:"passability"` // minimum clearance along the run
}

// Equal reports whether p and o share a start cell. Portals are identified
// by their start only.
func (p Portal) Equal(o Portal) bool {
	return p.Start == o.Start
}

// Mirror returns the portal seen from the other side of the boundary: it
// starts at the cell across from p.Start, faces the inverse direction and has
// the same size and passability. ok is false when that cell cannot be addressed.
func (p Portal) Mirror() (m Portal, ok bool) {
	start, ok := p.Start.Step(p.Direction)
	if !ok {
		return Portal{}, false
	}

	return Portal{
		Start:       start,
		Direction:   p.Direction.Inverse(),
		Size:        p.Size,
		Passability: p.Passability,
	}, true
}

// String renders p as "(x, y) DIR size".
func (p Portal) String() string {
	return fmt.Sprintf("%s %s %d", p.Start, p.Direction, p.Size)
}

// Block is one square partition of the grid and the portals on its borders
// and corners.
type Block struct {
	Index   int        `json:"index"`   // position in the row-major block grid
	Origin  grid.Coord `json:"origin"`  // top-left cell
	Portals []Portal   `json:"portals"`
}

// Layout partitions a width×height grid into square blocks of BlockSize.
// Partial blocks along the right and bottom edges are kept.
type Layout struct {
	BlockSize  int
	Cols, Rows int
}

// NewLayout builds the block grid for the given dimensions.
// Returns ErrBadBlockSize when blockSize is not a power of two ≥ 2.
func NewLayout(width, height, blockSize int) (Layout, error) {
	if !validBlockSize(blockSize) {
		return Layout{}, fmt.Errorf("%w: got %d", ErrBadBlockSize, blockSize)
	}
	if width <= 0 || height <= 0 {
		return Layout{}, grid.ErrEmptyGrid
	}

	return Layout{
		BlockSize: blockSize,
		Cols:      (width + blockSize - 1) / blockSize,
		Rows:      (height + blockSize - 1) / blockSize,
	}, nil
}

func validBlockSize(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

// Count returns the number of blocks.
func (l Layout) Count() int { return l.Cols * l.Rows }

// BlockIndex returns the index of the block containing c.
func (l Layout) BlockIndex(c grid.Coord) int {
	return int(c.X)/l.BlockSize + int(c.Y)/l.BlockSize*l.Cols
}

// Origin returns the top-left cell of block bi.
func (l Layout) Origin(bi int) grid.Coord {
	return grid.XY((bi%l.Cols)*l.BlockSize, (bi/l.Cols)*l.BlockSize)
}

// Option configures Decompose.
type Option func(*Options)

// Options holds the tunables of block decomposition.
type Options struct {
	// Diagonal adds diagonal crossings along every border (runs of
	// BlockSize-1 cells in both diagonal directions) on top of the four
	// straight borders and four corners.
	Diagonal bool

	// OnSimplify, if non-nil, receives each block's portal count before and
	// after deduplication.
	OnSimplify func(block, before, after int)
}

// DefaultOptions returns straight borders and corners only, no hook.
func DefaultOptions() Options {
	return Options{}
}

// WithDiagonal enables diagonal border crossings.
func WithDiagonal() Option {
	return func(o *Options) {
		o.Diagonal = true
	}
}

// WithOnSimplify installs the deduplication hook.
func WithOnSimplify(fn func(block, before, after int)) Option {
	return func(o *Options) {
		o.OnSimplify = fn
	}
}
