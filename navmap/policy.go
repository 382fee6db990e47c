package navmap

import (
	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
	"github.com/katalvlaran/portalgrid/search"
)

// blockPolicy searches cells of one block for an agent of a given size.
// Moves go to the 8 compass neighbors at unit cost, so Chebyshev distance is
// an exact lower bound. A step is taken only when it is wide enough for the
// agent under the map's corner rule.
type blockPolicy struct {
	g      *grid.Grid
	layout portal.Layout
	moves  grid.Moves
	block  int
	start  grid.Coord
	goal   grid.Coord
	size   int
}

func (p blockPolicy) Starts() []grid.Coord       { return []grid.Coord{p.start} }
func (p blockPolicy) Hash(c grid.Coord) int      { return c.Index(p.g.Width()) }
func (p blockPolicy) Finished(c grid.Coord) bool { return c == p.goal }
func (p blockPolicy) Estimate(c grid.Coord) int  { return grid.Chebyshev(c, p.goal) }

func (p blockPolicy) Neighbors(c grid.Coord) []grid.Coord {
	out := make([]grid.Coord, 0, len(grid.Compass))
	for _, d := range grid.Compass {
		if p.g.StepWidth(c, d, p.moves) < p.size {
			continue
		}
		if n, ok := c.Step(d); ok {
			out = append(out, n)
		}
	}

	return out
}

// Passable confines the search to the block and to cells wide enough for
// the agent.
func (p blockPolicy) Passable(c grid.Coord) bool {
	return p.g.Clearance(c) >= p.size && p.layout.BlockIndex(c) == p.block
}

// search runs a block-confined search from start to goal.
func (m *Map) search(block int, start, goal grid.Coord, size int, withPath bool) (search.Result[grid.Coord], error) {
	p := blockPolicy{
		g:      m.grid,
		layout: m.layout,
		moves:  m.moves(),
		block:  block,
		start:  start,
		goal:   goal,
		size:   size,
	}
	var opts []search.Option
	if withPath {
		opts = append(opts, search.WithReturnPath())
	}

	return search.Search[grid.Coord, int](p, opts...)
}
