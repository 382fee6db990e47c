package portal

import (
	"cmp"
	"slices"

	"github.com/katalvlaran/portalgrid/grid"
)

// scan describes one border line of a block: where it starts relative to the
// block origin, how it advances, which way it crosses and how many cells it spans.
type scan struct {
	x0, y0 int
	dx, dy int
	dir    grid.Direction
	n      int
}

// scansFor lists the border lines of a block of side bs.
func scansFor(bs int, diagonal bool) []scan {
	last := bs - 1
	out := []scan{
		// straight borders
		{0, 0, 1, 0, grid.North, bs},
		{0, 0, 0, 1, grid.West, bs},
		{0, last, 1, 0, grid.South, bs},
		{last, 0, 0, 1, grid.East, bs},
		// corners
		{0, 0, 1, 0, grid.NorthWest, 1},
		{last, 0, 1, 0, grid.NorthEast, 1},
		{0, last, 1, 0, grid.SouthWest, 1},
		{last, last, 1, 0, grid.SouthEast, 1},
	}
	if !diagonal {
		return out
	}

	return append(out,
		// top border
		scan{1, 0, 1, 0, grid.NorthWest, last},
		scan{0, 0, 1, 0, grid.NorthEast, last},
		// left border
		scan{0, 1, 0, 1, grid.NorthWest, last},
		scan{0, 0, 0, 1, grid.SouthWest, last},
		// bottom border
		scan{1, last, 1, 0, grid.SouthWest, last},
		scan{0, last, 1, 0, grid.SouthEast, last},
		// right border
		scan{last, 1, 0, 1, grid.NorthEast, last},
		scan{last, 0, 0, 1, grid.SouthEast, last},
	)
}

// Extract scans every border line and corner of block bi and returns the
// block with its raw (not yet deduplicated) portals.
//
// A cell qualifies when it and its neighbor across the border in the scan
// direction are both passable. Consecutive qualifying cells merge into one
// Portal whose Passability is the minimum clearance over the run on both
// sides; an impassable or out-of-bounds cell ends the run.
func Extract(g *grid.Grid, l Layout, bi int, diagonal bool) Block {
	origin := l.Origin(bi)
	b := Block{Index: bi, Origin: origin}
	ox, oy := int(origin.X), int(origin.Y)

	for _, s := range scansFor(l.BlockSize, diagonal) {
		b.Portals = appendRuns(b.Portals, g, ox+s.x0, oy+s.y0, s)
	}

	return b
}

// appendRuns walks one scan line starting at (x, y) and appends its portals.
func appendRuns(dst []Portal, g *grid.Grid, x, y int, s scan) []Portal {
	for i := 0; i < s.n; {
		v := crossing(g, x+s.dx*i, y+s.dy*i, s.dir)
		if v == 0 {
			i++
			continue
		}

		p := Portal{
			Start:       grid.XY(x+s.dx*i, y+s.dy*i),
			Direction:   s.dir,
			Passability: v,
		}
		j := i + 1
		for ; j < s.n; j++ {
			next := crossing(g, x+s.dx*j, y+s.dy*j, s.dir)
			if next == 0 {
				break
			}
			p.Passability = min(p.Passability, next)
		}
		p.Size = j - i
		dst = append(dst, p)
		i = j
	}

	return dst
}

// crossing returns min(clearance of (x, y), clearance of its neighbor in d),
// or 0 when (x, y) lies outside the grid.
func crossing(g *grid.Grid, x, y int, d grid.Direction) int {
	if !g.InBounds(x, y) {
		return 0
	}
	c := grid.XY(x, y)

	return min(g.Clearance(c), g.Walkable(c, d))
}

// Simplify sorts b's portals by the linear index of their start (then
// direction and size) and removes exact duplicates: same start, direction
// and size. It returns the portal counts before and after.
func Simplify(b *Block, width int) (before, after int) {
	before = len(b.Portals)
	slices.SortStableFunc(b.Portals, func(p, q Portal) int {
		return cmp.Or(
			cmp.Compare(p.Start.Index(width), q.Start.Index(width)),
			cmp.Compare(p.Direction, q.Direction),
			cmp.Compare(p.Size, q.Size),
		)
	})
	b.Portals = slices.CompactFunc(b.Portals, func(p, q Portal) bool {
		return p.Start == q.Start && p.Direction == q.Direction && p.Size == q.Size
	})

	return before, len(b.Portals)
}

// Decompose extracts and simplifies the portals of every block of l.
// Blocks are returned in index order.
func Decompose(g *grid.Grid, l Layout, opts ...Option) []Block {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	blocks := make([]Block, l.Count())
	for bi := range blocks {
		blocks[bi] = Extract(g, l, bi, cfg.Diagonal)
		before, after := Simplify(&blocks[bi], g.Width())
		if cfg.OnSimplify != nil {
			cfg.OnSimplify(bi, before, after)
		}
	}

	return blocks
}
