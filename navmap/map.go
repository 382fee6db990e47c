package navmap

import (
	"fmt"
	"time"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
	"github.com/katalvlaran/portalgrid/portalgraph"
)

// Map is a preprocessed grid: clearance, region labels, blocks with their
// portals, and the frozen portal graph. A Map is immutable after New returns and safe for
// concurrent queries.
type Map struct {
	grid     *grid.Grid
	layout   portal.Layout
	blocks   []portal.Block
	graph    *portalgraph.Graph
	regions  []int32
	diagonal bool
}

// New preprocesses g: it partitions the grid into blocks, extracts and
// simplifies their portals, and links them into the portal graph. Each edge
// records the widest agent that can follow it.
func New(g *grid.Grid, opts ...Option) (*Map, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	layout, err := portal.NewLayout(g.Width(), g.Height(), cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	m := &Map{grid: g, layout: layout, diagonal: cfg.Diagonal}
	m.regions, _ = grid.Regions(g, m.moves())

	decomposeOpts := []portal.Option{
		portal.WithOnSimplify(func(block, before, after int) {
			cfg.Logger.Debug("simplified block portals", "block", block, "before", before, "after", after)
		}),
	}
	if cfg.Diagonal {
		decomposeOpts = append(decomposeOpts, portal.WithDiagonal())
	}
	m.blocks = portal.Decompose(g, layout, decomposeOpts...)

	m.graph, err = portalgraph.Build(cfg.Ctx, m.blocks, linker{m}, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("navmap: link blocks: %w", err)
	}

	cfg.Logger.Info("preprocessed map",
		"width", g.Width(),
		"height", g.Height(),
		"blocks", len(m.blocks),
		"portals", m.PortalCount(),
		"edges", m.graph.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return m, nil
}

// moves is the corner rule of the map. Without diagonal portals a diagonal
// crossing of a block border would have no portal, so diagonal steps may not
// cut corners: every diagonal step then has a straight alternative.
func (m *Map) moves() grid.Moves {
	if m.diagonal {
		return grid.CornerCutting
	}

	return grid.NoCornerCutting
}

// linker is the portalgraph.Linker of a map. It only reads immutable state.
type linker struct{ m *Map }

// Inner measures the shortest block-confined path for the smallest agent,
// then the widest agent any block-confined path admits: the narrowest step of
// the shortest path, raised when a wider detour exists.
func (l linker) Inner(block int, from, to grid.Coord) (length, width int, ok bool) {
	m := l.m
	res, err := m.search(block, from, to, 1, true)
	if err != nil || !res.Found {
		return 0, 0, false
	}

	width = grid.MaxClearance
	for i := 1; i < len(res.Path); i++ {
		d, _ := res.Path[i-1].DirectionTo(res.Path[i])
		width = min(width, m.grid.StepWidth(res.Path[i-1], d, m.moves()))
	}
	for s := min(m.grid.Clearance(from), m.grid.Clearance(to)); s > width; s-- {
		if wide, err := m.search(block, from, to, s, false); err == nil && wide.Found {
			width = s
			break
		}
	}

	return res.Cost, width, true
}

// Step is the width of the single step from p into its mirror.
func (l linker) Step(p portal.Portal) int {
	return l.m.grid.StepWidth(p.Start, p.Direction, l.m.moves())
}

// Grid returns the clearance grid.
func (m *Map) Grid() *grid.Grid { return m.grid }

// Layout returns the block layout.
func (m *Map) Layout() portal.Layout { return m.layout }

// Graph returns the frozen portal graph.
func (m *Map) Graph() *portalgraph.Graph { return m.graph }

// SameRegion reports whether a and b lie in the same region of passable
// cells under the map's corner rule. It is false when either is a wall or outside the grid.
func (m *Map) SameRegion(a, b grid.Coord) bool {
	if !m.grid.Contains(a) || !m.grid.Contains(b) {
		return false
	}
	ra := m.regions[a.Index(m.grid.Width())]

	return ra != grid.NoRegion && ra == m.regions[b.Index(m.grid.Width())]
}

// Diagonal reports whether diagonal border portals were extracted.
func (m *Map) Diagonal() bool { return m.diagonal }

// Blocks returns a copy of the block table in index order.
func (m *Map) Blocks() []portal.Block {
	out := make([]portal.Block, len(m.blocks))
	for i, b := range m.blocks {
		out[i] = cloneBlock(b)
	}

	return out
}

// Block returns block bi and false when bi is out of range.
func (m *Map) Block(bi int) (portal.Block, bool) {
	if bi < 0 || bi >= len(m.blocks) {
		return portal.Block{}, false
	}

	return cloneBlock(m.blocks[bi]), true
}

// BlockOf returns the index of the block containing c.
func (m *Map) BlockOf(c grid.Coord) (int, error) {
	if !m.grid.Contains(c) {
		return 0, fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}

	return m.layout.BlockIndex(c), nil
}

// PortalCount returns the number of portals over all blocks.
func (m *Map) PortalCount() int {
	n := 0
	for _, b := range m.blocks {
		n += len(b.Portals)
	}

	return n
}

func cloneBlock(b portal.Block) portal.Block {
	b.Portals = append([]portal.Portal(nil), b.Portals...)
	return b
}
