package navmap_test

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/navmap"
	"github.com/katalvlaran/portalgrid/portal"
	"github.com/katalvlaran/portalgrid/portalgraph"
)

// makeGrid builds a w×h grid where wall(x, y) reports impassable cells.
func makeGrid(t testing.TB, w, h int, wall func(x, y int) bool) *grid.Grid {
	t.Helper()
	flags := make([]bool, w*h)
	for i := range flags {
		flags[i] = wall == nil || !wall(i%w, i/w)
	}
	g, err := grid.New(w, h, flags)
	require.NoError(t, err)

	return g
}

// gapWall is a 32×16 map whose two blocks meet only through (15, 8).
func gapWall(t testing.TB) *navmap.Map {
	t.Helper()
	g := makeGrid(t, 32, 16, func(x, y int) bool { return x == 15 && y != 8 })
	m, err := navmap.New(g)
	require.NoError(t, err)

	return m
}

func TestNew_Errors(t *testing.T) {
	_, err := navmap.New(nil)
	assert.ErrorIs(t, err, navmap.ErrNilGrid)

	g := makeGrid(t, 32, 32, nil)
	_, err = navmap.New(g, navmap.WithBlockSize(10))
	assert.ErrorIs(t, err, portal.ErrBadBlockSize)

	_, err = navmap.New(g, navmap.WithWorkers(0))
	assert.ErrorIs(t, err, navmap.ErrOptionViolation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = navmap.New(g, navmap.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := navmap.New(makeGrid(t, 32, 32, nil), navmap.WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "simplified block portals")
	assert.Contains(t, out, "preprocessed map")
	assert.Contains(t, out, "edges=")
}

// An open block surrounded by open terrain has one full-width portal per side
// and all its portals reach each other.
func TestScenario_OpenBlock(t *testing.T) {
	m, err := navmap.New(makeGrid(t, 48, 48, nil))
	require.NoError(t, err)
	require.Equal(t, 9, m.Layout().Count())

	b, ok := m.Block(4)
	require.True(t, ok)
	sides := 0
	for _, p := range b.Portals {
		if p.Direction.Diagonal() {
			assert.Equal(t, 1, p.Size)
			continue
		}
		sides++
		assert.Equal(t, 16, p.Size)
		assert.Equal(t, grid.MaxClearance, p.Passability)
	}
	assert.Equal(t, 4, sides)

	for _, p := range b.Portals {
		for _, q := range b.Portals {
			assert.True(t, m.PortalPathfind([]portal.Portal{p}, []portal.Portal{q}), "%s -> %s", p, q)
		}
	}
}

func TestScenario_SingleGap(t *testing.T) {
	m := gapWall(t)

	exits, err := m.LinkPositionAndPortals(grid.XY(3, 3), 1)
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.Equal(t, portal.Portal{Start: grid.XY(15, 8), Direction: grid.East, Size: 1, Passability: 1}, exits[0])

	wide, err := m.LinkPositionAndPortals(grid.XY(3, 3), 2)
	require.NoError(t, err)
	assert.Empty(t, wide, "the gap is too narrow for a size-2 agent")

	other, err := m.LinkPositionAndPortals(grid.XY(20, 3), 1)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, grid.West, other[0].Direction)

	assert.True(t, m.PortalPathfind(exits, other))
	assert.True(t, m.PortalPathfind(other, exits))

	ok, err := m.Connected(grid.XY(3, 3), grid.XY(28, 12), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = m.Connected(grid.XY(3, 3), grid.XY(28, 12), 2)
	require.NoError(t, err)
	assert.False(t, ok)

	route, err := m.PortalRoute(exits, other, 1)
	require.NoError(t, err)
	require.True(t, route.Found)
	assert.Equal(t, 1, route.Cost)
	assert.Len(t, route.Path, 2)
}

func TestScenario_SealedBlocks(t *testing.T) {
	m, err := navmap.New(makeGrid(t, 32, 16, func(x, _ int) bool { return x == 15 }))
	require.NoError(t, err)

	exits, err := m.LinkPositionAndPortals(grid.XY(3, 3), 1)
	require.NoError(t, err)
	assert.Empty(t, exits)

	ok, err := m.Connected(grid.XY(3, 3), grid.XY(28, 12), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScenario_SameBlockChebyshev(t *testing.T) {
	m, err := navmap.New(makeGrid(t, 32, 32, nil))
	require.NoError(t, err)

	from, to := grid.XY(1, 2), grid.XY(9, 5)
	res, err := m.BlockPathfind(from, to, 1)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, grid.Chebyshev(from, to), res.Cost)
	assert.Equal(t, 8, res.Cost)
	require.Len(t, res.Path, 9)
	assert.Equal(t, from, res.Path[0])
	assert.Equal(t, to, res.Path[8])

	// Different blocks are never joined by a block-confined search.
	res, err = m.BlockPathfind(from, grid.XY(20, 5), 1)
	require.NoError(t, err)
	assert.False(t, res.Found)

	ok, err := m.Connected(from, grid.XY(20, 25), 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScenario_ImpassableGoal(t *testing.T) {
	m, err := navmap.New(makeGrid(t, 32, 32, func(x, y int) bool { return x == 9 && y == 5 }))
	require.NoError(t, err)

	res, err := m.BlockPathfind(grid.XY(1, 2), grid.XY(9, 5), 1)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Zero(t, res.Expanded)

	ok, err := m.Connected(grid.XY(1, 2), grid.XY(9, 5), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	exits, err := m.LinkPositionAndPortals(grid.XY(9, 5), 1)
	require.NoError(t, err)
	assert.Empty(t, exits)
}

func TestQuery_InvalidArguments(t *testing.T) {
	m := gapWall(t)

	_, err := m.LinkPositionAndPortals(grid.XY(40, 3), 1)
	assert.ErrorIs(t, err, navmap.ErrOutOfBounds)
	_, err = m.LinkPositionAndPortals(grid.XY(3, 3), 0)
	assert.ErrorIs(t, err, navmap.ErrBadAgentSize)
	_, err = m.BlockPathfind(grid.XY(3, 3), grid.XY(3, 16), 1)
	assert.ErrorIs(t, err, navmap.ErrOutOfBounds)
	_, err = m.Connected(grid.XY(3, 3), grid.XY(4, 4), -1)
	assert.ErrorIs(t, err, navmap.ErrBadAgentSize)
	_, err = m.BlockOf(grid.XY(32, 0))
	assert.ErrorIs(t, err, navmap.ErrOutOfBounds)

	bi, err := m.BlockOf(grid.XY(31, 15))
	require.NoError(t, err)
	assert.Equal(t, 1, bi)
	_, ok := m.Block(2)
	assert.False(t, ok)
}

func randomGrid(t testing.TB, seed int64, w, h int) *grid.Grid {
	rng := rand.New(rand.NewSource(seed))
	return makeGrid(t, w, h, func(_, _ int) bool { return rng.Intn(5) == 0 })
}

// Grid moves are symmetric, so every inner edge has a reverse twin of the
// same length.
func TestInnerEdges_Symmetric(t *testing.T) {
	m, err := navmap.New(randomGrid(t, 11, 48, 32))
	require.NoError(t, err)

	lengths := make(map[[2]grid.Coord]int)
	for _, e := range m.Graph().Edges() {
		if e.Kind == portalgraph.Inner {
			lengths[[2]grid.Coord{e.From.Start, e.To.Start}] = e.Length
		}
	}
	require.NotEmpty(t, lengths)
	for k, n := range lengths {
		back, ok := lengths[[2]grid.Coord{k[1], k[0]}]
		require.True(t, ok, "%s -> %s has no reverse edge", k[0], k[1])
		assert.Equal(t, n, back)
	}
}

func TestNew_Idempotent(t *testing.T) {
	g := randomGrid(t, 3, 64, 40)
	a, err := navmap.New(g)
	require.NoError(t, err)
	b, err := navmap.New(g)
	require.NoError(t, err)
	c, err := navmap.New(g, navmap.WithWorkers(4))
	require.NoError(t, err)

	assert.Equal(t, a.Snapshot(), b.Snapshot())
	assert.Equal(t, a.Snapshot(), c.Snapshot())
}

func TestNew_DiagonalPortals(t *testing.T) {
	g := makeGrid(t, 48, 48, nil)
	plain, err := navmap.New(g)
	require.NoError(t, err)
	diag, err := navmap.New(g, navmap.WithDiagonalPortals())
	require.NoError(t, err)

	assert.False(t, plain.Diagonal())
	assert.True(t, diag.Diagonal())
	assert.Greater(t, diag.PortalCount(), plain.PortalCount())
	assert.Greater(t, diag.Graph().Len(), plain.Graph().Len())
}

func TestPartialBlocks(t *testing.T) {
	m, err := navmap.New(makeGrid(t, 20, 20, nil))
	require.NoError(t, err)
	assert.Equal(t, 4, m.Layout().Count())

	ok, err := m.Connected(grid.XY(1, 1), grid.XY(18, 18), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	m := gapWall(t)

	var buf bytes.Buffer
	require.NoError(t, m.Snapshot().Encode(&buf))
	s, err := navmap.DecodeSnapshot(&buf)
	require.NoError(t, err)

	restored, err := navmap.FromSnapshot(s)
	require.NoError(t, err)
	assert.Equal(t, m.Snapshot(), restored.Snapshot())
	assert.True(t, restored.Graph().Frozen())

	ok, err := restored.Connected(grid.XY(3, 3), grid.XY(28, 12), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSnapshot_Invalid(t *testing.T) {
	good := gapWall(t).Snapshot()

	s := good
	s.Blocks = s.Blocks[:1]
	_, err := navmap.FromSnapshot(s)
	assert.ErrorIs(t, err, navmap.ErrBadSnapshot)

	s = good
	s.Clearance = s.Clearance[:10]
	_, err = navmap.FromSnapshot(s)
	assert.ErrorIs(t, err, navmap.ErrBadSnapshot)
	assert.ErrorIs(t, err, grid.ErrSizeMismatch)

	s = good
	s.BlockSize = 12
	_, err = navmap.FromSnapshot(s)
	assert.ErrorIs(t, err, navmap.ErrBadSnapshot)

	s = good
	s.Edges = append([]portalgraph.Edge(nil), good.Edges...)
	s.Edges[0].Width = 0
	_, err = navmap.FromSnapshot(s)
	assert.ErrorIs(t, err, navmap.ErrBadSnapshot)

	_, err = navmap.DecodeSnapshot(bytes.NewBufferString("{"))
	assert.ErrorIs(t, err, navmap.ErrBadSnapshot)
}

func BenchmarkNew(b *testing.B) {
	g := randomGrid(b, 1, 256, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := navmap.New(g); err != nil {
			b.Fatal(err)
		}
	}
}

// Every border crossing a cell path can take has a portal under both corner
// rules, so for the smallest agent the hierarchy agrees with the region labels.
func TestConnected_AgreesWithRegions(t *testing.T) {
	for name, tc := range map[string]struct {
		walls int // percent
		opts  []navmap.Option
		moves grid.Moves
	}{
		"straight portals": {35, nil, grid.NoCornerCutting},
		"diagonal portals": {45, []navmap.Option{navmap.WithDiagonalPortals()}, grid.CornerCutting},
	} {
		t.Run(name, func(t *testing.T) {
			cells := rand.New(rand.NewSource(5))
			g := makeGrid(t, 48, 40, func(_, _ int) bool { return cells.Intn(100) < tc.walls })
			m, err := navmap.New(g, tc.opts...)
			require.NoError(t, err)

			labels, count := grid.Regions(g, tc.moves)
			require.Greater(t, count, 1)
			var open []grid.Coord
			for i, r := range labels {
				if r != grid.NoRegion {
					open = append(open, grid.FromIndex(i, g.Width()))
				}
			}

			rng := rand.New(rand.NewSource(9))
			var same, apart int
			for range 400 {
				a, b := open[rng.Intn(len(open))], open[rng.Intn(len(open))]
				joined := labels[a.Index(g.Width())] == labels[b.Index(g.Width())]
				assert.Equal(t, joined, m.SameRegion(a, b))

				ok, err := m.Connected(a, b, 1)
				require.NoError(t, err)
				assert.Equal(t, joined, ok, "%s -> %s", a, b)

				if joined {
					same++
					continue
				}
				apart++
				if m.Layout().BlockIndex(a) == m.Layout().BlockIndex(b) {
					continue
				}
				// the coarse layer alone must not bridge two regions
				from, err := m.LinkPositionAndPortals(a, 1)
				require.NoError(t, err)
				to, err := m.LinkPositionAndPortals(b, 1)
				require.NoError(t, err)
				assert.False(t, m.PortalPathfind(from, to), "%s -> %s", a, b)
			}
			assert.Positive(t, same)
			assert.Positive(t, apart)
		})
	}
}

// squeezeWall is a 32×16 map whose two blocks touch only diagonally, through
// (15, 8) and (16, 9) across the block border.
func squeezeWall(t testing.TB) *grid.Grid {
	return makeGrid(t, 32, 16, func(x, y int) bool {
		return (x == 15 && y != 8) || (x == 16 && y != 9)
	})
}

func TestConnected_CornerSqueeze(t *testing.T) {
	g := squeezeWall(t)
	origin, goal := grid.XY(3, 3), grid.XY(28, 12)

	// Without diagonal portals diagonal steps may not cut corners, so the
	// blocks are apart and every layer agrees on it.
	strict, err := navmap.New(g)
	require.NoError(t, err)
	assert.False(t, strict.SameRegion(origin, goal))
	ok, err := strict.Connected(origin, goal, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	diag, err := navmap.New(g, navmap.WithDiagonalPortals())
	require.NoError(t, err)
	assert.True(t, diag.SameRegion(origin, goal))
	ok, err = diag.Connected(origin, goal, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	exits, err := diag.LinkPositionAndPortals(origin, 1)
	require.NoError(t, err)
	require.Len(t, exits, 1)
	assert.Equal(t, grid.XY(15, 8), exits[0].Start)
	assert.Equal(t, grid.SouthEast, exits[0].Direction)
}

func TestBlockPathfind_CornerRule(t *testing.T) {
	// a wall along the anti-diagonal x+y == 8 leaves only corner squeezes
	g := makeGrid(t, 16, 16, func(x, y int) bool { return x+y == 8 })
	start, end := grid.XY(0, 0), grid.XY(15, 15)

	strict, err := navmap.New(g)
	require.NoError(t, err)
	res, err := strict.BlockPathfind(start, end, 1)
	require.NoError(t, err)
	assert.False(t, res.Found)

	diag, err := navmap.New(g, navmap.WithDiagonalPortals())
	require.NoError(t, err)
	res, err = diag.BlockPathfind(start, end, 1)
	require.NoError(t, err)
	require.True(t, res.Found)
	// the straight diagonal is walled at (4, 4), so one step is spent
	// sidestepping it
	assert.Equal(t, 16, res.Cost)
}

// pinchedMap is 48×16: three blocks whose middle one is split at x=24 by a
// wall with a single one-cell gap at (24, 8).
func pinchedMap(t testing.TB) *navmap.Map {
	g := makeGrid(t, 48, 16, func(x, y int) bool { return x == 24 && y != 8 })
	m, err := navmap.New(g)
	require.NoError(t, err)

	return m
}

func TestConnected_AgentWiderThanPinch(t *testing.T) {
	m := pinchedMap(t)
	origin, goal := grid.XY(3, 3), grid.XY(40, 3)

	ok, err := m.Connected(origin, goal, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	for _, size := range []int{2, 3} {
		ok, err = m.Connected(origin, goal, size)
		require.NoError(t, err)
		assert.False(t, ok, "size %d cannot pass the gap", size)
	}

	from, err := m.LinkPositionAndPortals(origin, 3)
	require.NoError(t, err)
	to, err := m.LinkPositionAndPortals(goal, 3)
	require.NoError(t, err)
	require.NotEmpty(t, from)
	require.NotEmpty(t, to)
	assert.True(t, m.PortalPathfind(from, to))
	assert.False(t, m.PortalPathfindFor(from, to, 3))

	route, err := m.PortalRoute(from, to, 3)
	require.NoError(t, err)
	assert.False(t, route.Found)
	route, err = m.PortalRoute(from, to, 1)
	require.NoError(t, err)
	assert.True(t, route.Found)

	open, err := navmap.New(makeGrid(t, 48, 16, nil))
	require.NoError(t, err)
	ok, err = open.Connected(origin, goal, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEdgeWidths(t *testing.T) {
	m := pinchedMap(t)
	for _, e := range m.Graph().Edges() {
		require.GreaterOrEqual(t, e.Width, 1, "%s -> %s", e.From, e.To)
		assert.LessOrEqual(t, e.Width, min(m.Grid().Clearance(e.From.Start), m.Grid().Clearance(e.To.Start)))
	}

	west, east := grid.XY(16, 0), grid.XY(31, 0)
	var found bool
	for _, e := range m.Graph().Outgoing(west) {
		if e.To.Start == east {
			found = true
			assert.Equal(t, 1, e.Width, "the only way through block 1 is the gap")
		}
	}
	assert.True(t, found)
}

func TestSameRegion(t *testing.T) {
	m := gapWall(t)
	assert.True(t, m.SameRegion(grid.XY(3, 3), grid.XY(28, 12)))
	assert.False(t, m.SameRegion(grid.XY(3, 3), grid.XY(15, 3)))
	assert.False(t, m.SameRegion(grid.XY(3, 3), grid.XY(99, 3)))

	sealed, err := navmap.New(makeGrid(t, 32, 16, func(x, _ int) bool { return x == 15 }))
	require.NoError(t, err)
	assert.False(t, sealed.SameRegion(grid.XY(3, 3), grid.XY(28, 12)))
}
