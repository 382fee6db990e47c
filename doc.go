// Package portalgrid answers reachability questions on large uniform grids
// without searching the whole grid.
//
// The grid is preprocessed once:
//
//	grid/        - Coord, Direction, and per-cell clearance (largest free square, capped at 7)
//	portal/      - square blocks and the portals along their borders and corners
//	portalgraph/ - the coarse graph: crossing edges between blocks, inner edges within a block
//	search/      - the generic best-first engine used for cells and for portals
//	navmap/      - the Map: preprocessing pipeline and the query layer
//
// and queried many times:
//
//	m, err := navmap.New(g, navmap.WithLogger(logger))
//	exits, err := m.LinkPositionAndPortals(point, agentSize)
//	ok := m.PortalPathfind(exits, goalExits)
//	ok, err = m.Connected(origin, goal, agentSize)
//
// Around the core:
//
//	mapfile/         - text map loader ('0' walls, 'S' origin, 'G' goal)
//	render/          - clearance display (lipgloss) and portal graph DOT/SVG (graphviz)
//	internal/config  - TOML configuration
//	internal/cli     - cobra commands: query, render, graph, snapshot, serve
//	internal/server  - read-only HTTP API (chi)
//	cmd/portalgrid   - the binary
//
// A 16×16 block inside open terrain exposes one full-width portal per side;
// two blocks split by a wall meet only through the portals of its gaps:
//
//	. . . . 0 . . . .
//	. S . . 0 . . . .
//	. . . . . . . G .   ← single gap: the only portal pair
//	. . . . 0 . . . .
package portalgrid
