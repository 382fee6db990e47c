package navmap

import (
	"fmt"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
	"github.com/katalvlaran/portalgrid/portalgraph"
	"github.com/katalvlaran/portalgrid/search"
)

// checkQuery validates a query point and agent size.
func (m *Map) checkQuery(c grid.Coord, size int) error {
	if size < 1 {
		return fmt.Errorf("%w: got %d", ErrBadAgentSize, size)
	}
	if !m.grid.Contains(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}

	return nil
}

// BlockPathfind searches a path from start to end that stays inside their
// common block and only enters cells with clearance >= size. Points in
// different blocks, or an end cell too narrow for the agent, give a
// negative result without expanding anything. Result.Path is filled.
func (m *Map) BlockPathfind(start, end grid.Coord, size int) (search.Result[grid.Coord], error) {
	var none search.Result[grid.Coord]
	if err := m.checkQuery(start, size); err != nil {
		return none, err
	}
	if err := m.checkQuery(end, size); err != nil {
		return none, err
	}
	block := m.layout.BlockIndex(start)
	if m.layout.BlockIndex(end) != block || m.grid.Clearance(end) < size {
		return none, nil
	}

	return m.search(block, start, end, size, true)
}

// LinkPositionAndPortals returns the portals of c's block that an agent of
// the given size standing at c can reach without leaving the block, in the
// block's portal order. An empty result is a normal negative answer.
func (m *Map) LinkPositionAndPortals(c grid.Coord, size int) ([]portal.Portal, error) {
	if err := m.checkQuery(c, size); err != nil {
		return nil, err
	}
	block := m.layout.BlockIndex(c)
	if m.grid.Clearance(c) < size {
		return nil, nil
	}

	var (
		out   []portal.Portal
		known = make(map[grid.Coord]bool)
	)
	for _, p := range m.blocks[block].Portals {
		ok, seen := known[p.Start]
		if !seen {
			res, err := m.search(block, c, p.Start, size, false)
			if err != nil {
				return nil, err
			}
			ok = res.Found
			known[p.Start] = ok
		}
		if ok {
			out = append(out, p)
		}
	}

	return out, nil
}

// PortalPathfind reports whether any goal portal is reachable from any
// origin portal over the portal graph. It answers reachability only.
func (m *Map) PortalPathfind(origins, goals []portal.Portal) bool {
	return m.PortalPathfindFor(origins, goals, 1)
}

// PortalPathfindFor is PortalPathfind for an agent of the given size: edges
// narrower than size are not followed.
func (m *Map) PortalPathfindFor(origins, goals []portal.Portal, size int) bool {
	res, err := portalgraph.Reachable(m.graph, origins, goals, portalgraph.WithAgentSize(size))
	return err == nil && res.Found
}

// PortalRoute returns the cheapest portal chain from origins to goals for an
// agent of the given size, with Result.Cost the summed edge length.
func (m *Map) PortalRoute(origins, goals []portal.Portal, size int) (search.Result[portal.Portal], error) {
	return portalgraph.Route(m.graph, origins, goals, size)
}

// Connected reports whether an agent of the given size can get from origin
// to goal. Points in different regions are rejected without searching.
// Points of the same block are first tried directly; otherwise both points
// are linked to their block's portals and the portal graph decides, following
// only edges at least size wide.
//
// A true answer always has a cell route for the agent. Portals are joined at
// their start cells, so for size > 1 a route that fits only through a
// portal's later, wider cells is not found.
func (m *Map) Connected(origin, goal grid.Coord, size int) (bool, error) {
	if err := m.checkQuery(origin, size); err != nil {
		return false, err
	}
	if err := m.checkQuery(goal, size); err != nil {
		return false, err
	}
	if m.grid.Clearance(origin) < size || m.grid.Clearance(goal) < size {
		return false, nil
	}
	if !m.SameRegion(origin, goal) {
		return false, nil
	}

	if m.layout.BlockIndex(origin) == m.layout.BlockIndex(goal) {
		res, err := m.BlockPathfind(origin, goal, size)
		if err != nil {
			return false, err
		}
		if res.Found {
			return true, nil
		}
	}

	from, err := m.LinkPositionAndPortals(origin, size)
	if err != nil || len(from) == 0 {
		return false, err
	}
	to, err := m.LinkPositionAndPortals(goal, size)
	if err != nil || len(to) == 0 {
		return false, err
	}

	return m.PortalPathfindFor(from, to, size), nil
}
