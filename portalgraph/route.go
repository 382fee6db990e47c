package portalgraph

import (
	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
	"github.com/katalvlaran/portalgrid/search"
)

// routePolicy runs the generic engine over portals: edges are steps, edge
// lengths are step costs and the heuristic is the Chebyshev distance to the
// nearest goal start, which never exceeds a real cell path length.
type routePolicy struct {
	g       *Graph
	origins []portal.Portal
	goals   map[grid.Coord]struct{}
	targets []grid.Coord
	size    int
}

func (r routePolicy) Starts() []portal.Portal         { return r.origins }
func (r routePolicy) Hash(p portal.Portal) grid.Coord { return p.Start }
func (r routePolicy) Passable(portal.Portal) bool     { return true }

func (r routePolicy) Finished(p portal.Portal) bool {
	_, ok := r.goals[p.Start]
	return ok
}

func (r routePolicy) Estimate(p portal.Portal) int {
	best := -1
	for _, t := range r.targets {
		if d := grid.Chebyshev(p.Start, t); best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 0
	}

	return best
}

func (r routePolicy) Neighbors(p portal.Portal) []portal.Portal {
	edges := r.g.Outgoing(p.Start)
	out := make([]portal.Portal, 0, len(edges))
	for _, e := range edges {
		if e.Fits(r.size) {
			out = append(out, e.To)
		}
	}

	return out
}

func (r routePolicy) Cost(from, to portal.Portal) int {
	n, _ := r.g.EdgeLength(from.Start, to.Start, r.size)
	return n
}

// Route finds the cheapest chain of portals from any origin to any goal,
// summing edge lengths and following only edges an agent of size fits
// (0 follows all). Result.Path is always filled when a route exists.
// Unlike Reachable it is cost-aware; both agree on whether a goal is
// reachable.
func Route(g *Graph, origins, goals []portal.Portal, size int, opts ...search.Option) (search.Result[portal.Portal], error) {
	if g == nil {
		return search.Result[portal.Portal]{}, ErrNilGraph
	}
	p := routePolicy{
		g:       g,
		origins: origins,
		goals:   make(map[grid.Coord]struct{}, len(goals)),
		size:    size,
	}
	for _, q := range goals {
		if _, dup := p.goals[q.Start]; dup {
			continue
		}
		p.goals[q.Start] = struct{}{}
		p.targets = append(p.targets, q.Start)
	}
	if len(p.goals) == 0 {
		return search.Result[portal.Portal]{}, nil
	}
	opts = append(opts, search.WithReturnPath())

	return search.Search[portal.Portal, grid.Coord](p, opts...)
}
