package portalgraph

import (
	"fmt"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
)

// Reachable reports whether any goal portal can be reached from any origin
// portal by following graph edges. It is a stack-based depth-first
// traversal: pop a portal, succeed if it is a goal, otherwise mark it
// visited and push the targets of its outgoing edges that are not yet
// visited. It answers reachability only; the Trail is a witness, not a
// shortest route (see Route).
//
// Portals are compared by start cell. With WithAgentSize, edges too narrow
// for the agent are not followed. Empty origins or goals yield a
// negative Result, never an error.
func Reachable(g *Graph, origins, goals []portal.Portal, opts ...Option) (Result, error) {
	var res Result
	if g == nil {
		return res, ErrNilGraph
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	goalSet := make(map[grid.Coord]struct{}, len(goals))
	for _, p := range goals {
		goalSet[p.Start] = struct{}{}
	}
	if len(goalSet) == 0 {
		return res, nil
	}

	visited := make(map[grid.Coord]struct{})
	parent := make(map[grid.Coord]portal.Portal)
	stack := make([]portal.Portal, 0, len(origins))
	// Push in reverse so the first origin is popped first.
	for i := len(origins) - 1; i >= 0; i-- {
		stack = append(stack, origins[i])
	}

	var (
		cur  portal.Portal
		edge Edge
	)
	for len(stack) > 0 {
		if err := cfg.Ctx.Err(); err != nil {
			return res, err
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := goalSet[cur.Start]; ok {
			res.Found = true
			res.Goal = cur
			res.Trail = trail(parent, cur)

			return res, nil
		}
		if _, ok := visited[cur.Start]; ok {
			continue
		}
		visited[cur.Start] = struct{}{}
		res.Visited++
		if cfg.OnVisit != nil {
			if err := cfg.OnVisit(cur); err != nil {
				return res, fmt.Errorf("portalgraph: OnVisit hook for %s: %w", cur, err)
			}
		}

		for _, edge = range g.Outgoing(cur.Start) {
			if !edge.Fits(cfg.Size) {
				continue
			}
			if _, ok := visited[edge.To.Start]; ok {
				continue
			}
			if _, ok := parent[edge.To.Start]; !ok {
				parent[edge.To.Start] = cur
			}
			stack = append(stack, edge.To)
		}
	}

	return res, nil
}

// trail follows parent links back from last to an origin and returns the
// portals in forward order.
func trail(parent map[grid.Coord]portal.Portal, last portal.Portal) []portal.Portal {
	out := []portal.Portal{last}
	seen := map[grid.Coord]struct{}{last.Start: {}}
	for {
		p, ok := parent[out[len(out)-1].Start]
		if !ok {
			break
		}
		if _, loop := seen[p.Start]; loop {
			break
		}
		seen[p.Start] = struct{}{}
		out = append(out, p)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	return out
}
