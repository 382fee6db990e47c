package portalgraph

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
)

// Graph is an append-only edge list with an adjacency index keyed by the
// start cell of an edge's source portal. Portals are identified by their
// start cell, so every portal sharing a start shares its outgoing edges.
//
// A Graph is filled during preprocessing and then frozen; after Freeze it is
// read-only and safe for concurrent queries.
type Graph struct {
	mu     sync.RWMutex            // guards everything below
	edges  []Edge                  // insertion order
	out    map[grid.Coord][]int    // From.Start -> indices into edges
	seen   map[grid.Coord]struct{} // every portal start touched by an edge
	frozen bool
}

// New returns an empty, mutable Graph.
func New() *Graph {
	return &Graph{
		out:  make(map[grid.Coord][]int),
		seen: make(map[grid.Coord]struct{}),
	}
}

// AddEdge appends e. Returns ErrFrozen once the graph is frozen.
func (g *Graph) AddEdge(e Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addLocked(e)
}

// AddEdges appends es in order, stopping at the first error.
func (g *Graph) AddEdges(es []Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range es {
		if err := g.addLocked(es[i]); err != nil {
			return err
		}
	}

	return nil
}

func (g *Graph) addLocked(e Edge) error {
	if g.frozen {
		return fmt.Errorf("%w: edge %s -> %s", ErrFrozen, e.From, e.To)
	}
	g.out[e.From.Start] = append(g.out[e.From.Start], len(g.edges))
	g.edges = append(g.edges, e)
	g.seen[e.From.Start] = struct{}{}
	g.seen[e.To.Start] = struct{}{}

	return nil
}

// Freeze makes the graph read-only. Calling it again is a no-op.
func (g *Graph) Freeze() {
	g.mu.Lock()
	g.frozen = true
	g.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (g *Graph) Frozen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.frozen
}

// Len returns the number of edges.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// Vertices returns the number of distinct portal starts touched by an edge.
func (g *Graph) Vertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.seen)
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Edge, len(g.edges))
	copy(out, g.edges)

	return out
}

// Outgoing returns the edges whose source portal starts at start, in
// insertion order. The result is a fresh slice.
func (g *Graph) Outgoing(start grid.Coord) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx := g.out[start]
	out := make([]Edge, len(idx))
	for i, k := range idx {
		out[i] = g.edges[k]
	}

	return out
}

// EdgeLength returns the shortest length of the edges from a portal starting
// at from to one starting at to that an agent of size fits (see Edge.Fits),
// and false when there is none.
func (g *Graph) EdgeLength(from, to grid.Coord, size int) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	best, ok := 0, false
	for _, k := range g.out[from] {
		e := g.edges[k]
		if e.To.Start != to || !e.Fits(size) {
			continue
		}
		if !ok || e.Length < best {
			best, ok = e.Length, true
		}
	}

	return best, ok
}

// Portals returns every distinct portal appearing as an edge endpoint, keyed
// by start, in first-seen order.
func (g *Graph) Portals() []portal.Portal {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[grid.Coord]struct{}, len(g.seen))
	out := make([]portal.Portal, 0, len(g.seen))
	add := func(p portal.Portal) {
		if _, dup := seen[p.Start]; dup {
			return
		}
		seen[p.Start] = struct{}{}
		out = append(out, p)
	}
	for _, e := range g.edges {
		add(e.From)
		add(e.To)
	}

	return out
}
