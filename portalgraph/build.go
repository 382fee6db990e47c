package portalgraph

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
)

// Linker measures movement for Build. It must be safe for concurrent use
// when Build runs with more than one worker.
type Linker interface {
	// Inner returns the length of the shortest path between two cells of
	// block that stays inside the block, and the largest agent size for
	// which any such path exists. ok is false when there is no path.
	Inner(block int, from, to grid.Coord) (length, width int, ok bool)

	// Step returns the largest agent size that can step from p's start
	// into its mirror, or 0 when none can.
	Step(p portal.Portal) int
}

// CrossingEdges returns one edge per portal of b, from the portal to its
// mirror across the boundary, with length 1 and the width of that step.
// Portals without a mirror or whose step is blocked get no edge.
func CrossingEdges(b portal.Block, link Linker) []Edge {
	out := make([]Edge, 0, len(b.Portals))
	for _, p := range b.Portals {
		m, ok := p.Mirror()
		if !ok {
			continue
		}
		w := link.Step(p)
		if w < 1 {
			continue
		}
		out = append(out, Edge{From: p, To: m, Length: 1, Width: w, Kind: Crossing})
	}

	return out
}

// InnerEdges links every ordered pair of distinct portals of b for which
// link finds a route, using the route length as the edge length. Portals
// sharing a start cell are the same graph vertex and are not linked.
//
// Complexity: O(P²) calls to link.Inner for P portals.
func InnerEdges(b portal.Block, link Linker) []Edge {
	var out []Edge
	for i, from := range b.Portals {
		for j, to := range b.Portals {
			if i == j || from.Equal(to) {
				continue
			}
			if n, w, ok := link.Inner(b.Index, from.Start, to.Start); ok {
				out = append(out, Edge{From: from, To: to, Length: n, Width: w, Kind: Inner})
			}
		}
	}

	return out
}

// Build assembles and freezes the portal graph of blocks.
//
// Blocks are linked independently by up to workers goroutines (values < 1
// mean one). Each block's edges are collected separately and merged in block
// order, crossing edges first, so the result does not depend on scheduling.
func Build(ctx context.Context, blocks []portal.Block, link Linker, workers int) (*Graph, error) {
	if link == nil {
		return nil, ErrNilLinker
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if workers < 1 {
		workers = 1
	}

	perBlock := make([][]Edge, len(blocks))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range blocks {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			edges := CrossingEdges(blocks[i], link)
			perBlock[i] = append(edges, InnerEdges(blocks[i], link)...)

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g := New()
	for _, edges := range perBlock {
		if err := g.AddEdges(edges); err != nil {
			return nil, err
		}
	}
	g.Freeze()

	return g, nil
}
