// Package portalgraph assembles and queries the coarse graph of a portal map.
//
// Vertices are portals, identified by their start cell. Two kinds of edges
// exist:
//
//   - Crossing: from each portal to its mirror in the neighboring block,
//     length 1.
//   - Inner: between two portals of the same block when a block-confined
//     path joins their start cells; the length is that path's cost.
//
// Every edge carries a Width, the largest agent size that can follow it:
// the narrowest step for a crossing, the widest block-confined path for an
// inner edge. Both queries can skip edges too narrow for an agent.
//
// Build links blocks in parallel (errgroup, bounded by a worker count) and
// merges their edges in block order, then freezes the Graph. Queries read a
// frozen Graph without locking contention:
//
//   - Reachable: stack-based DFS from a set of origin portals to a set of goal
//     portals (reachability plus a witness trail).
//   - Route: cost-aware best-first search over the same edges, reusing the
//     generic search engine with edge lengths as step costs.
//
// Outgoing edges are looked up through an index keyed by start cell, so a
// traversal step costs O(out-degree) instead of a scan of the edge list.
package portalgraph
