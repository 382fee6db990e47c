// Package navmap is the query layer of a hierarchical grid map.
//
// New runs preprocessing once:
//
//  1. The grid is partitioned into square blocks (portal.Layout).
//  2. Portals are extracted along every block border and corner, then
//     simplified (sorted, deduplicated); the count before and after is
//     logged at Debug level.
//  3. The portal graph is built: a crossing edge per portal, and an inner
//     edge for every pair of portals of a block joined by a block-confined
//     search. Blocks may be linked concurrently (WithWorkers).
//  4. Passable cells are labelled by connected region.
//
// Diagonal steps may cut wall corners only when diagonal portals are
// extracted; otherwise a border crossed by a corner squeeze would have no
// portal. Every edge records the widest agent that can follow it, so sized
// queries never pass a point narrower than the agent.
//
// The resulting Map is immutable. Queries:
//
//   - LinkPositionAndPortals: which portals of its own block a point can reach
//     for a given agent size.
//   - PortalPathfind: whether any goal portal is reachable from any origin
//     portal over the portal graph.
//   - BlockPathfind: a cell path between two points of the same block.
//   - Connected: point-to-point reachability combining the above; points of
//     different regions are rejected first.
//   - PortalPathfindFor: PortalPathfind for an agent of a given size.
//   - PortalRoute: cheapest chain of portals, summing edge lengths.
//
// Negative answers (no path, no reachable portal) are ordinary results, not
// errors. Errors report invalid arguments: points outside the grid or an
// agent size below 1.
//
// A Map can be captured with Snapshot and restored with FromSnapshot without
// running preprocessing again.
package navmap
