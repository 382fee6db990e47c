// Package grid models the fine level of a portal-graph map: a rectangular
// array of cells, each holding a clearance value.
//
// What:
//
//   - Coord: a 4-component (x, y, z, w) position; only x/y drive 2D logic.
//   - Direction: the eight compass directions plus Center, Up, Down and None,
//     each with a fixed (dx, dy) Offset and an Inverse.
//   - Grid: immutable clearance values computed once from passability flags.
//   - Moves: whether diagonal steps may cut wall corners; StepWidth gives
//     the widest agent a single step admits under it.
//   - Regions: labels of passable cells connected under a corner rule.
//
// Clearance:
//
//	The clearance of a passable cell is the side of the largest free square
//	rooted at the cell (growing toward +x/+y), capped at MaxClearance.
//	Impassable cells have clearance 0. A cell of clearance k can host any
//	agent whose footprint side is ≤ k.
//
// Complexity:
//
//   - New / FromRows: O(W×H×MaxClearance²) time, O(W×H) memory.
//   - Clearance / Walkable: O(1).
//   - Regions: O(W×H) BFS flood fill.
//
// Errors:
//
//   - ErrEmptyGrid:      zero width or height.
//   - ErrNonRectangular: rows of differing lengths.
//   - ErrSizeMismatch:   flat slice length differs from width*height.
//   - ErrTooLarge:       a dimension does not fit a 16-bit coordinate.
package grid
