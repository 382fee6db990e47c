// Package portal decomposes a clearance grid into fixed-size square blocks
// and extracts the portals along each block's borders and corners.
//
// What:
//
//   - Layout: the block grid (ceiling division, so partial edge blocks exist).
//   - Extract: scans the four straight borders (N, W, S, E) and the four
//     corner cells (NW, NE, SW, SE) of one block. With WithDiagonal it also
//     scans each border in its two diagonal directions.
//   - Simplify: sorts a block's portals by the linear index of their start and
//     removes exact duplicates (same start, direction, size).
//   - Decompose: Extract + Simplify for every block, with an OnSimplify hook.
//
// Invariants:
//
//   - Portal.Passability ≤ clearance of every cell of the run and of every
//     matching cell across the boundary.
//   - Every qualifying border cell belongs to exactly one portal per scan
//     direction after Simplify.
//
// Complexity:
//
//   - Decompose: O(W×H / BlockSize) cells scanned, O(P log P) per block to sort.
package portal
