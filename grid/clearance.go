package grid

// ComputeClearance returns, for every cell of a width×height row-major
// passability array, the side length of the largest free square rooted at
// that cell and growing toward +x/+y, capped at MaxClearance.
//
// For a passable cell the square grows from k=1 to MaxClearance-1. At each k
// the far corner (k,k) and the new edge cells (k,j) and (j,k) for j<k are
// checked; the first impassable or out-of-bounds cell stops the growth and k
// is the answer. A square that survives every step saturates at
// MaxClearance. Impassable cells always score 0.
//
// Complexity: O(W·H·MaxClearance²) time, O(W·H) memory.
func ComputeClearance(passable []bool, width, height int) []uint8 {
	out := make([]uint8, len(passable))
	for i := range passable {
		out[i] = uint8(clearanceOf(passable, width, height, i))
	}

	return out
}

// clearanceOf computes the clearance of the single cell at idx.
func clearanceOf(passable []bool, width, height, idx int) int {
	if !passable[idx] {
		return 0
	}
	x, y := idx%width, idx/width

	for k := 1; k < MaxClearance; k++ {
		if x+k >= width || y+k >= height {
			return k
		}
		// far corner
		if !passable[idx+k*width+k] {
			return k
		}
		// new right column and bottom row
		for j := 0; j < k; j++ {
			if !passable[idx+j*width+k] || !passable[idx+k*width+j] {
				return k
			}
		}
	}

	return MaxClearance
}
