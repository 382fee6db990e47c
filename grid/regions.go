package grid

// NoRegion labels impassable cells in the result of Regions.
const NoRegion int32 = -1

// Regions labels the regions of passable cells connected by the steps moves
// allows. labels[i] is the region of the cell at row-major index i, or
// NoRegion for walls; regions are numbered 0..count-1 in row-major order of
// their first cell. Two cells with different labels are unreachable from
// each other for any agent size.
//
// Time:   O(W·H·8).
// Memory: O(W·H) for labels and the queue.
func Regions(g *Grid, moves Moves) (labels []int32, count int) {
	labels = make([]int32, len(g.cells))
	for i := range labels {
		labels[i] = NoRegion
	}

	queue := make([]int, 0, 64)
	for i0, v := range g.cells {
		if v == 0 || labels[i0] != NoRegion {
			continue
		}
		id := int32(count)
		count++

		// BFS flood from i0
		labels[i0] = id
		queue = append(queue[:0], i0)
		for qi := 0; qi < len(queue); qi++ {
			c := FromIndex(queue[qi], g.width)
			for _, d := range Compass {
				if g.StepWidth(c, d, moves) == 0 {
					continue
				}
				n, _ := c.Step(d)
				ni := n.Index(g.width)
				if labels[ni] != NoRegion {
					continue
				}
				labels[ni] = id
				queue = append(queue, ni)
			}
		}
	}

	return labels, count
}
