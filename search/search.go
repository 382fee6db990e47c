// Package search implements a generic best-first (A*-style) search engine
// driven by a domain Policy.
//
// The same engine serves every granularity of a portal-graph map: cells
// inside one block, and portals across the coarse graph. Each use case
// supplies a small Policy value; the engine owns the open/closed bookkeeping.
//
// Algorithm:
//
//  1. Any impassable start element rejects the search immediately (not found).
//  2. Every start is opened with g=0, f=Estimate(start).
//  3. The open element with the lowest f is removed (ties: insertion order).
//     If it satisfies Finished, the search succeeds with Cost = its g.
//  4. Otherwise it is closed; each passable, not-yet-closed neighbor is either
//     opened with g = parent.g + step, f = g + Estimate, or, when already open
//     with a worse f, improved in place (decrease-key via heap.Fix).
//  5. An exhausted open set reports not found.
//
// Complexity:
//
//   - Time:   O(E log V) heap operations for V opened elements and E enumerated neighbors.
//   - Memory: O(V) for the open heap, closed set and predecessor map.
package search

import (
	"container/heap"
)

// Search runs a best-first search described by p.
// It returns a Result whose Found field carries the outcome; a negative
// outcome is not an error. Errors are reserved for a nil policy, invalid
// options and context cancellation.
func Search[E any, H comparable](p Policy[E, H], opts ...Option) (Result[E], error) {
	var res Result[E]

	// 1) Validate inputs and apply options.
	if p == nil {
		return res, ErrNilPolicy
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.err != nil {
		return res, cfg.err
	}

	r := &runner[E, H]{
		policy: p,
		opts:   cfg,
		open:   make(map[H]*item[E, H]),
		closed: make(map[H]struct{}),
		from:   make(map[H]H),
	}
	if c, ok := p.(Coster[E]); ok {
		r.coster = c
	}
	if cfg.ReturnPath {
		r.elems = make(map[H]E)
	}

	// 2) Seed the open set; a single impassable start fails the whole search.
	for _, s := range p.Starts() {
		if !p.Passable(s) {
			return res, nil
		}
		h := p.Hash(s)
		if _, dup := r.open[h]; dup {
			continue
		}
		r.push(s, h, 0, p.Estimate(s))
	}

	// 3) Expand.
	return r.run()
}

// runner holds the mutable state of a single Search execution.
type runner[E any, H comparable] struct {
	policy Policy[E, H]
	coster Coster[E]
	opts   Options

	pq     openQueue[E, H]
	open   map[H]*item[E, H] // open membership, for decrease-key
	closed map[H]struct{}
	from   map[H]H // child → parent it was most recently reached from
	elems  map[H]E // only with ReturnPath
	seq    int
}

func (r *runner[E, H]) run() (Result[E], error) {
	var res Result[E]
	p := r.policy

	for r.pq.Len() > 0 {
		if err := r.opts.Ctx.Err(); err != nil {
			return res, err
		}

		it := heap.Pop(&r.pq).(*item[E, H])
		delete(r.open, it.hash)

		if p.Finished(it.elem) {
			res.Found = true
			res.Goal = it.elem
			res.Cost = it.g
			if r.opts.ReturnPath {
				res.Path = r.trace(it.hash)
			}

			return res, nil
		}

		r.closed[it.hash] = struct{}{}
		res.Expanded++
		if r.opts.OnExpand != nil {
			r.opts.OnExpand(it.g, it.f)
		}
		if r.opts.MaxExpansions > 0 && res.Expanded >= r.opts.MaxExpansions {
			return res, nil
		}

		for _, n := range p.Neighbors(it.elem) {
			h := p.Hash(n)
			if _, done := r.closed[h]; done {
				continue
			}
			if !p.Passable(n) {
				continue
			}

			g := it.g + r.step(it.elem, n)
			f := g + p.Estimate(n)

			if cur, ok := r.open[h]; ok {
				if cur.f > f {
					cur.elem, cur.g, cur.f = n, g, f
					r.from[h] = it.hash
					if r.elems != nil {
						r.elems[h] = n
					}
					heap.Fix(&r.pq, cur.index)
				}
				continue
			}

			r.from[h] = it.hash
			r.push(n, h, g, f)
		}
	}

	return res, nil
}

// step returns the cost of moving from a to b.
func (r *runner[E, H]) step(a, b E) int {
	if r.coster == nil {
		return 1
	}
	return r.coster.Cost(a, b)
}

func (r *runner[E, H]) push(e E, h H, g, f int) {
	it := &item[E, H]{elem: e, hash: h, g: g, f: f, seq: r.seq}
	r.seq++
	r.open[h] = it
	if r.elems != nil {
		r.elems[h] = e
	}
	heap.Push(&r.pq, it)
}

// trace walks the predecessor chain from the goal back to its start and
// returns it in start→goal order.
func (r *runner[E, H]) trace(goal H) []E {
	var path []E
	for h, ok := goal, true; ok; h, ok = r.from[h] {
		path = append(path, r.elems[h])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// item is one open element with its scores and heap position.
type item[E any, H comparable] struct {
	elem  E
	hash  H
	g, f  int
	seq   int
	index int
}

// openQueue is a min-heap of open items ordered by f, then insertion order.
type openQueue[E any, H comparable] []*item[E, H]

func (q openQueue[E, H]) Len() int { return len(q) }

func (q openQueue[E, H]) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].seq < q[j].seq
}

func (q openQueue[E, H]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue[E, H]) Push(x any) {
	it := x.(*item[E, H])
	it.index = len(*q)
	*q = append(*q, it)
}

func (q *openQueue[E, H]) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*q = old[:n-1]

	return it
}
