// Package search defines the domain policy contract, options, results and
// sentinel errors for the generic best-first search engine.
package search

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors returned by Search.
var (
	// ErrNilPolicy indicates that a nil Policy was passed to Search.
	ErrNilPolicy = errors.New("search: policy is nil")

	// ErrOptionViolation indicates an invalid Option value (e.g. a negative
	// expansion limit). The concrete violation is wrapped with context.
	ErrOptionViolation = errors.New("search: invalid option supplied")
)

// Policy adapts a concrete domain to the search engine. E is the element
// being searched over (a cell, a portal, ...) and H is the key used for
// open/closed membership and predecessor bookkeeping.
//
// Estimate must never overestimate the remaining cost to the goal, otherwise
// the reported cost is not guaranteed to be minimal.
type Policy[E any, H comparable] interface {
	// Starts returns the start elements; each begins with g=0.
	Starts() []E
	// Hash returns the membership key of e.
	Hash(e E) H
	// Finished reports whether e satisfies the goal.
	Finished(e E) bool
	// Estimate returns the heuristic remaining cost from e to the goal.
	Estimate(e E) int
	// Neighbors enumerates the elements reachable from e in one step.
	Neighbors(e E) []E
	// Passable reports whether e may be entered at all.
	Passable(e E) bool
}

// Coster is an optional Policy extension. When implemented, Cost replaces
// the unit step cost between adjacent elements. Costs must be non-negative.
type Coster[E any] interface {
	Cost(from, to E) int
}

// Option configures Search via functional arguments.
type Option func(*Options)

// Options holds the tunables of a single Search call.
type Options struct {
	// Ctx allows cancellation; checked once per expansion.
	Ctx context.Context

	// ReturnPath, when true, fills Result.Path from the predecessor map.
	ReturnPath bool

	// MaxExpansions, if > 0, stops the search as not-found after that many
	// elements were closed. 0 means no limit.
	MaxExpansions int

	// OnExpand, if non-nil, is called for every element as it is closed.
	OnExpand func(g, f int)

	err error
}

// DefaultOptions returns Options with a background context, no path
// reconstruction and no expansion limit.
func DefaultOptions() Options {
	return Options{
		Ctx:           context.Background(),
		ReturnPath:    false,
		MaxExpansions: 0,
	}
}

// WithContext sets a context for cancellation. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithReturnPath enables path reconstruction into Result.Path.
func WithReturnPath() Option {
	return func(o *Options) {
		o.ReturnPath = true
	}
}

// WithMaxExpansions caps the number of closed elements.
//
//	n > 0:  limit to n expansions
//	n == 0: no limit
//	n < 0:  ErrOptionViolation
func WithMaxExpansions(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxExpansions cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxExpansions = n
	}
}

// WithOnExpand installs a hook called with the g/f scores of each closed element.
func WithOnExpand(fn func(g, f int)) Option {
	return func(o *Options) {
		o.OnExpand = fn
	}
}

// Result is the outcome of one Search.
type Result[E any] struct {
	// Found reports whether a goal element was reached.
	Found bool

	// Goal is the goal element reached (zero value when !Found).
	Goal E

	// Cost is the g-score of Goal: accumulated step cost from its start.
	Cost int

	// Path lists the elements from a start to Goal inclusive. Filled only
	// when WithReturnPath is set and Found is true.
	Path []E

	// Expanded counts the elements closed during the search.
	Expanded int
}
