// Package portalgraph defines the coarse portal graph: edges between portals,
// their kinds, traversal options and sentinel errors.
package portalgraph

import (
	"context"
	"errors"

	"github.com/katalvlaran/portalgrid/portal"
)

// Sentinel errors for portal graph operations.
var (
	// ErrFrozen indicates an edge was added after Freeze.
	ErrFrozen = errors.New("portalgraph: graph is frozen")

	// ErrNilGraph indicates a nil *Graph was passed to a traversal.
	ErrNilGraph = errors.New("portalgraph: graph is nil")

	// ErrNilLinker indicates Build was called without a Linker.
	ErrNilLinker = errors.New("portalgraph: linker is nil")
)

// Kind distinguishes the two sources of edges.
type Kind uint8

const (
	// Crossing is the single step from a portal to its mirror in the
	// neighboring block.
	Crossing Kind = iota
	// Inner connects two portals of the same block through its interior.
	Inner
)

// String returns "crossing" or "inner".
func (k Kind) String() string {
	if k == Inner {
		return "inner"
	}

	return "crossing"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind written by MarshalText.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "crossing":
		*k = Crossing
	case "inner":
		*k = Inner
	default:
		return errors.New("portalgraph: unknown edge kind " + string(b))
	}

	return nil
}

// Edge is a directed relation From→To with a length in cells. Width is the
// largest agent size that can follow it.
type Edge struct {
	From   portal.Portal `json:"from"`
	To     portal.Portal `json:"to"`
	Length int           `json:"length"`
	Width  int           `json:"width"`
	Kind   Kind          `json:"kind"`
}

// Fits reports whether an agent of the given size can follow e.
// Sizes below 1 accept every edge.
func (e Edge) Fits(size int) bool {
	return size < 1 || e.Width >= size
}

// Option configures Reachable.
type Option func(*Options)

// Options holds traversal parameters for Reachable.
type Options struct {
	// Ctx allows cancellation; checked once per popped portal.
	Ctx context.Context

	// OnVisit, if non-nil, is called when a portal is first marked visited.
	// Returning an error aborts the traversal with that error.
	OnVisit func(p portal.Portal) error

	// Size skips edges narrower than the agent; 0 follows every edge.
	Size int
}

// DefaultOptions returns a background context, no hook and no size filter.
func DefaultOptions() Options {
	return Options{Ctx: context.Background()}
}

// WithContext sets a context for cancellation. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit installs the visit hook.
func WithOnVisit(fn func(p portal.Portal) error) Option {
	return func(o *Options) {
		o.OnVisit = fn
	}
}

// WithAgentSize restricts the traversal to edges an agent of size n fits.
func WithAgentSize(n int) Option {
	return func(o *Options) {
		o.Size = n
	}
}

// Result is the outcome of Reachable.
type Result struct {
	// Found reports whether any goal portal was reached.
	Found bool

	// Goal is the goal portal reached first.
	Goal portal.Portal

	// Trail lists the portals from an origin to Goal, following graph edges.
	Trail []portal.Portal

	// Visited counts the portals marked visited.
	Visited int
}
