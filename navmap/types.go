package navmap

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/portalgrid/portal"
)

// Sentinel errors for map construction and queries.
var (
	// ErrNilGrid indicates New was called with a nil grid.
	ErrNilGrid = errors.New("navmap: grid is nil")

	// ErrOutOfBounds indicates a query coordinate outside the grid.
	ErrOutOfBounds = errors.New("navmap: coordinate out of bounds")

	// ErrBadAgentSize indicates an agent size below 1.
	ErrBadAgentSize = errors.New("navmap: agent size must be >= 1")

	// ErrBadSnapshot indicates a snapshot that does not describe a valid map.
	ErrBadSnapshot = errors.New("navmap: invalid snapshot")

	// ErrOptionViolation indicates an invalid Option value.
	ErrOptionViolation = errors.New("navmap: invalid option supplied")
)

// Option configures New and FromSnapshot.
type Option func(*Options)

// Options holds the preprocessing parameters of a Map.
type Options struct {
	// BlockSize is the block side length; a power of two >= 2.
	BlockSize int

	// Diagonal enables diagonal border portals.
	Diagonal bool

	// Logger receives preprocessing progress. Never nil after DefaultOptions.
	Logger *log.Logger

	// Workers bounds the goroutines linking blocks; 1 is sequential.
	Workers int

	// Ctx cancels preprocessing.
	Ctx context.Context

	err error
}

// DefaultOptions returns 16-cell blocks, straight portals only, one worker,
// a background context and a logger that discards everything.
func DefaultOptions() Options {
	return Options{
		BlockSize: portal.DefaultBlockSize,
		Logger:    log.NewWithOptions(io.Discard, log.Options{}),
		Workers:   1,
		Ctx:       context.Background(),
	}
}

// WithBlockSize sets the block side length. It is validated by New.
func WithBlockSize(n int) Option {
	return func(o *Options) {
		o.BlockSize = n
	}
}

// WithDiagonalPortals extracts diagonal crossings along every block border
// in addition to the straight borders and corners.
func WithDiagonalPortals() Option {
	return func(o *Options) {
		o.Diagonal = true
	}
}

// WithLogger sets the preprocessing logger. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithWorkers sets how many blocks are linked concurrently.
// n < 1 is recorded as ErrOptionViolation.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n < 1 {
			o.err = fmt.Errorf("%w: workers must be >= 1 (got %d)", ErrOptionViolation, n)
			return
		}
		o.Workers = n
	}
}

// WithContext sets a context for cancelling preprocessing. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

func applyOptions(opts []Option) (Options, error) {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, cfg.err
}
