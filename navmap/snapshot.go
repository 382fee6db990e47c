package navmap

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
	"github.com/katalvlaran/portalgrid/portalgraph"
)

// Snapshot is the serialized form of a preprocessed Map: grid dimensions,
// the flat clearance array, the block table and the flat edge list.
type Snapshot struct {
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	BlockSize int                `json:"block_size"`
	Diagonal  bool               `json:"diagonal"`
	Clearance []uint8            `json:"clearance"`
	Blocks    []portal.Block     `json:"blocks"`
	Edges     []portalgraph.Edge `json:"edges"`
}

// Snapshot captures m. The result shares nothing with m.
func (m *Map) Snapshot() Snapshot {
	return Snapshot{
		Width:     m.grid.Width(),
		Height:    m.grid.Height(),
		BlockSize: m.layout.BlockSize,
		Diagonal:  m.diagonal,
		Clearance: m.grid.Clearances(),
		Blocks:    m.Blocks(),
		Edges:     m.graph.Edges(),
	}
}

// FromSnapshot restores a Map without re-running preprocessing. Only the
// logger option is relevant; structural options come from s.
func FromSnapshot(s Snapshot, opts ...Option) (*Map, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	g, err := grid.FromClearance(s.Width, s.Height, s.Clearance)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	layout, err := portal.NewLayout(s.Width, s.Height, s.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if len(s.Blocks) != layout.Count() {
		return nil, fmt.Errorf("%w: %d blocks, layout needs %d", ErrBadSnapshot, len(s.Blocks), layout.Count())
	}
	blocks := make([]portal.Block, len(s.Blocks))
	for i, b := range s.Blocks {
		if b.Index != i || b.Origin != layout.Origin(i) {
			return nil, fmt.Errorf("%w: block %d out of place", ErrBadSnapshot, i)
		}
		for _, p := range b.Portals {
			if !g.Contains(p.Start) {
				return nil, fmt.Errorf("%w: portal %s outside the grid", ErrBadSnapshot, p)
			}
		}
		blocks[i] = cloneBlock(b)
	}

	for _, e := range s.Edges {
		if e.Width < 1 {
			return nil, fmt.Errorf("%w: edge %s -> %s has width %d", ErrBadSnapshot, e.From, e.To, e.Width)
		}
	}
	pg := portalgraph.New()
	if err = pg.AddEdges(s.Edges); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	pg.Freeze()

	cfg.Logger.Info("restored map", "blocks", len(blocks), "edges", pg.Len())

	m := &Map{
		grid:     g,
		layout:   layout,
		blocks:   blocks,
		graph:    pg,
		diagonal: s.Diagonal,
	}
	m.regions, _ = grid.Regions(g, m.moves())

	return m, nil
}

// Encode writes s as indented JSON.
func (s Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// DecodeSnapshot reads a snapshot written by Encode.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}

	return s, nil
}
