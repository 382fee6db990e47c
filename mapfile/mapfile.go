// Package mapfile reads text maps.
//
// Format: one grid row per line. The characters '|' and '-' are separators
// and are removed first; lines left empty are skipped. Of the remaining
// characters, '0' is a wall and anything else is passable. 'S' marks the
// origin and 'G' the goal; both are passable. Every row must have the width
// of the first.
//
//	|S..|...|
//	|.0.|..0|
//	---------
//	|...|..G|
package mapfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/katalvlaran/portalgrid/grid"
)

// Sentinel errors for map loading.
var (
	// ErrEmptyMap indicates input without any grid row.
	ErrEmptyMap = errors.New("mapfile: map has no rows")

	// ErrRaggedRow indicates a row whose width differs from the first row.
	ErrRaggedRow = errors.New("mapfile: row width differs from first row")

	// ErrNoOrigin indicates a map without an 'S' cell.
	ErrNoOrigin = errors.New("mapfile: map has no origin (S)")

	// ErrNoGoal indicates a map without a 'G' cell.
	ErrNoGoal = errors.New("mapfile: map has no goal (G)")
)

// Symbols of the text format.
const (
	Wall   = '0'
	Origin = 'S'
	Goal   = 'G'
)

// Scenario is a loaded map plus its optional origin and goal markers.
type Scenario struct {
	Grid      *grid.Grid
	Origin    grid.Coord
	Goal      grid.Coord
	HasOrigin bool
	HasGoal   bool
}

// Endpoints returns the origin and goal, or ErrNoOrigin / ErrNoGoal when the
// map did not mark them.
func (s *Scenario) Endpoints() (origin, goal grid.Coord, err error) {
	if !s.HasOrigin {
		return origin, goal, ErrNoOrigin
	}
	if !s.HasGoal {
		return origin, goal, ErrNoGoal
	}

	return s.Origin, s.Goal, nil
}

// Load parses a text map from r and computes its clearance. When a marker
// appears more than once the last occurrence wins.
func Load(r io.Reader) (*Scenario, error) {
	var (
		s        Scenario
		passable []bool
		width    int
		rows     int
		line     int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), grid.MaxDimension*4)
	for sc.Scan() {
		line++
		row := strings.Map(dropSeparator, strings.TrimRight(sc.Text(), "\r"))
		if row == "" {
			continue
		}
		cells := []rune(row)
		if rows == 0 {
			width = len(cells)
		} else if len(cells) != width {
			return nil, fmt.Errorf("%w: line %d has %d cells, want %d", ErrRaggedRow, line, len(cells), width)
		}
		for x, ch := range cells {
			switch ch {
			case Origin:
				s.Origin, s.HasOrigin = grid.XY(x, rows), true
			case Goal:
				s.Goal, s.HasGoal = grid.XY(x, rows), true
			}
			passable = append(passable, ch != Wall)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mapfile: read line %d: %w", line+1, err)
	}
	if rows == 0 {
		return nil, ErrEmptyMap
	}

	g, err := grid.New(width, rows, passable)
	if err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	s.Grid = g

	return &s, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

func dropSeparator(r rune) rune {
	if r == '|' || r == '-' {
		return -1
	}

	return r
}
