// Package render produces diagnostic views of a portal map: a text display
// of the clearance grid and a Graphviz rendering of the portal graph.
package render

import (
	"bufio"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/portalgrid/grid"
)

// Colors of the clearance display (ANSI 256 palette).
var (
	colorWall      = lipgloss.Color("1")
	colorOpen      = lipgloss.Color("241")
	colorOrigin    = lipgloss.Color("2")
	colorGoal      = lipgloss.Color("3")
	colorClearance = lipgloss.Color("241")
)

// Markers are optional cells highlighted in the display.
type Markers struct {
	Origin, Goal       grid.Coord
	HasOrigin, HasGoal bool
}

// DisplayOptions configures Clearance.
type DisplayOptions struct {
	// BlockSize inserts a gap every BlockSize columns and rows. 0 disables gaps.
	BlockSize int

	// Color styles cells with lipgloss. The writer's terminal decides
	// whether escape sequences are actually emitted.
	Color bool
}

// Clearance writes g as one character per cell: '0' for walls, the
// clearance digit for narrow cells, '.' for saturated cells, 'S' and 'G' for
// the markers. Each row ends with its row number; a column ruler (hundreds
// when wider than 100, tens, ones) follows the grid.
func Clearance(w io.Writer, g *grid.Grid, mk Markers, opts DisplayOptions) error {
	bw := bufio.NewWriter(w)
	st := newStyles(w, opts.Color)
	bs := opts.BlockSize

	for y := 0; y < g.Height(); y++ {
		if bs > 0 && y%bs == 0 && y != 0 {
			bw.WriteByte('\n')
		}
		for x := 0; x < g.Width(); x++ {
			if bs > 0 && x%bs == 0 && x != 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(st.cell(g, grid.XY(x, y), mk))
		}
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(y))
		bw.WriteByte('\n')
	}

	if g.Width() > 100 {
		ruler(bw, g.Width(), bs, func(i int) int { return i / 100 })
	}
	ruler(bw, g.Width(), bs, func(i int) int { return i % 100 / 10 })
	ruler(bw, g.Width(), bs, func(i int) int { return i % 10 })

	return bw.Flush()
}

func ruler(bw *bufio.Writer, width, bs int, digit func(int) int) {
	for x := 0; x < width; x++ {
		if bs > 0 && x%bs == 0 && x != 0 {
			bw.WriteByte(' ')
		}
		bw.WriteByte(byte('0' + digit(x)))
	}
	bw.WriteByte('\n')
}

type styles struct {
	enabled                      bool
	wall, open, origin, goal, cl lipgloss.Style
}

func newStyles(w io.Writer, enabled bool) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		enabled: enabled,
		wall:    r.NewStyle().Foreground(colorWall),
		open:    r.NewStyle().Foreground(colorOpen),
		origin:  r.NewStyle().Foreground(colorOrigin).Bold(true),
		goal:    r.NewStyle().Foreground(colorGoal).Bold(true),
		cl:      r.NewStyle().Foreground(colorClearance),
	}
}

func (s styles) cell(g *grid.Grid, c grid.Coord, mk Markers) string {
	var (
		text  string
		style lipgloss.Style
	)
	switch v := g.Clearance(c); {
	case mk.HasGoal && c == mk.Goal:
		text, style = "G", s.goal
	case mk.HasOrigin && c == mk.Origin:
		text, style = "S", s.origin
	case v == grid.MaxClearance:
		text, style = ".", s.open
	case v == 0:
		text, style = "0", s.wall
	default:
		text, style = strconv.Itoa(v), s.cl
	}
	if !s.enabled {
		return text
	}

	return style.Render(text)
}
