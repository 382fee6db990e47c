package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/katalvlaran/portalgrid/grid"
	"github.com/katalvlaran/portalgrid/portal"
	"github.com/katalvlaran/portalgrid/portalgraph"
)

// GraphDOT converts a portal graph to Graphviz DOT. Portals are grouped into
// one cluster per block of layout; crossing edges are dashed and inner edges
// are labelled with their length.
func GraphDOT(g *portalgraph.Graph, layout portal.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph portals {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10];\n")
	buf.WriteString("  edge [fontsize=8];\n")

	byBlock := make(map[int][]portal.Portal)
	var order []int
	for _, p := range g.Portals() {
		bi := layout.BlockIndex(p.Start)
		if _, ok := byBlock[bi]; !ok {
			order = append(order, bi)
		}
		byBlock[bi] = append(byBlock[bi], p)
	}
	for _, bi := range order {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", bi)
		fmt.Fprintf(&buf, "    label=\"block %d\";\n", bi)
		for _, p := range byBlock[bi] {
			fmt.Fprintf(&buf, "    %q [label=%q];\n", nodeID(p.Start), p.String())
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if e.Kind == portalgraph.Crossing {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", nodeID(e.From.Start), nodeID(e.To.Start))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", nodeID(e.From.Start), nodeID(e.To.Start), e.Length)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(c grid.Coord) string {
	return fmt.Sprintf("%d_%d", c.X, c.Y)
}

// SVG renders DOT source to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
