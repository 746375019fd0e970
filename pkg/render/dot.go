package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lightning/pkg/tree"
)

// DOTOptions configures node-link diagram rendering.
type DOTOptions struct {
	// Detailed includes node coordinates and grounding locations in
	// labels. When false, only the node index is shown.
	Detailed bool
}

// ToDOT converts a layer's forest to Graphviz DOT format. Each tree gets
// its own node namespace; roots are rendered with a double outline. The
// resulting DOT string can be rendered using [RenderDOTSVG].
func ToDOT(trees []*tree.Node, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for ti, t := range trees {
		ids := make(map[*tree.Node]string)
		idx := 0
		t.VisitNodes(func(n *tree.Node) {
			id := fmt.Sprintf("t%dn%d", ti, idx)
			ids[n] = id
			fmt.Fprintf(&buf, "  %q [%s];\n", id, fmtNodeAttrs(n, idx, opts.Detailed))
			idx++
		})
		t.VisitNodes(func(n *tree.Node) {
			for _, c := range n.Children() {
				fmt.Fprintf(&buf, "  %q -> %q;\n", ids[n], ids[c])
			}
		})
		buf.WriteString("\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtNodeAttrs(n *tree.Node, idx int, detailed bool) string {
	label := strconv.Itoa(idx)
	if detailed {
		loc := n.Location()
		label = fmt.Sprintf("%d\n(%d, %d)", idx, loc.X, loc.Y)
		if g, ok := n.GroundingLocation(); ok {
			label += fmt.Sprintf("\ngrounded (%d, %d)", g.X, g.Y)
		}
	}
	attrs := fmt.Sprintf("label=%q", label)
	if n.IsRoot() {
		attrs += `, peripheries=2, fillcolor=lightgrey`
	}
	return attrs
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
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
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz viewBox so the drawing starts
// at the origin and the svg tag carries explicit dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
