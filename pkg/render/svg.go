package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/infill"
	"github.com/matzehuels/lightning/pkg/tree"
)

// SVGOption configures layer preview rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width     int
	showTrees bool
	lineWidth geom.Coord
}

// WithWidth sets the pixel width of the rendered preview.
func WithWidth(px int) SVGOption { return func(r *svgRenderer) { r.width = px } }

// WithTrees overlays the tree structure the lines were assembled from.
func WithTrees() SVGOption { return func(r *svgRenderer) { r.showTrees = true } }

// WithLineWidth draws the infill lines at their physical width instead
// of a hairline.
func WithLineWidth(w geom.Coord) SVGOption { return func(r *svgRenderer) { r.lineWidth = w } }

const defaultPreviewWidth = 800

// RenderLayerSVG draws one layer as an SVG preview: the region outline
// plus the layer's infill polylines. Input coordinates are micrometers;
// the drawing is scaled to the requested pixel width.
func RenderLayerSVG(layer infill.LayerResult, outlines geom.Outlines, opts ...SVGOption) []byte {
	r := svgRenderer{width: defaultPreviewWidth}
	for _, opt := range opts {
		opt(&r)
	}

	min, max, ok := outlines.Bounds()
	if !ok {
		min, max = geom.Point{}, geom.Point{X: 1, Y: 1}
	}
	span := max.Sub(min)
	if span.X == 0 {
		span.X = 1
	}
	if span.Y == 0 {
		span.Y = 1
	}

	const margin = 10.0
	scale := (float64(r.width) - 2*margin) / float64(span.X)
	height := float64(span.Y)*scale + 2*margin

	// SVG y grows downward; model y grows upward.
	px := func(p geom.Point) (float64, float64) {
		return margin + float64(p.X-min.X)*scale, margin + float64(max.Y-p.Y)*scale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %.1f" width="%d" height="%.0f">`+"\n",
		r.width, height, r.width, height)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill="white"/>`+"\n")

	for _, poly := range outlines {
		if len(poly) < 3 {
			continue
		}
		buf.WriteString(`<polygon points="`)
		writePoints(&buf, poly, px)
		buf.WriteString(`" fill="none" stroke="#333" stroke-width="1.5"/>` + "\n")
	}

	stroke := 1.0
	if r.lineWidth > 0 {
		stroke = float64(r.lineWidth) * scale
	}
	for _, line := range layer.Lines {
		if len(line) < 2 {
			continue
		}
		buf.WriteString(`<polyline points="`)
		writePoints(&buf, line, px)
		fmt.Fprintf(&buf, `" fill="none" stroke="#1f77b4" stroke-width="%.2f" stroke-linecap="round"/>`+"\n", stroke)
	}

	if r.showTrees {
		for _, t := range layer.Trees {
			t.VisitBranches(func(parent, child geom.Point) {
				x1, y1 := px(parent)
				x2, y2 := px(child)
				fmt.Fprintf(&buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d62728" stroke-width="0.6" stroke-dasharray="3,2"/>`+"\n",
					x1, y1, x2, y2)
			})
			renderTreeMarkers(&buf, t, px)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderTreeMarkers draws a dot per node, with the root emphasized.
func renderTreeMarkers(buf *bytes.Buffer, t *tree.Node, px func(geom.Point) (float64, float64)) {
	t.VisitNodes(func(n *tree.Node) {
		x, y := px(n.Location())
		radius, fill := 1.2, "#d62728"
		if n.IsRoot() {
			radius, fill = 2.5, "#2ca02c"
		}
		fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", x, y, radius, fill)
	})
}

func writePoints(buf *bytes.Buffer, pts []geom.Point, px func(geom.Point) (float64, float64)) {
	for i, p := range pts {
		if i > 0 {
			buf.WriteByte(' ')
		}
		x, y := px(p)
		fmt.Fprintf(buf, "%.1f,%.1f", x, y)
	}
}
