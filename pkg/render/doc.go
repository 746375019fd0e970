// Package render turns generated infill layers into output artifacts.
//
// # Overview
//
// This package contains the rendering backends that transform the
// output of the infill generator into files:
//
//   - SVG layer previews ([RenderLayerSVG])
//   - Graphviz node-link diagrams of the trees ([ToDOT], [RenderDOTSVG])
//   - Printable G-code ([RenderGcode])
//
// # Layer Previews
//
// [RenderLayerSVG] draws one layer: the region outlines plus the infill
// polylines, optionally overlaid with the tree structure they were
// assembled from.
//
//	svg := render.RenderLayerSVG(layer, outlines, render.WithTrees())
//
// # Tree Diagrams
//
// [ToDOT] emits the forest of one layer as a Graphviz digraph and
// [RenderDOTSVG] rasterizes it. These are debugging aids; the printed
// output never goes through Graphviz.
//
// # G-code
//
// [RenderGcode] emits the whole stack as printable G-code with relative
// extrusion. It covers the infill paths only; walls and surfaces come
// from a full slicer.
package render
