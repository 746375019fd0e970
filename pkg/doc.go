// Package pkg provides the core libraries for Lightning infill generation.
//
// # Overview
//
// Lightning grows sparse, tree-shaped infill for sliced 3D models: instead
// of filling the interior with a dense pattern, it plants trees whose
// branches only support the surfaces that actually sit above them. The pkg
// directory is organized into four main areas:
//
//  1. [geom], [locator], [tree] - Geometry primitives, spatial lookup, and
//     the per-layer tree structures
//  2. [slice], [infill] - Stack input and the top-down generation walk
//  3. [render] - SVG previews, graphviz tree diagrams, JSON, and G-code
//  4. [pipeline], [cache], [errors], [observability] - Orchestration and
//     infrastructure around the load, generate, render flow
//
// # Architecture
//
// The typical data flow through Lightning:
//
//	Sliced stack (layer outlines with Z heights)
//	         |
//	    [infill] package (walk layers top-down, carry trees between layers)
//	         |
//	    [tree] package (realign, straighten, prune per layer)
//	         |
//	    [render] package (svg / dot / json / gcode output)
//
// # Quick Start
//
// Generate infill for a stack and render the bottom layer:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/lightning/pkg/infill"
//	    "github.com/matzehuels/lightning/pkg/render"
//	    "github.com/matzehuels/lightning/pkg/slice"
//	)
//
//	// 1. Load the sliced stack
//	stack, _ := slice.ReadFile("model.json")
//
//	// 2. Generate the infill paths
//	gen, _ := infill.NewGenerator(infill.Params{LineWidth: 400})
//	layers, _ := gen.Generate(context.Background(), stack)
//
//	// 3. Render a layer preview
//	svg := render.RenderLayerSVG(layers[0], stack[0].Outlines)
//
// # Main Packages
//
// [geom] holds the integer micrometer coordinate types, polygon outlines,
// and polyline paths shared by every other package.
//
// [tree] implements the layer trees themselves: node attachment, grounding
// memory, propagation to the next layer, straightening, and pruning.
//
// [infill] drives generation, finding unsupported regions on each layer and
// growing or reconnecting trees to cover them.
//
// [pipeline] ties loading, generation, and rendering together behind a
// cache so repeated runs on the same stack are fast.
package pkg
