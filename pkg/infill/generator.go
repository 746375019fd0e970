package infill

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/locator"
	"github.com/matzehuels/lightning/pkg/observability"
	"github.com/matzehuels/lightning/pkg/slice"
	"github.com/matzehuels/lightning/pkg/tree"
)

// LayerResult is the printable output for one layer of the stack.
type LayerResult struct {
	// Z is the layer's height, copied from the input stack.
	Z geom.Coord `json:"z"`

	// Lines are the infill paths to print on this layer.
	Lines []geom.Polyline `json:"lines"`

	// Trees is the forest the lines were generated from. Kept for
	// debug rendering; printing only needs Lines.
	Trees []*tree.Node `json:"-"`
}

// Generator runs lightning infill generation over a whole slice stack.
type Generator struct {
	Params Params
	Logger *log.Logger
}

// NewGenerator returns a generator with validated params and a logger
// that discards output unless replaced.
func NewGenerator(params Params) (*Generator, error) {
	if err := params.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Generator{
		Params: params,
		Logger: log.New(io.Discard),
	}, nil
}

// Generate walks the stack from the top layer down, growing the forest
// on each layer and carrying it to the layer below. Results are indexed
// like the stack (bottom-up). The walk checks ctx between layers.
//
// Trees on a layer never share nodes, so the carry-down step propagates
// them in parallel.
func (g *Generator) Generate(ctx context.Context, stack slice.Stack) ([]LayerResult, error) {
	if err := stack.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, len(stack))

	results := make([]LayerResult, len(stack))
	current := &Layer{}
	nodeTotal := 0

	for i := len(stack) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			observability.Pipeline().OnGenerateComplete(ctx, len(stack), nodeTotal, time.Since(start), err)
			return nil, err
		}

		layer := stack[i]
		if layer.Outlines.Empty() {
			// Nothing to support here and nothing to carry further down.
			current = &Layer{}
			results[i] = LayerResult{Z: layer.Z}
			observability.Pipeline().OnLayerComplete(ctx, i, 0, 0)
			continue
		}

		grid := locator.New(layer.Outlines, locator.DefaultCellSize)
		current.ReconnectRoots(grid, g.Params)
		current.Fill(layer.Outlines, grid, g.Params)

		lines := current.Polylines(g.Params.LineWidth)
		results[i] = LayerResult{Z: layer.Z, Lines: lines, Trees: current.Trees}
		nodeTotal += current.NodeCount()

		g.Logger.Debug("layer generated",
			"index", i,
			"z", layer.Z,
			"trees", len(current.Trees),
			"lines", len(lines))
		observability.Pipeline().OnLayerComplete(ctx, i, len(current.Trees), len(lines))

		if i == 0 {
			break
		}
		current = g.carryDown(current, stack[i-1])
	}

	observability.Pipeline().OnGenerateComplete(ctx, len(stack), nodeTotal, time.Since(start), nil)
	return results, nil
}

// carryDown propagates every tree of the current layer onto the layer
// below, one goroutine per tree. Each tree writes into its own slot to
// keep the resulting forest order deterministic.
func (g *Generator) carryDown(current *Layer, below slice.Layer) *Layer {
	if below.Outlines.Empty() {
		return &Layer{}
	}

	grid := locator.New(below.Outlines, locator.DefaultCellSize)
	params := g.Params.propagateParams()

	slots := make([][]*tree.Node, len(current.Trees))
	var wg sync.WaitGroup
	for i, t := range current.Trees {
		wg.Add(1)
		go func(i int, t *tree.Node) {
			defer wg.Done()
			slots[i] = t.PropagateToNextLayer(nil, below.Outlines, grid, params)
		}(i, t)
	}
	wg.Wait()

	next := &Layer{}
	for _, part := range slots {
		next.Trees = append(next.Trees, part...)
	}
	return next
}
