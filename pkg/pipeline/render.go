package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/infill"
	"github.com/matzehuels/lightning/pkg/render"
	"github.com/matzehuels/lightning/pkg/slice"
)

// renderFormats renders every requested format.
func renderFormats(ctx context.Context, stack slice.Stack, layers []infill.LayerResult, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, stack, layers, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		out[format] = data
	}
	return out, nil
}

func renderFormat(ctx context.Context, stack slice.Stack, layers []infill.LayerResult, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		idx, err := opts.PreviewLayer(len(layers))
		if err != nil {
			return nil, err
		}
		params := opts.InfillParams()
		_ = params.ValidateAndSetDefaults()
		svgOpts := []render.SVGOption{
			render.WithWidth(opts.Width),
			render.WithLineWidth(params.LineWidth),
		}
		if opts.ShowTrees {
			svgOpts = append(svgOpts, render.WithTrees())
		}
		var outlines geom.Outlines
		if idx < len(stack) {
			outlines = stack[idx].Outlines
		}
		return render.RenderLayerSVG(layers[idx], outlines, svgOpts...), nil

	case FormatDOT:
		idx, err := opts.PreviewLayer(len(layers))
		if err != nil {
			return nil, err
		}
		dot := render.ToDOT(layers[idx].Trees, render.DOTOptions{Detailed: opts.ShowTrees})
		return []byte(dot), nil

	case FormatJSON:
		return json.MarshalIndent(layers, "", "  ")

	case FormatGcode:
		return render.RenderGcode(layers, render.GcodeOptions{
			LayerHeight:      opts.LayerHeight,
			ExtrusionWidth:   opts.ExtrusionWidth,
			FilamentDiameter: opts.FilamentDiameter,
			PrintSpeed:       opts.PrintSpeed,
			TravelSpeed:      opts.TravelSpeed,
		})

	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}
