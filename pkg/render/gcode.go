package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/infill"
)

// GcodeOptions configures G-code output. All lengths are millimeters.
type GcodeOptions struct {
	// LayerHeight is the printed layer height. When zero it is derived
	// from the z spacing of the first two layers.
	LayerHeight float64

	// ExtrusionWidth is the width of an extruded line.
	ExtrusionWidth float64

	// FilamentDiameter is the filament diameter, typically 1.75.
	FilamentDiameter float64

	// PrintSpeed is the extrusion move speed in mm/s.
	PrintSpeed float64

	// TravelSpeed is the non-extruding move speed in mm/s.
	TravelSpeed float64
}

// ValidateAndSetDefaults fills unset fields with common FDM defaults.
func (o *GcodeOptions) ValidateAndSetDefaults() error {
	if o.ExtrusionWidth <= 0 {
		o.ExtrusionWidth = 0.4
	}
	if o.FilamentDiameter <= 0 {
		o.FilamentDiameter = 1.75
	}
	if o.PrintSpeed <= 0 {
		o.PrintSpeed = 40
	}
	if o.TravelSpeed <= 0 {
		o.TravelSpeed = 120
	}
	return nil
}

// RenderGcode emits the generated layers as G-code using relative
// extrusion (M83). Only the infill paths are covered; the output is
// meant to be inspected or merged, not printed standalone.
func RenderGcode(results []infill.LayerResult, opts GcodeOptions) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	layerHeight := opts.LayerHeight
	if layerHeight <= 0 {
		layerHeight = deriveLayerHeight(results)
	}

	// Volume conservation: extruded line cross-section over filament
	// cross-section.
	ePerMM := layerHeight * opts.ExtrusionWidth / (math.Pi * math.Pow(opts.FilamentDiameter/2, 2))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "; lightning infill paths\n")
	fmt.Fprintf(&buf, "; layers: %d\n", len(results))
	fmt.Fprintf(&buf, "; layerHeight: %.3f\n", layerHeight)
	fmt.Fprintf(&buf, "; extrusionWidth: %.3f\n", opts.ExtrusionWidth)
	fmt.Fprintf(&buf, "; extrusionPerLinearMM: %f\n", ePerMM)
	buf.WriteString("G21 ; set units to millimeters\n")
	buf.WriteString("G90 ; use absolute coordinates\n")
	buf.WriteString("M83 ; set relative extrusion\n")

	for i, layer := range results {
		fmt.Fprintf(&buf, "; layer %d z=%.3f\n", i, mm(layer.Z))
		for _, line := range layer.Lines {
			if len(line) < 2 {
				continue
			}
			start := line[0]
			fmt.Fprintf(&buf, "G0 X%.3f Y%.3f Z%.3f F%.0f\n",
				mm(start.X), mm(start.Y), mm(layer.Z), opts.TravelSpeed*60)
			prev := start
			for _, p := range line[1:] {
				e := dist(prev, p) * ePerMM
				fmt.Fprintf(&buf, "G1 X%.3f Y%.3f E%.5f F%.0f\n",
					mm(p.X), mm(p.Y), e, opts.PrintSpeed*60)
				prev = p
			}
		}
	}

	buf.WriteString("M82 ; set absolute extrusion\n")
	return buf.Bytes(), nil
}

// deriveLayerHeight infers the layer height from the z spacing, falling
// back to 0.2 for single-layer stacks.
func deriveLayerHeight(results []infill.LayerResult) float64 {
	if len(results) >= 2 {
		if h := mm(results[1].Z - results[0].Z); h > 0 {
			return h
		}
	}
	return 0.2
}

// mm converts micrometer coordinates to millimeters.
func mm(c geom.Coord) float64 { return float64(c) / 1000.0 }

func dist(a, b geom.Point) float64 {
	dx := mm(b.X - a.X)
	dy := mm(b.Y - a.Y)
	return math.Hypot(dx, dy)
}
