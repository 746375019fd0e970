package infill

import (
	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/locator"
)

// field tracks which parts of a layer's infill region are already
// supported. The region is sampled on a square grid at the supporting
// radius; a sample within the supporting radius of a tree node or of
// the region's wall counts as supported. This is a coarse stand-in for
// a full distance field, but node spacing never exceeds the supporting
// radius, so sample coverage implies edge coverage.
type field struct {
	radius    geom.Coord
	points    []geom.Point
	supported []bool
}

// newField samples the region on a grid of the given spacing and marks
// every sample within spacing of the boundary as wall-supported.
func newField(outlines geom.Outlines, grid *locator.Grid, radius geom.Coord) *field {
	f := &field{radius: radius}
	min, max, ok := outlines.Bounds()
	if !ok || radius <= 0 {
		return f
	}

	for y := min.Y + radius/2; y <= max.Y; y += radius {
		for x := min.X + radius/2; x <= max.X; x += radius {
			p := geom.Point{X: x, Y: y}
			if !outlines.Inside(p) {
				continue
			}
			wallSupported := false
			if wall, ok := grid.ClosestBoundaryPoint(p); ok && p.DistTo2(wall) <= radius*radius {
				wallSupported = true
			}
			f.points = append(f.points, p)
			f.supported = append(f.supported, wallSupported)
		}
	}
	return f
}

// markSupported marks every sample within the supporting radius of p.
func (f *field) markSupported(p geom.Point) {
	r2 := f.radius * f.radius
	for i, sample := range f.points {
		if !f.supported[i] && sample.DistTo2(p) <= r2 {
			f.supported[i] = true
		}
	}
}

// nextUnsupported returns the first sample (in scan order) that is not
// yet supported. ok is false when the whole region is covered.
func (f *field) nextUnsupported() (geom.Point, bool) {
	for i, sample := range f.points {
		if !f.supported[i] {
			return sample, true
		}
	}
	return geom.Point{}, false
}

// unsupportedCount returns how many samples still lack support.
func (f *field) unsupportedCount() int {
	count := 0
	for _, s := range f.supported {
		if !s {
			count++
		}
	}
	return count
}
