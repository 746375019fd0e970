// Package locator provides a fixed-cell-size spatial index over the
// boundary segments of one layer. It answers nearest-boundary-point and
// segment-crossing queries in near-constant time instead of scanning
// every boundary edge, which matters because the tree algorithms issue
// these queries once per node per layer.
//
// A grid is built once per layer from the layer's outlines and is
// immutable afterwards, so concurrent readers need no locking.
package locator

import (
	"math"

	"github.com/matzehuels/lightning/pkg/geom"
)

// DefaultCellSize is the reference edge length of one grid cell in
// coordinate units (micrometers).
const DefaultCellSize geom.Coord = 4000

type cellKey struct {
	X, Y int64
}

// Grid indexes the boundary segments of a layer by fixed-size cells.
// The zero value is not usable; build one with New.
type Grid struct {
	cellSize geom.Coord
	cells    map[cellKey][]geom.Segment
	segments []geom.Segment
}

// New builds a grid over all boundary segments of the outline set using
// the given cell size. A non-positive cell size falls back to
// [DefaultCellSize]. Each segment is registered in every cell its
// bounding box overlaps.
func New(outlines geom.Outlines, cellSize geom.Coord) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	g := &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]geom.Segment),
		segments: outlines.Segments(),
	}
	for _, s := range g.segments {
		minX := minC(s.A.X, s.B.X) / cellSize
		maxX := maxC(s.A.X, s.B.X) / cellSize
		minY := minC(s.A.Y, s.B.Y) / cellSize
		maxY := maxC(s.A.Y, s.B.Y) / cellSize
		for cx := minX - 1; cx <= maxX+1; cx++ {
			for cy := minY - 1; cy <= maxY+1; cy++ {
				k := cellKey{cx, cy}
				g.cells[k] = append(g.cells[k], s)
			}
		}
	}
	return g
}

// Empty reports whether the grid holds no boundary segments.
func (g *Grid) Empty() bool { return len(g.segments) == 0 }

// CellSize returns the edge length of one cell.
func (g *Grid) CellSize() geom.Coord { return g.cellSize }

// ClosestBoundaryPoint returns the point on the boundary nearest to p.
// The search widens ring by ring from p's cell; once a candidate is
// found, scanning continues just far enough that no cell capable of
// holding a closer segment is skipped. ok is false when the grid is
// empty.
func (g *Grid) ClosestBoundaryPoint(p geom.Point) (geom.Point, bool) {
	if g.Empty() {
		return geom.Point{}, false
	}

	center := cellKey{p.X / g.cellSize, p.Y / g.cellSize}
	best := geom.Point{}
	bestDist2 := int64(math.MaxInt64)
	found := false

	limit := g.maxRing(center)
	for ring := int64(0); ring <= limit; ring++ {
		if g.scanRing(p, center, ring, &best, &bestDist2) {
			found = true
			// Cells beyond this ring count cannot hold anything closer.
			need := int64(math.Sqrt(float64(bestDist2)))/int64(g.cellSize) + 2
			if need < limit {
				limit = need
			}
		}
	}
	return best, found
}

// CrossesBoundary reports whether segment a-b properly crosses any
// boundary segment. Endpoints exactly on the boundary do not count,
// so an edge snapped onto the outline remains valid.
func (g *Grid) CrossesBoundary(a, b geom.Point) bool {
	for _, k := range g.cellsAlong(a, b) {
		for _, s := range g.cells[k] {
			if geom.SegmentsCross(a, b, s.A, s.B) {
				return true
			}
		}
	}
	return false
}

// scanRing checks all segments registered in cells on the given ring
// around the center and reports whether the best distance improved.
func (g *Grid) scanRing(p geom.Point, center cellKey, ring int64, best *geom.Point, bestDist2 *int64) bool {
	improved := false
	visit := func(k cellKey) {
		for _, s := range g.cells[k] {
			q := geom.ClosestOnSegment(p, s.A, s.B)
			if d2 := p.DistTo2(q); d2 < *bestDist2 {
				*bestDist2 = d2
				*best = q
				improved = true
			}
		}
	}
	if ring == 0 {
		visit(center)
		return improved
	}
	for dx := -ring; dx <= ring; dx++ {
		visit(cellKey{center.X + dx, center.Y - ring})
		visit(cellKey{center.X + dx, center.Y + ring})
	}
	for dy := -ring + 1; dy <= ring-1; dy++ {
		visit(cellKey{center.X - ring, center.Y + dy})
		visit(cellKey{center.X + ring, center.Y + dy})
	}
	return improved
}

// maxRing returns the ring count needed to cover every occupied cell
// from the given center.
func (g *Grid) maxRing(center cellKey) int64 {
	var r int64
	for k := range g.cells {
		dx := absI(k.X - center.X)
		dy := absI(k.Y - center.Y)
		if dx > r {
			r = dx
		}
		if dy > r {
			r = dy
		}
	}
	return r
}

// cellsAlong returns the keys of all cells overlapped by the bounding
// box of segment a-b. Cheap and conservative: for the short edges the
// tree algorithms test, the box rarely spans more than a few cells.
func (g *Grid) cellsAlong(a, b geom.Point) []cellKey {
	minX := minC(a.X, b.X) / g.cellSize
	maxX := maxC(a.X, b.X) / g.cellSize
	minY := minC(a.Y, b.Y) / g.cellSize
	maxY := maxC(a.Y, b.Y) / g.cellSize
	keys := make([]cellKey, 0, (maxX-minX+1)*(maxY-minY+1))
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			keys = append(keys, cellKey{cx, cy})
		}
	}
	return keys
}

func minC(a, b geom.Coord) geom.Coord {
	if a < b {
		return a
	}
	return b
}

func maxC(a, b geom.Coord) geom.Coord {
	if a > b {
		return a
	}
	return b
}

func absI(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
