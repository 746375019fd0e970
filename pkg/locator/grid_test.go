package locator

import (
	"testing"

	"github.com/matzehuels/lightning/pkg/geom"
)

func squareOutlines(minX, minY, maxX, maxY geom.Coord) geom.Outlines {
	return geom.Outlines{geom.Polygon{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY},
	}}
}

func TestClosestBoundaryPoint(t *testing.T) {
	grid := New(squareOutlines(0, 0, 10000, 10000), DefaultCellSize)

	tests := []struct {
		name string
		p    geom.Point
		want geom.Point
	}{
		{"inside near left wall", geom.Point{X: 1000, Y: 5000}, geom.Point{X: 0, Y: 5000}},
		{"outside right", geom.Point{X: 13000, Y: 5000}, geom.Point{X: 10000, Y: 5000}},
		{"outside corner", geom.Point{X: -3000, Y: -4000}, geom.Point{X: 0, Y: 0}},
		{"on boundary", geom.Point{X: 10000, Y: 2000}, geom.Point{X: 10000, Y: 2000}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := grid.ClosestBoundaryPoint(tc.p)
			if !ok {
				t.Fatal("no boundary point found")
			}
			if got != tc.want {
				t.Errorf("ClosestBoundaryPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestClosestBoundaryPointFarAway(t *testing.T) {
	// The query point is many cells away from the nearest segment, so the
	// ring search must widen well beyond the first few rings.
	grid := New(squareOutlines(0, 0, 2000, 2000), 1000)
	got, ok := grid.ClosestBoundaryPoint(geom.Point{X: 50000, Y: 1000})
	if !ok {
		t.Fatal("no boundary point found")
	}
	if got != (geom.Point{X: 2000, Y: 1000}) {
		t.Errorf("ClosestBoundaryPoint = %v, want {2000 1000}", got)
	}
}

func TestClosestBoundaryPointPicksNearestIsland(t *testing.T) {
	outlines := geom.Outlines{
		geom.Polygon{{X: 0, Y: 0}, {X: 1000, Y: 0}, {X: 1000, Y: 1000}, {X: 0, Y: 1000}},
		geom.Polygon{{X: 20000, Y: 0}, {X: 21000, Y: 0}, {X: 21000, Y: 1000}, {X: 20000, Y: 1000}},
	}
	grid := New(outlines, DefaultCellSize)

	got, ok := grid.ClosestBoundaryPoint(geom.Point{X: 18000, Y: 500})
	if !ok {
		t.Fatal("no boundary point found")
	}
	if got != (geom.Point{X: 20000, Y: 500}) {
		t.Errorf("ClosestBoundaryPoint = %v, want {20000 500}", got)
	}
}

func TestEmptyGrid(t *testing.T) {
	grid := New(nil, DefaultCellSize)
	if !grid.Empty() {
		t.Error("grid over nil outlines should be empty")
	}
	if _, ok := grid.ClosestBoundaryPoint(geom.Point{X: 1, Y: 2}); ok {
		t.Error("empty grid should find no boundary point")
	}
	if grid.CrossesBoundary(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 100}) {
		t.Error("empty grid should report no crossings")
	}
}

func TestCrossesBoundary(t *testing.T) {
	grid := New(squareOutlines(0, 0, 10000, 10000), DefaultCellSize)

	tests := []struct {
		name string
		a, b geom.Point
		want bool
	}{
		{"fully inside", geom.Point{X: 2000, Y: 2000}, geom.Point{X: 8000, Y: 8000}, false},
		{"crosses right wall", geom.Point{X: 8000, Y: 5000}, geom.Point{X: 14000, Y: 5000}, true},
		{"fully outside", geom.Point{X: 12000, Y: 2000}, geom.Point{X: 14000, Y: 8000}, false},
		{"endpoint on wall", geom.Point{X: 5000, Y: 5000}, geom.Point{X: 10000, Y: 5000}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := grid.CrossesBoundary(tc.a, tc.b); got != tc.want {
				t.Errorf("CrossesBoundary(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestDefaultCellSizeFallback(t *testing.T) {
	grid := New(squareOutlines(0, 0, 1000, 1000), 0)
	if grid.CellSize() != DefaultCellSize {
		t.Errorf("CellSize = %d, want %d", grid.CellSize(), DefaultCellSize)
	}
}
