package geom

import "testing"

// square returns an axis-aligned square polygon with the given corner
// coordinates.
func square(minX, minY, maxX, maxY Coord) Polygon {
	return Polygon{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	}
}

func TestOutlinesInside(t *testing.T) {
	region := Outlines{square(0, 0, 10000, 10000)}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Point{5000, 5000}, true},
		{"outside right", Point{15000, 5000}, false},
		{"outside above", Point{5000, 12000}, false},
		{"on edge", Point{10000, 5000}, true},
		{"on vertex", Point{0, 0}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := region.Inside(tc.p); got != tc.want {
				t.Errorf("Inside(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestOutlinesInsideWithHole(t *testing.T) {
	region := Outlines{
		square(0, 0, 10000, 10000),
		square(4000, 4000, 6000, 6000), // hole (even-odd rule)
	}

	if region.Inside(Point{5000, 5000}) {
		t.Error("point in hole should be outside")
	}
	if !region.Inside(Point{2000, 2000}) {
		t.Error("point between outer wall and hole should be inside")
	}
	// Hole border still counts as boundary, therefore inside.
	if !region.Inside(Point{4000, 5000}) {
		t.Error("point on hole border should count as inside")
	}
}

func TestOutlinesInsideTwoIslands(t *testing.T) {
	region := Outlines{
		square(0, 0, 1000, 1000),
		square(5000, 0, 6000, 1000),
	}

	if !region.Inside(Point{500, 500}) || !region.Inside(Point{5500, 500}) {
		t.Error("island interiors should be inside")
	}
	if region.Inside(Point{3000, 500}) {
		t.Error("gap between islands should be outside")
	}
}

func TestOutlinesEmpty(t *testing.T) {
	if !(Outlines{}).Empty() {
		t.Error("no polygons should be empty")
	}
	if !(Outlines{Polygon{{0, 0}, {1, 1}}}).Empty() {
		t.Error("degenerate two-point polygon should be empty")
	}
	if (Outlines{square(0, 0, 10, 10)}).Empty() {
		t.Error("square should not be empty")
	}
}

func TestOutlinesBounds(t *testing.T) {
	region := Outlines{square(100, 200, 300, 400), square(-50, 250, 0, 500)}
	min, max, ok := region.Bounds()
	if !ok {
		t.Fatal("Bounds reported empty set")
	}
	if min != (Point{-50, 200}) || max != (Point{300, 500}) {
		t.Errorf("Bounds = %v..%v, want {-50 200}..{300 500}", min, max)
	}

	if _, _, ok := (Outlines{}).Bounds(); ok {
		t.Error("empty set should report ok=false")
	}
}

func TestPolylineShortenTail(t *testing.T) {
	t.Run("within last segment", func(t *testing.T) {
		pl := Polyline{{0, 0}, {0, 1000}, {0, 2000}}
		got := pl.ShortenTail(300)
		want := Polyline{{0, 0}, {0, 1000}, {0, 1700}}
		if len(got) != len(want) || got[2] != want[2] {
			t.Errorf("ShortenTail = %v, want %v", got, want)
		}
	})

	t.Run("consumes whole segment", func(t *testing.T) {
		pl := Polyline{{0, 0}, {0, 1000}, {0, 1200}}
		got := pl.ShortenTail(500)
		// 200 consumed by dropping the last point, 300 trimmed off the next.
		want := Polyline{{0, 0}, {0, 700}}
		if len(got) != 2 || got[1] != want[1] {
			t.Errorf("ShortenTail = %v, want %v", got, want)
		}
	})

	t.Run("never below two points", func(t *testing.T) {
		pl := Polyline{{0, 0}, {0, 100}}
		got := pl.ShortenTail(5000)
		if len(got) != 2 {
			t.Errorf("ShortenTail reduced below two points: %v", got)
		}
	})
}
