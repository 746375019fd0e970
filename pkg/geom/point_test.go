package geom

import "testing"

func TestPointArithmetic(t *testing.T) {
	a := Point{3, 4}
	b := Point{1, -2}

	if got := a.Add(b); got != (Point{4, 2}) {
		t.Errorf("Add = %v, want {4 2}", got)
	}
	if got := a.Sub(b); got != (Point{2, 6}) {
		t.Errorf("Sub = %v, want {2 6}", got)
	}
	if got := a.Dot(b); got != 3-8 {
		t.Errorf("Dot = %d, want -5", got)
	}
	if got := a.Cross(b); got != -6-4 {
		t.Errorf("Cross = %d, want -10", got)
	}
	if got := a.Size(); got != 5 {
		t.Errorf("Size = %d, want 5", got)
	}
	if got := a.DistTo(Point{0, 0}); got != 5 {
		t.Errorf("DistTo = %d, want 5", got)
	}
}

func TestResized(t *testing.T) {
	v := Point{300, 400}
	got := v.Resized(1000)
	if got != (Point{600, 800}) {
		t.Errorf("Resized = %v, want {600 800}", got)
	}

	// Zero vector has no direction.
	if got := (Point{}).Resized(1000); got != (Point{}) {
		t.Errorf("Resized zero vector = %v, want origin", got)
	}
}

func TestClosestOnSegment(t *testing.T) {
	a := Point{0, 0}
	b := Point{1000, 0}

	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"projects onto interior", Point{500, 300}, Point{500, 0}},
		{"clamps to start", Point{-200, 100}, a},
		{"clamps to end", Point{1500, -100}, b},
		{"on segment", Point{250, 0}, Point{250, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClosestOnSegment(tc.p, a, b); got != tc.want {
				t.Errorf("ClosestOnSegment(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}

	// Degenerate segment collapses to its single point.
	if got := ClosestOnSegment(Point{5, 5}, a, a); got != a {
		t.Errorf("degenerate segment = %v, want %v", got, a)
	}
}

func TestDistToSegment2(t *testing.T) {
	if got := DistToSegment2(Point{500, 300}, Point{0, 0}, Point{1000, 0}); got != 300*300 {
		t.Errorf("DistToSegment2 = %d, want %d", got, 300*300)
	}
}

func TestSegmentsCross(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d Point
		want       bool
	}{
		{"proper crossing", Point{0, 0}, Point{10, 10}, Point{0, 10}, Point{10, 0}, true},
		{"parallel", Point{0, 0}, Point{10, 0}, Point{0, 5}, Point{10, 5}, false},
		{"shared endpoint", Point{0, 0}, Point{10, 0}, Point{10, 0}, Point{10, 10}, false},
		{"endpoint on segment", Point{0, 0}, Point{10, 0}, Point{5, 0}, Point{5, 10}, false},
		{"disjoint", Point{0, 0}, Point{1, 1}, Point{5, 5}, Point{6, 5}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SegmentsCross(tc.a, tc.b, tc.c, tc.d); got != tc.want {
				t.Errorf("SegmentsCross = %v, want %v", got, tc.want)
			}
		})
	}
}
