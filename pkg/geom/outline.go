package geom

// Polygon is a closed sequence of points. The segment from the last point
// back to the first is implied. Winding order is not significant here:
// containment uses the even-odd rule, so holes are simply polygons nested
// inside an outer contour.
type Polygon []Point

// Segment is one straight boundary edge of an outline.
type Segment struct {
	A, B Point
}

// Segments returns the closed edge list of the polygon, including the
// wrap-around edge. Polygons with fewer than two points have no edges.
func (pg Polygon) Segments() []Segment {
	if len(pg) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(pg))
	for i := range pg {
		segs = append(segs, Segment{A: pg[i], B: pg[(i+1)%len(pg)]})
	}
	return segs
}

// Length returns the total perimeter of the polygon.
func (pg Polygon) Length() Coord {
	var total Coord
	for _, s := range pg.Segments() {
		total += s.A.DistTo(s.B)
	}
	return total
}

// Outlines is the allowed region of one layer: a set of closed polygons,
// possibly containing holes and multiple islands. A point is inside the
// region when it is inside an odd number of polygons (even-odd rule).
type Outlines []Polygon

// Empty reports whether the outline set contains no usable polygon.
// Degenerate polygons with fewer than three points are ignored.
func (o Outlines) Empty() bool {
	for _, pg := range o {
		if len(pg) >= 3 {
			return false
		}
	}
	return true
}

// Segments returns all boundary edges of all polygons in the set.
func (o Outlines) Segments() []Segment {
	var segs []Segment
	for _, pg := range o {
		if len(pg) < 3 {
			continue
		}
		segs = append(segs, pg.Segments()...)
	}
	return segs
}

// Inside reports whether p lies within the region. Points exactly on a
// boundary edge count as inside, so a node snapped onto the outline stays
// valid.
func (o Outlines) Inside(p Point) bool {
	crossings := 0
	for _, pg := range o {
		if len(pg) < 3 {
			continue
		}
		for _, s := range pg.Segments() {
			if onSegment(p, s.A, s.B) {
				return true
			}
			crossings += rayCrossing(p, s.A, s.B)
		}
	}
	return crossings%2 == 1
}

// Bounds returns the axis-aligned bounding box of the outline set.
// ok is false for an empty set.
func (o Outlines) Bounds() (min, max Point, ok bool) {
	for _, pg := range o {
		if len(pg) < 3 {
			continue
		}
		for _, p := range pg {
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max, ok
}

// onSegment reports whether p lies exactly on segment a-b.
func onSegment(p, a, b Point) bool {
	if b.Sub(a).Cross(p.Sub(a)) != 0 {
		return false
	}
	return minC(a.X, b.X) <= p.X && p.X <= maxC(a.X, b.X) &&
		minC(a.Y, b.Y) <= p.Y && p.Y <= maxC(a.Y, b.Y)
}

// rayCrossing returns 1 if a ray from p in +X direction crosses segment
// a-b, using the half-open rule so shared vertices are counted once.
func rayCrossing(p, a, b Point) int {
	if (a.Y > p.Y) == (b.Y > p.Y) {
		return 0
	}
	// X coordinate where the edge crosses the horizontal line through p.
	x := float64(a.X) + float64(p.Y-a.Y)/float64(b.Y-a.Y)*float64(b.X-a.X)
	if x > float64(p.X) {
		return 1
	}
	return 0
}

func minC(a, b Coord) Coord {
	if a < b {
		return a
	}
	return b
}

func maxC(a, b Coord) Coord {
	if a > b {
		return a
	}
	return b
}
