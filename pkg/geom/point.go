// Package geom provides the integer-coordinate 2D primitives used by the
// lightning infill engine: points, closed outlines (polygon sets with
// holes), and open polylines.
//
// Coordinates are micrometers stored as int64, following the fixed-point
// convention of slicing toolchains. All distance helpers round to the
// nearest micrometer, which is far below printable resolution.
package geom

import "math"

// Coord is a fixed-point coordinate in micrometers.
type Coord = int64

// Point is a 2D position or displacement vector in micrometer coordinates.
type Point struct {
	X Coord `json:"x"`
	Y Coord `json:"y"`
}

// Add returns the component-wise sum p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the component-wise difference p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dot returns the dot product of p and q as vectors.
func (p Point) Dot(q Point) Coord { return p.X*q.X + p.Y*q.Y }

// Cross returns the 2D cross product (signed parallelogram area) of p and q.
func (p Point) Cross(q Point) Coord { return p.X*q.Y - p.Y*q.X }

// MulDiv returns p scaled by num/den per component.
// den must be non-zero; intermediate products use int64 arithmetic.
func (p Point) MulDiv(num, den Coord) Point {
	return Point{p.X * num / den, p.Y * num / den}
}

// Size returns the Euclidean length of p as a vector, rounded to the
// nearest coordinate unit.
func (p Point) Size() Coord {
	return Coord(math.Round(math.Hypot(float64(p.X), float64(p.Y))))
}

// Size2 returns the squared Euclidean length of p as a vector.
func (p Point) Size2() Coord { return p.X*p.X + p.Y*p.Y }

// DistTo returns the Euclidean distance between p and q.
func (p Point) DistTo(q Point) Coord { return p.Sub(q).Size() }

// DistTo2 returns the squared Euclidean distance between p and q.
func (p Point) DistTo2(q Point) Coord { return p.Sub(q).Size2() }

// Resized returns p scaled to the given length while keeping its
// direction. The zero vector has no direction and is returned unchanged.
func (p Point) Resized(length Coord) Point {
	l := math.Hypot(float64(p.X), float64(p.Y))
	if l == 0 {
		return p
	}
	f := float64(length) / l
	return Point{
		X: Coord(math.Round(float64(p.X) * f)),
		Y: Coord(math.Round(float64(p.Y) * f)),
	}
}

// ClosestOnSegment returns the point on segment a-b closest to p.
// Degenerate segments (a == b) yield a.
func ClosestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	len2 := ab.Size2()
	if len2 == 0 {
		return a
	}
	t := float64(p.Sub(a).Dot(ab)) / float64(len2)
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return Point{
		X: a.X + Coord(math.Round(t*float64(ab.X))),
		Y: a.Y + Coord(math.Round(t*float64(ab.Y))),
	}
}

// DistToSegment2 returns the squared distance from p to segment a-b.
func DistToSegment2(p, a, b Point) Coord {
	return p.DistTo2(ClosestOnSegment(p, a, b))
}

// SegmentsCross reports whether the open segments a-b and c-d properly
// intersect. Touching at a shared endpoint does not count as a crossing,
// so a segment ending exactly on an outline vertex stays usable.
func SegmentsCross(a, b, c, d Point) bool {
	d1 := sign(b.Sub(a).Cross(c.Sub(a)))
	d2 := sign(b.Sub(a).Cross(d.Sub(a)))
	d3 := sign(d.Sub(c).Cross(a.Sub(c)))
	d4 := sign(d.Sub(c).Cross(b.Sub(c)))
	return d1 != 0 && d2 != 0 && d3 != 0 && d4 != 0 && d1 != d2 && d3 != d4
}

func sign(v Coord) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
