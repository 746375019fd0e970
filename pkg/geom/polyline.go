package geom

// Polyline is an open, ordered point sequence to be printed as a single
// extrusion path.
type Polyline []Point

// Length returns the total path length of the polyline.
func (pl Polyline) Length() Coord {
	var total Coord
	for i := 1; i < len(pl); i++ {
		total += pl[i-1].DistTo(pl[i])
	}
	return total
}

// ShortenTail trims up to reduction length off the end of the polyline,
// walking back over as many segments as needed. The polyline is never
// reduced below two points: when only the leading segment is left and it
// is shorter than what remains to trim, that segment is kept as is.
// The possibly shortened polyline is returned.
func (pl Polyline) ShortenTail(reduction Coord) Polyline {
	remaining := reduction
	for len(pl) >= 2 && remaining > 0 {
		end := pl[len(pl)-1]
		prev := pl[len(pl)-2]
		segLen := end.DistTo(prev)
		if segLen > remaining {
			pl[len(pl)-1] = end.Add(prev.Sub(end).Resized(remaining))
			return pl
		}
		if len(pl) == 2 {
			return pl
		}
		pl = pl[:len(pl)-1]
		remaining -= segLen
	}
	return pl
}
