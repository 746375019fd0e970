package tree

import "github.com/matzehuels/lightning/pkg/geom"

// ConvertToPolylines assembles the tree's edges into printable point
// sequences and appends them to output.
//
// Every polyline starts at a leaf and ends at a junction (a node with
// more than one child) or at the root. At a junction the first child in
// order continues the current polyline and every other child starts a
// new one; the choice is cosmetic but fixed so output is reproducible.
// Each tree edge appears in exactly one polyline, exactly once.
//
// After assembly, polylines ending at a junction shared with at least
// one other polyline are shortened by up to lineWidth/2 to avoid
// over-extrusion where line ends overlap. Trees with a single node
// produce no polylines.
func (n *Node) ConvertToPolylines(output []geom.Polyline, lineWidth geom.Coord) []geom.Polyline {
	if len(n.children) == 0 {
		return output
	}

	lines := n.assemblePolylines(nil, nil)
	lines = n.removeJunctionOverlap(lines, lineWidth)
	return append(output, lines...)
}

// assemblePolylines walks the subtree depth-first. current is the
// polyline being grown from a leaf up toward n; it is nil when n starts
// a fresh branch. The updated polyline set is returned with the line
// through n as its last element.
func (n *Node) assemblePolylines(lines []geom.Polyline, current geom.Polyline) []geom.Polyline {
	if len(n.children) == 0 {
		// Leaf: begin a new polyline here.
		return append(lines, append(current, n.loc))
	}

	// First child continues the line through this node.
	lines = n.children[0].assemblePolylines(lines, current)
	continued := len(lines) - 1
	lines[continued] = append(lines[continued], n.loc)

	// Every other child terminates its own line at this junction.
	for _, child := range n.children[1:] {
		lines = child.assemblePolylines(lines, nil)
		idx := len(lines) - 1
		lines[idx] = append(lines[idx], n.loc)
	}

	// Keep the continuing line last so the caller extends the right one.
	if len(n.children) > 1 {
		lines[continued], lines[len(lines)-1] = lines[len(lines)-1], lines[continued]
	}
	return lines
}

// removeJunctionOverlap trims the junction-side end of each polyline
// whose final point is shared with another polyline, then drops lines
// degenerated to fewer than two points.
func (n *Node) removeJunctionOverlap(lines []geom.Polyline, lineWidth geom.Coord) []geom.Polyline {
	shared := n.sharedJunctions()

	out := lines[:0]
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		if shared[line[len(line)-1]] {
			line = line.ShortenTail(lineWidth / 2)
		}
		if len(line) >= 2 {
			out = append(out, line)
		}
	}
	return out
}

// sharedJunctions collects the locations where two or more polyline
// ends meet: every node with more than one child, and the root when it
// terminates more than one line.
func (n *Node) sharedJunctions() map[geom.Point]bool {
	shared := make(map[geom.Point]bool)
	n.VisitNodes(func(node *Node) {
		if len(node.children) > 1 {
			shared[node.loc] = true
		}
	})
	return shared
}
