package tree

import "github.com/matzehuels/lightning/pkg/geom"

// rectiJunction carries the result of the recursive straightening step:
// the location of the next junction below and the path distance along
// the tree from the junction above down to it.
type rectiJunction struct {
	totalDist geom.Coord
	loc       geom.Point
}

// Straighten smooths the zig-zags that per-node movement introduced
// while keeping the tree within magnitude of its current shape.
//
// Junctions (the root, every leaf, and every node with more than one
// child) keep their exact locations; they are the points the straightened
// path must preserve. Each node on a run of single-child nodes between
// two junctions is pulled onto the straight line connecting those
// junctions, moving at most magnitude from where it is now. A run node
// that ends up strictly closer than maxRemoveColinearDist to the segment
// between its neighbours is removed outright, collapsing into the
// straight segment.
//
// Straighten(0, 0) leaves every location and the node count unchanged.
func (n *Node) Straighten(magnitude, maxRemoveColinearDist geom.Coord) {
	n.straighten(magnitude, n.loc, 0, maxRemoveColinearDist*maxRemoveColinearDist)
}

// straighten is the recursive part of Straighten. junctionAbove is the
// location of the nearest junction above n; accumulated is the path
// distance from that junction down to n. It returns the junction below,
// so the caller can place n on the line between the two once both ends
// are known. The traversal is post-order: the subtree is straightened
// before n itself moves.
func (n *Node) straighten(magnitude geom.Coord, junctionAbove geom.Point, accumulated geom.Coord, maxRemoveColinearDist2 geom.Coord) rectiJunction {
	if len(n.children) != 1 {
		// Junction: a leaf or a branch point. It anchors the runs that
		// hang off it and never moves itself.
		for _, child := range n.children {
			childDist := n.loc.DistTo(child.loc)
			child.straighten(magnitude, n.loc, childDist, maxRemoveColinearDist2)
		}
		return rectiJunction{totalDist: accumulated, loc: n.loc}
	}

	child := n.children[0]
	childDist := n.loc.DistTo(child.loc)
	below := child.straighten(magnitude, junctionAbove, accumulated+childDist, maxRemoveColinearDist2)

	if a, b := junctionAbove, below.loc; a != b {
		// Target position: the proportional point on the junction-to-
		// junction line, clamped to a displacement of magnitude.
		total := below.totalDist
		if total < 1 {
			total = 1
		}
		target := a.Add(b.Sub(a).MulDiv(accumulated, total))
		move := target.Sub(n.loc)
		if move.Size() <= magnitude {
			n.loc = target
		} else {
			n.loc = n.loc.Add(move.Resized(magnitude))
		}
	}

	// The recursion may have replaced the child; re-read it before the
	// collinearity check.
	child = n.children[0]
	if n.parent != nil && geom.DistToSegment2(n.loc, n.parent.loc, child.loc) < maxRemoveColinearDist2 {
		n.removeFromRun(child)
	}
	return below
}

// removeFromRun unlinks n, connecting its single child directly to its
// parent at n's position among the siblings.
func (n *Node) removeFromRun(child *Node) {
	child.parent = n.parent
	for i, sibling := range n.parent.children {
		if sibling == n {
			n.parent.children[i] = child
			break
		}
	}
	n.parent = nil
	n.children = nil
}
