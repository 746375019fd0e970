package tree

import "github.com/matzehuels/lightning/pkg/geom"

// Prune trims the tree from its extremities until up to distance of path
// length has been removed from every leaf-ward chain. Children are
// processed in insertion order, so the first child's branch is consumed
// first; this tie-break is documented behavior, not an optimality claim.
//
// A leaf edge shorter than the remaining budget is deleted whole and
// pruning continues from its former parent with the reduced budget; a
// leaf edge at least as long as the budget is shortened by exactly the
// budget, with the leaf surviving at its new position.
//
// Prune returns the length actually removed: distance, unless a whole
// chain was consumed before the budget ran out, in which case the
// returned value is smaller.
func (n *Node) Prune(distance geom.Coord) geom.Coord {
	if distance <= 0 {
		return 0
	}

	var maxPruned geom.Coord
	kept := n.children[:0]
	for _, child := range n.children {
		prunedBelow := child.Prune(distance)
		if prunedBelow >= distance {
			// This branch already gave up the full budget deeper down.
			maxPruned = maxC(maxPruned, prunedBelow)
			kept = append(kept, child)
			continue
		}

		edgeLen := n.loc.DistTo(child.loc)
		if prunedBelow+edgeLen <= distance {
			// The whole edge goes; the child must be a leaf by now.
			maxPruned = maxC(maxPruned, prunedBelow+edgeLen)
			continue
		}

		// The budget runs out somewhere on this edge: pull the child
		// toward n by what remains.
		remaining := distance - prunedBelow
		child.loc = child.loc.Add(n.loc.Sub(child.loc).Resized(remaining))
		maxPruned = distance
		kept = append(kept, child)
	}
	n.children = kept
	return maxPruned
}

func maxC(a, b geom.Coord) geom.Coord {
	if a > b {
		return a
	}
	return b
}
