package tree

import (
	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/locator"
)

// PropagateParams bundle the tuning values used when carrying a tree
// down to the next layer.
type PropagateParams struct {
	// PruneDistance is how much path length may be trimmed from the
	// tree's extremities so they still support the layer above.
	PruneDistance geom.Coord

	// SmoothMagnitude is the maximum lateral displacement straightening
	// may apply to a node.
	SmoothMagnitude geom.Coord

	// MaxRemoveColinearDist is the displacement threshold below which a
	// straightened node may be removed outright.
	MaxRemoveColinearDist geom.Coord
}

// PropagateToNextLayer carries n's tree down one layer. The tree is deep
// copied (n and everything beneath it stay untouched for the current
// layer's output), the copy is realigned to nextOutlines, and every
// resulting tree is straightened, pruned, and appended to nextTrees.
//
// Realigning may split the copy: if the root no longer lies within the
// lower layer's region, each of its surviving children becomes an
// independent tree, so the result can be zero, one, or several trees.
// The updated nextTrees slice is returned.
func (n *Node) PropagateToNextLayer(
	nextTrees []*Node,
	nextOutlines geom.Outlines,
	outlineLocator *locator.Grid,
	params PropagateParams,
) []*Node {
	copied := n.DeepCopy()

	var parts []*Node
	if copied.realign(nextOutlines, outlineLocator, &parts) {
		parts = append(parts, copied)
	}

	for _, part := range parts {
		part.Straighten(params.SmoothMagnitude, params.MaxRemoveColinearDist)
		part.Prune(params.PruneDistance)
		nextTrees = append(nextTrees, part)
	}
	return nextTrees
}

// realign adjusts the locations of n's subtree so every node lies within
// outlines, severing the parts that cannot be kept connected. It reports
// whether n itself survived as part of its original tree; when it did
// not, the surviving children have been re-rooted and appended to parts.
//
// Rules, applied per node:
//   - empty outlines discard everything;
//   - a contained node stays put and keeps only children whose own
//     realign succeeds;
//   - an uncontained root is severed: it stops being an attachment point
//     and its surviving children become independent roots that remember
//     the old root location for re-anchoring;
//   - an uncontained non-root snaps to the nearest boundary point,
//     provided the snapped edge to its (already realigned) parent stays
//     within the region; otherwise it is severed like a root;
//   - a contained child whose edge to its surviving parent crosses the
//     boundary (the region split into islands between the endpoints) is
//     severed as well, so no printed line leaks outside the region.
func (n *Node) realign(outlines geom.Outlines, outlineLocator *locator.Grid, parts *[]*Node) bool {
	if outlines.Empty() {
		return false
	}

	if outlines.Inside(n.loc) {
		n.realignChildren(outlines, outlineLocator, parts)
		return true
	}

	if !n.isRoot {
		if snapped, ok := outlineLocator.ClosestBoundaryPoint(n.loc); ok &&
			!outlineLocator.CrossesBoundary(n.parent.loc, snapped) {
			n.loc = snapped
			n.realignChildren(outlines, outlineLocator, parts)
			return true
		}
	}

	// Sever: lift the surviving children out as independent trees.
	for _, child := range n.children {
		if child.realign(outlines, outlineLocator, parts) {
			child.liftAsRoot(n.loc, parts)
		}
	}
	n.children = nil
	return false
}

// realignChildren realigns every child in place. Children that did not
// survive are dropped; children whose edge to n would cross the boundary
// are lifted out as independent trees instead of leaking a printed line
// outside the region.
func (n *Node) realignChildren(outlines geom.Outlines, outlineLocator *locator.Grid, parts *[]*Node) {
	kept := n.children[:0]
	for _, child := range n.children {
		if !child.realign(outlines, outlineLocator, parts) {
			continue
		}
		if outlineLocator.CrossesBoundary(n.loc, child.loc) {
			child.liftAsRoot(n.loc, parts)
			continue
		}
		kept = append(kept, child)
	}
	n.children = kept
}

// liftAsRoot detaches n from its parent and registers it as an
// independent tree, remembering where the branch used to be anchored.
func (n *Node) liftAsRoot(anchor geom.Point, parts *[]*Node) {
	grounding := anchor
	n.grounding = &grounding
	n.parent = nil
	n.isRoot = true
	*parts = append(*parts, n)
}
