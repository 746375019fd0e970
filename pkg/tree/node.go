// Package tree implements the lightning tree: a branching structure of
// 2D points whose edges become printed support/infill paths for one
// layer of a 3D-printable model.
//
// A tree is built for the topmost layer that needs support and is then
// carried down layer by layer: [Node.PropagateToNextLayer] deep-copies
// the tree, realigns the copy to the lower layer's boundary (possibly
// splitting it into several trees), straightens the realigned geometry,
// and prunes the extremities. The tree still owned by the upper layer is
// independently converted into printable polylines with
// [Node.ConvertToPolylines].
//
// Nodes are linked with a child slice and a parent back-pointer. There
// is exactly one root per tree and the graph is acyclic by construction:
// [Node.Attach] refuses to create a cycle and [Node.Reroot] only ever
// reverses existing edges. None of the operations are safe for
// concurrent use on the same tree; distinct trees never share nodes and
// may be processed in parallel.
package tree

import (
	"errors"

	"github.com/matzehuels/lightning/pkg/geom"
)

// ErrWouldCycle is returned by [Node.Attach] when the node to attach is
// the acceptor itself or one of its ancestors. Completing such an attach
// would create a cycle; the caller's logic is wrong, not the input data.
var ErrWouldCycle = errors.New("attach would create a cycle")

// Node is a single vertex of a lightning tree. Create one with [New];
// the zero value is not usable because every node must have a location.
type Node struct {
	loc      geom.Point
	isRoot   bool
	parent   *Node
	children []*Node

	// grounding remembers where this branch was last directly anchored
	// to a root, so lower layers can re-anchor it after the region shape
	// changes. Nil until the node first becomes a direct child of a root
	// or is copied from a node that was.
	grounding *geom.Point
}

// New creates a free-standing root node at the given location.
func New(loc geom.Point) *Node {
	return &Node{loc: loc, isRoot: true}
}

// Location returns the position this node represents on its layer.
func (n *Node) Location() geom.Point { return n.loc }

// SetLocation moves the node to the given position.
func (n *Node) SetLocation(loc geom.Point) { n.loc = loc }

// IsRoot reports whether this node has no parent.
func (n *Node) IsRoot() bool { return n.isRoot }

// Parent returns the node this node hangs under, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's direct children in insertion order.
// The slice is a read-only view; mutate the tree through AddChild,
// Attach, and Reroot instead.
func (n *Node) Children() []*Node { return n.children }

// GroundingLocation returns the point at which this branch was last
// directly anchored to a root, and whether one has been recorded.
func (n *Node) GroundingLocation() (geom.Point, bool) {
	if n.grounding == nil {
		return geom.Point{}, false
	}
	return *n.grounding, true
}

// AddChild creates a new node at loc and adds it as the last child of n.
// The new node is returned.
func (n *Node) AddChild(loc geom.Point) *Node {
	child := &Node{loc: loc, parent: n}
	n.children = append(n.children, child)
	return child
}

// Attach adds an existing node, together with everything beneath it, as
// the last child of n. Returns [ErrWouldCycle] without mutating either
// tree if child is n itself or an ancestor of n.
func (n *Node) Attach(child *Node) error {
	if child.HasOffspring(n) {
		return ErrWouldCycle
	}
	child.parent = n
	child.isRoot = false
	n.children = append(n.children, child)
	return nil
}

// HasOffspring reports whether candidate is n itself or reachable from n
// via child edges. This is the cycle guard used before any reparenting.
func (n *Node) HasOffspring(candidate *Node) bool {
	if candidate == n {
		return true
	}
	for _, c := range n.children {
		if c.HasOffspring(candidate) {
			return true
		}
	}
	return false
}

// Reroot reverses the parent/child relationship along the path from the
// current root down to n, making n the root of its tree, and then makes
// n a child of newParent. Pass nil to leave n as a free root. Subtrees
// hanging off the reversed path are untouched.
func (n *Node) Reroot(newParent *Node) {
	if !n.isRoot {
		oldParent := n.parent
		oldParent.Reroot(n)
		n.children = append(n.children, oldParent)
	}

	if newParent != nil {
		// The recursion above may have queued newParent as a child of n;
		// it is about to become the parent instead.
		n.children = removeChild(n.children, newParent)
		n.isRoot = false
		n.parent = newParent
	} else {
		n.isRoot = true
		n.parent = nil
	}
}

// ClosestNode returns the node in n's subtree (including n) whose
// location is nearest to loc. Ties go to the node encountered first in
// depth-first, children-order traversal.
func (n *Node) ClosestNode(loc geom.Point) *Node {
	best := n
	bestDist2 := n.loc.DistTo2(loc)
	for _, c := range n.children {
		cand := c.ClosestNode(loc)
		if d2 := cand.loc.DistTo2(loc); d2 < bestDist2 {
			best = cand
			bestDist2 = d2
		}
	}
	return best
}

// VisitBranches calls visitor once per edge in n's subtree, parent
// location first, in depth-first pre-order. The edge between n and its
// own parent is not included.
func (n *Node) VisitBranches(visitor func(parent, child geom.Point)) {
	for _, c := range n.children {
		visitor(n.loc, c.loc)
		c.VisitBranches(visitor)
	}
}

// VisitNodes calls visitor for every node in n's subtree, n included,
// in depth-first pre-order. The visitor receives the node itself and may
// relocate it; structural mutation during the walk is not supported.
func (n *Node) VisitNodes(visitor func(*Node)) {
	visitor(n)
	for _, c := range n.children {
		c.VisitNodes(visitor)
	}
}

// NodeCount returns the number of nodes in n's subtree, n included.
func (n *Node) NodeCount() int {
	count := 1
	for _, c := range n.children {
		count += c.NodeCount()
	}
	return count
}

// Valence boost tuning for WeightedDistance. Each child discounts a
// quarter of the supporting radius, saturating at three children. The
// numbers are a print-quality tuning choice, not a correctness
// requirement.
const (
	valenceBoostCap     = 3
	valenceBoostDivisor = 4
)

// WeightedDistance returns the attachment priority of this node for an
// unsupported point: the raw Euclidean distance discounted by a valence
// boost, so that equally distant nodes with more children win. A
// childless node scores exactly its raw distance. The result never goes
// below zero; values beyond supportingRadius are not actionable for the
// caller and carry no extra meaning.
func (n *Node) WeightedDistance(unsupported geom.Point, supportingRadius geom.Coord) geom.Coord {
	dist := n.loc.DistTo(unsupported)
	valence := geom.Coord(len(n.children))
	if valence > valenceBoostCap {
		valence = valenceBoostCap
	}
	boost := valence * supportingRadius / valenceBoostDivisor
	if boost > dist {
		return 0
	}
	return dist - boost
}

// DeepCopy returns a fully independent clone of n and its subtree.
// A copied root remembers its own location as grounding location if none
// was recorded yet, so the copy can be re-anchored on the next layer.
func (n *Node) DeepCopy() *Node {
	clone := &Node{loc: n.loc, isRoot: n.isRoot, grounding: n.grounding}
	if n.isRoot && clone.grounding == nil {
		loc := n.loc
		clone.grounding = &loc
	}
	clone.children = make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		childCopy := c.DeepCopy()
		childCopy.parent = clone
		clone.children = append(clone.children, childCopy)
	}
	return clone
}

// removeChild returns children without the given node, preserving order.
func removeChild(children []*Node, child *Node) []*Node {
	for i, c := range children {
		if c == child {
			return append(children[:i], children[i+1:]...)
		}
	}
	return children
}
