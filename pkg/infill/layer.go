// Package infill grows lightning infill trees across the layers of a
// sliced model. Each layer holds a forest of [tree.Node] roots anchored
// on the layer's walls; unsupported regions are filled by growing new
// branches toward the nearest support, and the forest is carried down
// to the layer below via [tree.PropagateToNextLayer].
package infill

import (
	"math"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/locator"
	"github.com/matzehuels/lightning/pkg/tree"
)

// Params are the tunables for one generation run. Zero values are
// invalid; use [Params.ValidateAndSetDefaults] before handing them to a
// [Generator].
type Params struct {
	// LineWidth is the extrusion width of the printed infill lines,
	// in micrometers.
	LineWidth geom.Coord

	// SupportingRadius is the radius within which a deposited node
	// supports material on the layer above.
	SupportingRadius geom.Coord

	// PruneLength is the distance trimmed from tree extremities on
	// each layer transition.
	PruneLength geom.Coord

	// StraighteningMagnitude bounds how far a node may move during
	// per-layer smoothing.
	StraighteningMagnitude geom.Coord
}

// Default tuning, expressed in micrometers.
const (
	DefaultLineWidth        geom.Coord = 400
	DefaultSupportingRadius geom.Coord = 2000
)

// ValidateAndSetDefaults fills unset fields with defaults derived from
// the line width, matching the usual slicer heuristics (supporting
// radius of five line widths, pruning and smoothing of one quarter of
// the supporting radius).
func (p *Params) ValidateAndSetDefaults() error {
	if p.LineWidth <= 0 {
		p.LineWidth = DefaultLineWidth
	}
	if p.SupportingRadius <= 0 {
		p.SupportingRadius = 5 * p.LineWidth
	}
	if p.PruneLength <= 0 {
		p.PruneLength = p.SupportingRadius / 4
	}
	if p.StraighteningMagnitude <= 0 {
		p.StraighteningMagnitude = p.SupportingRadius / 4
	}
	return nil
}

func (p Params) propagateParams() tree.PropagateParams {
	return tree.PropagateParams{
		PruneDistance:         p.PruneLength,
		SmoothMagnitude:       p.StraighteningMagnitude,
		MaxRemoveColinearDist: p.StraighteningMagnitude / 4,
	}
}

// Layer is the lightning forest of a single slice layer.
type Layer struct {
	Trees []*tree.Node
}

// grounding is a candidate anchor for an unsupported point: either a
// fresh root on the wall or an existing tree node.
type grounding struct {
	wall geom.Point
	node *tree.Node
	dist geom.Coord
}

// bestGrounding picks the cheapest support for p: the closest point on
// the layer's wall, or the valence-weighted closest node of any tree in
// the forest. Tree nodes are discounted by [tree.Node.WeightedDistance]
// so that growth favors attaching to well-connected branches. Candidates
// whose connecting edge would leave the region are rejected.
func (l *Layer) bestGrounding(p geom.Point, grid *locator.Grid, radius geom.Coord) (grounding, bool) {
	best := grounding{dist: math.MaxInt64}
	found := false

	if wall, ok := grid.ClosestBoundaryPoint(p); ok {
		best = grounding{wall: wall, dist: p.DistTo(wall)}
		found = true
	}

	for _, t := range l.Trees {
		t.VisitNodes(func(n *tree.Node) {
			w := n.WeightedDistance(p, radius)
			if w >= best.dist {
				return
			}
			if grid.CrossesBoundary(n.Location(), p) {
				return
			}
			best = grounding{node: n, dist: w}
			found = true
		})
	}
	return best, found
}

// attach grows the forest to support p and returns the node placed at
// p. A wall grounding starts a new tree rooted on the boundary; a node
// grounding extends the existing tree with a chain of nodes spaced at
// most radius apart, so every point of the new branch stays supported.
func (l *Layer) attach(p geom.Point, g grounding, radius geom.Coord) *tree.Node {
	if g.node == nil {
		root := tree.New(g.wall)
		l.Trees = append(l.Trees, root)
		return growChain(root, p, radius)
	}
	return growChain(g.node, p, radius)
}

// growChain adds nodes from anchor toward p, one every radius, ending
// exactly at p.
func growChain(anchor *tree.Node, p geom.Point, radius geom.Coord) *tree.Node {
	cur := anchor
	for {
		delta := p.Sub(cur.Location())
		if delta.Size() <= radius {
			return cur.AddChild(p)
		}
		step := cur.Location().Add(delta.Resized(radius))
		cur = cur.AddChild(step)
	}
}

// Fill grows the forest until every sampled point of the region is
// within the supporting radius of a node or a wall. Existing trees
// (carried down from the layer above) count toward coverage.
func (l *Layer) Fill(outlines geom.Outlines, grid *locator.Grid, params Params) {
	f := newField(outlines, grid, params.SupportingRadius)
	for _, t := range l.Trees {
		t.VisitNodes(func(n *tree.Node) {
			f.markSupported(n.Location())
		})
	}

	for budget := len(f.points); budget > 0; budget-- {
		p, ok := f.nextUnsupported()
		if !ok {
			return
		}
		if g, ok := l.bestGrounding(p, grid, params.SupportingRadius); ok {
			l.attach(p, g, params.SupportingRadius)
		}
		f.markSupported(p)
	}
}

// ReconnectRoots re-anchors trees whose roots lost their wall contact
// during propagation. A severed root remembers where it was last
// grounded; if the wall is still the nearest support it is re-rooted
// onto a fresh wall node, otherwise the whole tree is rerooted and
// grafted onto a neighboring tree.
func (l *Layer) ReconnectRoots(grid *locator.Grid, params Params) {
	kept := l.Trees[:0]
	for i, t := range l.Trees {
		loc := t.Location()
		if wall, ok := grid.ClosestBoundaryPoint(loc); ok && loc.DistTo(wall) <= params.LineWidth {
			kept = append(kept, t)
			continue
		}

		target := loc
		if g, ok := t.GroundingLocation(); ok {
			target = g
		}

		rest := &Layer{Trees: append(append([]*tree.Node{}, l.Trees[:i]...), l.Trees[i+1:]...)}
		g, ok := rest.bestGrounding(target, grid, params.SupportingRadius)
		if !ok {
			kept = append(kept, t)
			continue
		}

		if g.node == nil {
			root := tree.New(g.wall)
			if err := root.Attach(t); err == nil {
				kept = append(kept, root)
			} else {
				kept = append(kept, t)
			}
			continue
		}

		// Graft onto a neighboring tree. The grafted tree keeps its
		// structure; only ownership of the root flag changes.
		if err := g.node.Attach(t); err != nil {
			kept = append(kept, t)
		}
	}
	l.Trees = kept
}

// Polylines converts the whole forest to printable polylines.
func (l *Layer) Polylines(lineWidth geom.Coord) []geom.Polyline {
	var out []geom.Polyline
	for _, t := range l.Trees {
		out = t.ConvertToPolylines(out, lineWidth)
	}
	return out
}

// NodeCount returns the number of nodes across all trees.
func (l *Layer) NodeCount() int {
	total := 0
	for _, t := range l.Trees {
		total += t.NodeCount()
	}
	return total
}
