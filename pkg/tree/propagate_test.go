package tree

import (
	"testing"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/locator"
)

func square(minX, minY, maxX, maxY geom.Coord) geom.Polygon {
	return geom.Polygon{
		{X: minX, Y: minY}, {X: maxX, Y: minY}, {X: maxX, Y: maxY}, {X: minX, Y: maxY},
	}
}

func propagate(n *Node, outlines geom.Outlines, params PropagateParams) []*Node {
	grid := locator.New(outlines, locator.DefaultCellSize)
	return n.PropagateToNextLayer(nil, outlines, grid, params)
}

func TestPropagateKeepsContainedTreeIntact(t *testing.T) {
	outlines := geom.Outlines{square(-5000, -5000, 5000, 5000)}
	root, _, _, _, _ := buildY()
	before := edgeSet(root)

	next := propagate(root, outlines, PropagateParams{})

	if len(next) != 1 {
		t.Fatalf("got %d trees, want 1", len(next))
	}
	if !sameEdges(edgeSet(next[0]), before) {
		t.Error("fully contained tree should propagate unchanged")
	}
	// The original must stay untouched for the current layer's output.
	if !sameEdges(edgeSet(root), before) {
		t.Error("propagation mutated the original tree")
	}
}

func TestPropagateSnapsOutsideNodesOntoBoundary(t *testing.T) {
	outlines := geom.Outlines{square(0, 0, 10000, 10000)}
	root := New(geom.Point{X: 5000, Y: 5000})
	root.AddChild(geom.Point{X: 5000, Y: 12000}) // sticks out the top

	next := propagate(root, outlines, PropagateParams{})

	if len(next) != 1 {
		t.Fatalf("got %d trees, want 1", len(next))
	}
	next[0].VisitNodes(func(n *Node) {
		if !outlines.Inside(n.Location()) {
			t.Errorf("node at %v lies outside the next layer's boundary", n.Location())
		}
	})
	if got := next[0].Children()[0].Location(); got != (geom.Point{X: 5000, Y: 10000}) {
		t.Errorf("outside node snapped to %v, want {5000 10000}", got)
	}
}

func TestPropagateSplitsWhenRegionSplits(t *testing.T) {
	// The root's position disappears between layers; the region breaks
	// into two islands, one around each child.
	islands := geom.Outlines{
		square(0, 0, 1000, 1000),
		square(4000, 0, 5000, 1000),
	}
	root := New(geom.Point{X: 2500, Y: 500})
	root.AddChild(geom.Point{X: 500, Y: 500})
	root.AddChild(geom.Point{X: 4500, Y: 500})

	next := propagate(root, islands, PropagateParams{})

	if len(next) != 2 {
		t.Fatalf("got %d trees, want 2 (one per island)", len(next))
	}
	for _, tr := range next {
		if !tr.IsRoot() {
			t.Error("severed child should have become a root")
		}
		if tr.NodeCount() != 1 {
			t.Errorf("island tree has %d nodes, want 1", tr.NodeCount())
		}
		if !islands.Inside(tr.Location()) {
			t.Errorf("island tree root at %v is outside the region", tr.Location())
		}
		// The severed branch remembers where it used to be anchored.
		if g, ok := tr.GroundingLocation(); !ok || g != (geom.Point{X: 2500, Y: 500}) {
			t.Errorf("grounding = %v, %v; want the old root location", g, ok)
		}
	}
}

func TestPropagateEmptyOutlinesDiscardsTree(t *testing.T) {
	root, _, _, _, _ := buildY()

	next := propagate(root, nil, PropagateParams{})
	if len(next) != 0 {
		t.Errorf("got %d trees against an empty boundary, want 0", len(next))
	}
}

func TestPropagateAppliesPruneAndSmooth(t *testing.T) {
	outlines := geom.Outlines{square(-5000, -5000, 5000, 5000)}
	root := New(geom.Point{X: 0, Y: 0})
	mid := root.AddChild(geom.Point{X: 100, Y: 1000})
	mid.AddChild(geom.Point{X: 0, Y: 2000})

	next := propagate(root, outlines, PropagateParams{
		PruneDistance:         500,
		SmoothMagnitude:       100,
		MaxRemoveColinearDist: 50,
	})

	if len(next) != 1 {
		t.Fatalf("got %d trees, want 1", len(next))
	}
	// Straightening collapses mid onto the root-leaf line, then pruning
	// pulls the leaf back by 500.
	got := next[0]
	if got.NodeCount() != 2 {
		t.Fatalf("propagated tree has %d nodes, want 2", got.NodeCount())
	}
	leaf := got.Children()[0]
	if leaf.Location() != (geom.Point{X: 0, Y: 1500}) {
		t.Errorf("leaf at %v, want {0 1500}", leaf.Location())
	}
	// The original is untouched.
	if mid.Location() != (geom.Point{X: 100, Y: 1000}) {
		t.Error("propagation mutated the original tree")
	}
}
