package scope

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrMalformedTree is wrapped by every error returned from Verify.
var ErrMalformedTree = errors.New("malformed scope tree")

// Verify checks the structural invariants of a tree produced by Builder:
// it is acyclic with a single root, every node has at most one parent,
// parent links agree with child lists, no line is owned by two nodes, and
// every node's span lies within its parent's.
//
// Nodes are collected through both child lists and parent links, so a
// parent link leading out of the tree shows up as a second root.
func Verify(root *Node) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrMalformedTree)
	}

	g, ids, loops := nodeGraph(root)
	if len(loops) > 0 {
		return fmt.Errorf("%w: %w", ErrMalformedTree, loops)
	}
	if _, err := topo.Sort(g); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedTree, err)
	}

	roots := 0
	for n, id := range ids {
		in := g.To(id).Len()
		if in == 0 {
			roots++
		} else if in > 1 {
			return fmt.Errorf("%w: node %q has %d parents", ErrMalformedTree, n.Name, in)
		}
	}
	if roots != 1 {
		return fmt.Errorf("%w: %d roots", ErrMalformedTree, roots)
	}
	if root.parent != nil {
		return fmt.Errorf("%w: root has a parent", ErrMalformedTree)
	}

	for n := range ids {
		for _, child := range n.Children {
			if child.parent != n {
				return fmt.Errorf("%w: child %q does not point back to %q", ErrMalformedTree, child.Name, n.Name)
			}
		}
	}

	owned := roaring.New()
	var lineErr error
	Walk(root, func(n *Node) bool {
		if owned.Intersects(n.Lines) {
			dup := roaring.And(owned, n.Lines)
			lineErr = fmt.Errorf("%w: line %d owned twice", ErrMalformedTree, dup.Minimum())
			return false
		}
		owned.Or(n.Lines)

		if n.parent != nil {
			outside := roaring.AndNot(n.Span(), n.parent.Span())
			if !outside.IsEmpty() {
				lineErr = fmt.Errorf("%w: line %d of %q outside its parent", ErrMalformedTree, outside.Minimum(), n.Name)
				return false
			}
		}
		return true
	})
	return lineErr
}

// nodeGraph maps every node reachable from start through children or
// parent links to a graph node, with one edge per child list entry. Simple
// graphs have no self edges, so nodes listed among their own children are
// returned as one-node cyclic components instead.
func nodeGraph(start *Node) (*simple.DirectedGraph, map[*Node]int64, topo.Unorderable) {
	g := simple.NewDirectedGraph()
	ids := make(map[*Node]int64)
	id := func(n *Node) int64 {
		if v, ok := ids[n]; ok {
			return v
		}
		v := int64(len(ids))
		ids[n] = v
		g.AddNode(simple.Node(v))
		return v
	}

	var loops topo.Unorderable
	queue := []*Node{start}
	visited := map[*Node]bool{start: true}
	visit := func(n *Node) {
		if n != nil && !visited[n] {
			visited[n] = true
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		from := id(n)
		for _, child := range n.Children {
			if child == n {
				loops = append(loops, []graph.Node{simple.Node(from)})
				continue
			}
			g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(id(child))})
			visit(child)
		}
		visit(n.parent)
	}
	return g, ids, loops
}
