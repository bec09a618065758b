package scope

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Kind classifies a lexical block.
type Kind int

const (
	// KindOpen is the synthetic file-level root.
	KindOpen Kind = iota
	KindFunction
	KindClass
)

// String implements fmt.Stringer for toon serialization.
func (k Kind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// Subtype refines a Function node.
type Subtype int

const (
	SubtypeNone Subtype = iota
	SubtypeSimple
	// SubtypeVariableDefined marks a function bound by assignment
	// (x = function(...)). Such functions are not hoisted.
	SubtypeVariableDefined
)

// String implements fmt.Stringer for toon serialization.
func (s Subtype) String() string {
	switch s {
	case SubtypeNone:
		return "none"
	case SubtypeSimple:
		return "simple"
	case SubtypeVariableDefined:
		return "variable_defined"
	default:
		return "unknown"
	}
}

// SymbolKind distinguishes plain values from constructed objects.
type SymbolKind int

const (
	SymbolSimple SymbolKind = iota
	SymbolObject
)

// String implements fmt.Stringer for toon serialization.
func (k SymbolKind) String() string {
	if k == SymbolObject {
		return "object"
	}
	return "simple"
}

// Symbol is one declared variable.
type Symbol struct {
	Name string
	Line int
	Used bool
	Kind SymbolKind
	// Constructor names the class instantiated for SymbolObject symbols.
	Constructor string
}

// Node is one lexical block. A node owns its children; the parent link is a
// lookup relation only.
type Node struct {
	Kind    Kind
	Subtype Subtype
	Name    string

	// Lines holds the lines for which this node is the innermost active
	// scope. Line sets of distinct nodes never overlap.
	Lines *roaring.Bitmap

	Symbols  []*Symbol
	Children []*Node

	parent *Node
}

func newNode(kind Kind, subtype Subtype, name string) *Node {
	return &Node{
		Kind:    kind,
		Subtype: subtype,
		Name:    name,
		Lines:   roaring.New(),
	}
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether n is the file-level node.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// HasLine reports whether n is the innermost node at line.
func (n *Node) HasLine(line int) bool {
	if line <= 0 {
		return false
	}
	return n.Lines.Contains(uint32(line))
}

// FirstLine returns the first line owned by n. For Function and Class nodes
// this is the header line.
func (n *Node) FirstLine() (int, bool) {
	if n.Lines.IsEmpty() {
		return 0, false
	}
	return int(n.Lines.Minimum()), true
}

// LineNumbers returns the owned lines in ascending order.
func (n *Node) LineNumbers() []int {
	lines := make([]int, 0, n.Lines.GetCardinality())
	it := n.Lines.Iterator()
	for it.HasNext() {
		lines = append(lines, int(it.Next()))
	}
	return lines
}

// IsHeader reports whether line is the header line of a Function or Class
// node.
func (n *Node) IsHeader(line int) bool {
	if n.Kind == KindOpen {
		return false
	}
	first, ok := n.FirstLine()
	return ok && first == line
}

// Span returns the union of the lines owned by n and all its descendants.
func (n *Node) Span() *roaring.Bitmap {
	span := n.Lines.Clone()
	for _, child := range n.Children {
		span.Or(child.Span())
	}
	return span
}

func (n *Node) addChild(child *Node) {
	child.parent = n
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants in pre-order, children in source order.
// Returning false from fn skips the node's subtree.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node) bool {
		count++
		return true
	})
	return count
}
