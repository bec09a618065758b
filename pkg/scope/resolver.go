package scope

// Step maps a line back to its active node, moving at most one level away
// from hint: hint itself when it owns the line, else the child of hint that
// owns it, else hint's parent. Forward scans call it once per line.
func Step(hint *Node, line int) *Node {
	if hint.HasLine(line) {
		return hint
	}
	for _, child := range hint.Children {
		if child.HasLine(line) {
			return child
		}
	}
	if hint.parent == nil {
		return hint
	}
	return hint.parent
}

// Locate repeats Step until it reaches the node owning line. A line that
// closes several blocks at once leaves the next line more than one level
// above the hint, which a single Step cannot correct.
//
// If the walk reaches the root without finding an owner, the whole tree is
// searched. Lines no node owns (past end of input) map to the root.
func Locate(hint *Node, line int) *Node {
	node := hint
	for !node.HasLine(line) {
		next := Step(node, line)
		if next == node {
			break
		}
		node = next
	}
	if node.HasLine(line) {
		return node
	}

	root := node
	for root.parent != nil {
		root = root.parent
	}
	owner := root
	Walk(root, func(n *Node) bool {
		if n.HasLine(line) {
			owner = n
			return false
		}
		return true
	})
	return owner
}

// Resolve finds the symbol name visible from node at line. In node itself a
// symbol only matches when it was declared before line (if respectOrder is
// set); in ancestors any declaration matches regardless of line.
func Resolve(node *Node, name string, line int, respectOrder bool) *Symbol {
	if name == "" {
		return nil
	}
	for n := node; n != nil; n = n.parent {
		for _, sym := range n.Symbols {
			if sym.Name != name {
				continue
			}
			if n == node && respectOrder && sym.Line >= line {
				continue
			}
			return sym
		}
	}
	return nil
}

// ResolveFunction finds the function name callable from node at line.
// Statement functions are hoisted. A function bound by assignment declared
// directly in node only resolves once its header line is behind the call.
func ResolveFunction(node *Node, name string, line int) *Node {
	if name == "" {
		return nil
	}
	for n := node; n != nil; n = n.parent {
		for _, child := range n.Children {
			if child.Kind != KindFunction || child.Name != name {
				continue
			}
			if n == node && child.Subtype == SubtypeVariableDefined {
				if first, ok := child.FirstLine(); !ok || first >= line {
					continue
				}
			}
			return child
		}
	}
	return nil
}

// ResolveClass finds a class called name declared in node or any ancestor.
func ResolveClass(node *Node, name string) *Node {
	if name == "" {
		return nil
	}
	for n := node; n != nil; n = n.parent {
		for _, child := range n.Children {
			if child.Kind == KindClass && child.Name == name {
				return child
			}
		}
	}
	return nil
}

// Member returns the member function called name declared in class.
func Member(class *Node, name string) *Node {
	for _, child := range class.Children {
		if child.Kind == KindFunction && child.Name == name {
			return child
		}
	}
	return nil
}

// Skippable reports whether line at node carries no expressions of its own:
// class bodies and block header lines.
func Skippable(node *Node, line int) bool {
	return node.Kind == KindClass || node.IsHeader(line)
}
