package scope

import (
	"strconv"
	"strings"
)

// Outline is the serializable form of a scope tree.
type Outline struct {
	Kind     string          `json:"kind" toon:"kind"`
	Subtype  string          `json:"subtype,omitempty" toon:"subtype,omitempty"`
	Name     string          `json:"name,omitempty" toon:"name,omitempty"`
	Lines    string          `json:"lines" toon:"lines"`
	Symbols  []OutlineSymbol `json:"symbols,omitempty" toon:"symbols,omitempty"`
	Children []Outline       `json:"children,omitempty" toon:"children,omitempty"`
}

// OutlineSymbol is the serializable form of a Symbol.
type OutlineSymbol struct {
	Name        string `json:"name" toon:"name"`
	Line        int    `json:"line" toon:"line"`
	Kind        string `json:"kind" toon:"kind"`
	Constructor string `json:"constructor,omitempty" toon:"constructor,omitempty"`
}

// NewOutline converts the tree rooted at n.
func NewOutline(n *Node) Outline {
	o := Outline{
		Kind:  n.Kind.String(),
		Name:  n.Name,
		Lines: Ranges(n.LineNumbers()),
	}
	if n.Subtype != SubtypeNone {
		o.Subtype = n.Subtype.String()
	}
	for _, s := range n.Symbols {
		o.Symbols = append(o.Symbols, OutlineSymbol{
			Name:        s.Name,
			Line:        s.Line,
			Kind:        s.Kind.String(),
			Constructor: s.Constructor,
		})
	}
	for _, child := range n.Children {
		o.Children = append(o.Children, NewOutline(child))
	}
	return o
}

// Label is the one-line description of the node, e.g. "function foo (simple)".
func (o Outline) Label() string {
	var b strings.Builder
	b.WriteString(o.Kind)
	if o.Name != "" {
		b.WriteString(" " + o.Name)
	}
	if o.Subtype != "" {
		b.WriteString(" (" + o.Subtype + ")")
	}
	if o.Lines != "" {
		b.WriteString(" [" + o.Lines + "]")
	}
	return b.String()
}

// Ranges compresses ascending line numbers into "1-3,7,9-10".
func Ranges(lines []int) string {
	var parts []string
	for i := 0; i < len(lines); {
		j := i
		for j+1 < len(lines) && lines[j+1] == lines[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, strconv.Itoa(lines[i]))
		} else {
			parts = append(parts, strconv.Itoa(lines[i])+"-"+strconv.Itoa(lines[j]))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}
