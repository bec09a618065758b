package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/panbanda/jscheck/pkg/scope"
)

// TreeView is the serialized form of a scope tree.
type TreeView struct {
	Path  string        `json:"path" toon:"path"`
	Nodes int           `json:"nodes" toon:"nodes"`
	Root  scope.Outline `json:"root" toon:"root"`
}

// Tree renders the scope tree rooted at root as an indented outline.
func Tree(path string, root *scope.Node) *TreeRenderable {
	return &TreeRenderable{view: TreeView{
		Path:  path,
		Nodes: scope.Count(root),
		Root:  scope.NewOutline(root),
	}}
}

// TreeRenderable implements output.Renderable for scope trees.
type TreeRenderable struct {
	view TreeView
}

// View returns the serialized tree.
func (t *TreeRenderable) View() TreeView {
	return t.view
}

func (t *TreeRenderable) RenderText(w io.Writer, colored bool) error {
	title := t.view.Path
	if colored {
		title = color.New(color.Bold).Sprint(title)
	}
	if _, err := fmt.Fprintf(w, "%s (%d nodes)\n", title, t.view.Nodes); err != nil {
		return err
	}
	return writeOutline(w, t.view.Root, 0, colored, "  ")
}

func (t *TreeRenderable) RenderMarkdown(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "## %s\n\n", t.view.Path); err != nil {
		return err
	}
	return writeOutline(w, t.view.Root, 0, false, "- ")
}

func (t *TreeRenderable) RenderData() any {
	return t.view
}

func writeOutline(w io.Writer, o scope.Outline, depth int, colored bool, bullet string) error {
	label := o.Label()
	if colored {
		switch o.Kind {
		case "function":
			label = color.CyanString("%s", label)
		case "class":
			label = color.MagentaString("%s", label)
		}
	}
	indent := strings.Repeat("  ", depth)
	if _, err := fmt.Fprintf(w, "%s%s%s\n", indent, bullet, label); err != nil {
		return err
	}
	for _, s := range o.Symbols {
		sym := fmt.Sprintf("%s:%d", s.Name, s.Line)
		if s.Constructor != "" {
			sym += " = new " + s.Constructor
		}
		if _, err := fmt.Fprintf(w, "%s  %s%s\n", indent, bullet, sym); err != nil {
			return err
		}
	}
	for _, child := range o.Children {
		if err := writeOutline(w, child, depth+1, colored, bullet); err != nil {
			return err
		}
	}
	return nil
}
