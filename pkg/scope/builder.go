// Package scope builds and queries the tree of lexical blocks of a single
// JavaScript file.
//
// The tree is produced in one forward pass over the file's lines. Only
// functions and classes are modeled as blocks; braces of if/for/while blocks
// are absorbed by the enclosing function's delimiter count.
package scope

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/panbanda/jscheck/pkg/classify"
)

// Builder folds lines into a scope tree. The zero value is not usable; call
// NewBuilder.
type Builder struct {
	root    *Node
	current *Node
	line    int

	// open counts unmatched '{' per Function or Class node still being
	// built. It is discarded with the builder.
	open map[*Node]int
}

// NewBuilder returns a builder positioned before the first line.
func NewBuilder() *Builder {
	root := newNode(KindOpen, SubtypeSimple, "")
	return &Builder{
		root:    root,
		current: root,
		open:    make(map[*Node]int),
	}
}

// Step consumes the next line of the file.
func (b *Builder) Step(text string) {
	b.line++

	if b.current.Kind == KindClass {
		if classify.IsClassMember(text) {
			b.descend(newNode(KindFunction, SubtypeNone, classify.MemberName(text)))
		}
	} else {
		switch {
		case classify.IsFunctionDeclaration(text):
			subtype := SubtypeSimple
			if classify.IsAssignedFunction(text) {
				subtype = SubtypeVariableDefined
			}
			b.descend(newNode(KindFunction, subtype, classify.FunctionName(text)))
		case classify.IsClassDeclaration(text):
			b.descend(newNode(KindClass, SubtypeNone, classify.ClassName(text)))
		case classify.IsVariableDeclaration(text):
			b.declare(text)
		}
	}

	b.current.Lines.Add(uint32(b.line))
	b.balance(text)
}

// Root returns the root of the tree built so far.
func (b *Builder) Root() *Node {
	return b.root
}

// Current returns the innermost node still open after the last line.
func (b *Builder) Current() *Node {
	return b.current
}

// Line returns the number of lines consumed.
func (b *Builder) Line() int {
	return b.line
}

func (b *Builder) descend(child *Node) {
	b.current.addChild(child)
	b.current = child
}

func (b *Builder) declare(text string) {
	for _, decl := range classify.Declarations(text) {
		sym := &Symbol{Name: decl.Name, Line: b.line, Kind: SymbolSimple}
		if decl.IsObject() {
			sym.Kind = SymbolObject
			sym.Constructor = decl.Constructor
		}
		b.current.Symbols = append(b.current.Symbols, sym)
	}
}

// balance updates the delimiter count of the current block and climbs out
// of every block the line closes.
func (b *Builder) balance(text string) {
	for _, c := range text {
		if b.current.Kind == KindOpen {
			return
		}
		switch c {
		case '{':
			b.open[b.current]++
		case '}':
			b.open[b.current]--
			if b.open[b.current] == 0 {
				delete(b.open, b.current)
				b.current = b.current.parent
			}
		}
	}
}

// Build reads every line from r and returns the root of the scope tree.
func Build(r io.Reader) (*Node, error) {
	b := NewBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		b.Step(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return b.Root(), nil
}

// BuildFile builds the scope tree of the file at path.
func BuildFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Build(f)
}

// maxLineSize bounds a single source line; minified bundles can exceed the
// bufio default.
const maxLineSize = 4 * 1024 * 1024
