// Package unused reports variables that are declared but never read.
//
// The analyzer makes a second pass over a file whose scope tree has already
// been built, extracts the identifiers each line appears to read, and marks
// the symbols they resolve to. A symbol is only marked when it was declared
// on an earlier line of the same scope or anywhere in an enclosing scope.
package unused

import (
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/panbanda/jscheck/pkg/analyzer"
	"github.com/panbanda/jscheck/pkg/builtins"
	"github.com/panbanda/jscheck/pkg/classify"
	"github.com/panbanda/jscheck/pkg/scope"
)

var (
	stringLiteral = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'|` + "`[^`]*`")
	callTarget    = regexp.MustCompile(`(` + classify.Ident + `(?:\.` + classify.Ident + `)*)\s*\(`)
	separators    = regexp.MustCompile(`[()\[\]{};\s+\-*/%<>=!&|^~?:,]+`)
	identOnly     = regexp.MustCompile(`^` + classify.Ident + `$`)
	returnStmt    = regexp.MustCompile(`^return\b(.*)$`)
	incDec        = regexp.MustCompile(`^(?:(` + classify.Ident + `)\s*(?:\+\+|--)|(?:\+\+|--)\s*(` + classify.Ident + `))\s*;?$`)
)

// Analyzer marks and reports unused variables.
type Analyzer struct {
	builtins *builtins.Set
}

var _ analyzer.TreeAnalyzer[[]Item] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithBuiltins replaces the default built-in name tables.
func WithBuiltins(s *builtins.Set) Option {
	return func(a *Analyzer) {
		a.builtins = s
	}
}

// New creates an unused variable analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{builtins: builtins.New()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile reads path and reports the unused variables of root.
func (a *Analyzer) AnalyzeFile(root *scope.Node, path string) ([]Item, error) {
	return analyzer.WithFile(path, func(r io.Reader) ([]Item, error) {
		return a.Analyze(root, r)
	})
}

// Analyze marks every symbol of root that a line of r reads, then returns
// the symbols left unmarked ordered by declaration line. Marks from earlier
// runs are cleared first.
func (a *Analyzer) Analyze(root *scope.Node, r io.Reader) ([]Item, error) {
	scope.Walk(root, func(n *scope.Node) bool {
		for _, sym := range n.Symbols {
			sym.Used = false
		}
		return true
	})

	current := root
	err := analyzer.ForEachLine(r, func(line int, text string) {
		current = scope.Locate(current, line)
		if scope.Skippable(current, line) || strings.TrimSpace(text) == "" {
			return
		}
		for _, name := range a.Reads(text) {
			if sym := scope.Resolve(current, name, line, true); sym != nil {
				sym.Used = true
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return Collect(root), nil
}

// Collect returns the unused symbols of root in declaration line order.
func Collect(root *scope.Node) []Item {
	items := []Item{}
	scope.Walk(root, func(n *scope.Node) bool {
		for _, sym := range n.Symbols {
			if !sym.Used {
				items = append(items, Item{
					Name:        sym.Name,
					Line:        sym.Line,
					Fingerprint: analyzer.Fingerprint(Check, sym.Name, sym.Line),
				})
			}
		}
		return true
	})
	// Pre-order does not visit nested declarations in line order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Line < items[j].Line
	})
	return items
}

// Reads returns the identifiers a line appears to read. Exactly one rule
// applies per line, tried in this order: declaration, return, increment,
// assignment, call.
func (a *Analyzer) Reads(text string) []string {
	trimmed := strings.TrimSpace(text)

	if classify.IsVariableDeclaration(text) {
		if !strings.Contains(text, "=") {
			return nil
		}
		var names []string
		for _, fragment := range strings.Split(classify.MaskParenCommas(text), ",") {
			_, rhs, ok := strings.Cut(fragment, "=")
			if !ok {
				continue
			}
			rhs = strings.TrimSpace(rhs)
			if strings.HasPrefix(rhs, "new ") {
				continue
			}
			names = append(names, a.Identifiers(rhs)...)
		}
		return names
	}

	if m := returnStmt.FindStringSubmatch(trimmed); m != nil {
		return a.Identifiers(m[1])
	}

	if m := incDec.FindStringSubmatch(trimmed); m != nil {
		if m[1] != "" {
			return []string{m[1]}
		}
		return []string{m[2]}
	}

	if lhs, rhs, ok := strings.Cut(text, "="); ok {
		return append(a.Identifiers(lhs), a.Identifiers(rhs)...)
	}

	if strings.Contains(text, "(") {
		return a.Identifiers(text)
	}

	return nil
}

// Identifiers extracts the identifiers read by an expression fragment.
// String literals and call targets are removed; a member call keeps its
// receiver unless the receiver is a built-in object. Property access a.b
// yields a. Numbers, keywords and anything still quoted are dropped.
func (a *Analyzer) Identifiers(expr string) []string {
	expr = stringLiteral.ReplaceAllString(expr, "|")
	expr = callTarget.ReplaceAllStringFunc(expr, func(m string) string {
		target := callTarget.FindStringSubmatch(m)[1]
		receiver, _, member := strings.Cut(target, ".")
		if member && !a.builtins.IsObject(receiver) {
			return receiver + "|"
		}
		return "|"
	})

	var names []string
	for _, token := range separators.Split(expr, -1) {
		if token == "" || strings.ContainsAny(token, "\"'`") {
			continue
		}
		if token[0] >= '0' && token[0] <= '9' {
			continue
		}
		token, _, _ = strings.Cut(token, ".")
		if !identOnly.MatchString(token) || a.builtins.IsKeyword(token) {
			continue
		}
		names = append(names, token)
	}
	return names
}
