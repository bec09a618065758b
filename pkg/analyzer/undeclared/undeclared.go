// Package undeclared reports calls to functions and methods that are not
// declared in any visible scope.
package undeclared

import (
	"io"
	"regexp"
	"strings"

	"github.com/panbanda/jscheck/pkg/analyzer"
	"github.com/panbanda/jscheck/pkg/builtins"
	"github.com/panbanda/jscheck/pkg/classify"
	"github.com/panbanda/jscheck/pkg/scope"
)

var (
	construction = regexp.MustCompile(`\b(?:var|let)\s+` + classify.Ident + `\s*=\s*new\s+`)
	memberCall   = regexp.MustCompile(`(` + classify.Ident + `)\.(` + classify.Ident + `)\(`)
	plainCall    = regexp.MustCompile(`(` + classify.Ident + `)\(`)
	newPrefix    = regexp.MustCompile(`\bnew\s+$`)
)

// Analyzer reports unresolved calls.
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

// New creates an undeclared call analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{builtins: builtins.New()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile reads path and reports the unresolved calls against root.
func (a *Analyzer) AnalyzeFile(root *scope.Node, path string) ([]Item, error) {
	return analyzer.WithFile(path, func(r io.Reader) ([]Item, error) {
		return a.Analyze(root, r)
	})
}

// Analyze reports, in line order, every call on r whose callee does not
// resolve from the scope active at that line. At most one call is checked
// per line.
func (a *Analyzer) Analyze(root *scope.Node, r io.Reader) ([]Item, error) {
	items := []Item{}
	current := root
	err := analyzer.ForEachLine(r, func(line int, text string) {
		current = scope.Locate(current, line)
		if scope.Skippable(current, line) || strings.TrimSpace(text) == "" {
			return
		}
		if name, ok := a.check(current, line, text); ok {
			items = append(items, Item{
				Name:        name,
				Line:        line,
				Fingerprint: analyzer.Fingerprint(Check, name, line),
			})
		}
	})
	if err != nil {
		return items, err
	}
	return items, nil
}

// check returns the name of the unresolved callee on the line, if any.
func (a *Analyzer) check(node *scope.Node, line int, text string) (string, bool) {
	if construction.MatchString(text) {
		return "", false
	}

	if m := memberCall.FindStringSubmatch(text); m != nil {
		return a.checkMember(node, line, m[1], m[2])
	}

	for _, loc := range plainCall.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		if a.builtins.IsKeyword(name) {
			continue
		}
		if a.builtins.IsFunction(name) {
			return "", false
		}
		if newPrefix.MatchString(text[:loc[0]]) {
			if a.builtins.IsObject(name) || scope.ResolveClass(node, name) != nil {
				return "", false
			}
			return name, true
		}
		if scope.ResolveFunction(node, name, line) == nil {
			return name, true
		}
		return "", false
	}
	return "", false
}

// checkMember resolves obj.fn( through the class obj was constructed from.
// Receivers that are not known objects are skipped.
func (a *Analyzer) checkMember(node *scope.Node, line int, obj, fn string) (string, bool) {
	if a.builtins.IsObject(obj) {
		return "", false
	}
	sym := scope.Resolve(node, obj, line, true)
	if sym == nil || sym.Kind != scope.SymbolObject {
		return "", false
	}
	if a.builtins.IsMethod(fn) {
		return "", false
	}
	class := scope.ResolveClass(node, sym.Constructor)
	if class == nil || scope.Member(class, fn) == nil {
		return fn, true
	}
	return "", false
}
