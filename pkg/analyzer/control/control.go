// Package control finds if and else statements whose body is not wrapped in
// braces.
package control

import (
	"io"
	"regexp"
	"strings"

	"github.com/panbanda/jscheck/pkg/analyzer"
)

var (
	ifHeader    = regexp.MustCompile(`\bif\s*\(`)
	ifBlock     = regexp.MustCompile(`\)\s*\{`)
	elseHeader  = regexp.MustCompile(`\belse\b`)
	elseBlocked = regexp.MustCompile(`\belse\s*(?:\{|if\b)`)
)

// Analyzer reports brace-less control statements.
type Analyzer struct{}

var _ analyzer.FileAnalyzer[[]Item] = (*Analyzer)(nil)

// New creates a control statement analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// AnalyzeFile checks the file at path.
func (a *Analyzer) AnalyzeFile(path string) ([]Item, error) {
	return analyzer.WithFile(path, a.Analyze)
}

// Analyze returns the brace-less if and else statements of r in encounter
// order. A header without "{" is only reported when the next non-blank line
// does not start with "{" either.
func (a *Analyzer) Analyze(r io.Reader) ([]Item, error) {
	items := []Item{}
	var pendingIf, pendingElse int

	flag := func(line int, kw Keyword) {
		items = append(items, Item{
			Line:        line,
			Keyword:     kw,
			Fingerprint: analyzer.Fingerprint(Check, string(kw), line),
		})
	}

	err := analyzer.ForEachLine(r, func(line int, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		opens := text[0] == '{'

		if pendingIf != 0 {
			if !opens {
				flag(pendingIf, KeywordIf)
			}
			pendingIf = 0
		}
		if pendingElse != 0 {
			if !opens {
				flag(pendingElse, KeywordElse)
			}
			pendingElse = 0
		}

		if ifHeader.MatchString(text) && !ifBlock.MatchString(text) {
			pendingIf = line
		}
		if elseHeader.MatchString(text) && !elseBlocked.MatchString(text) {
			pendingElse = line
		}
	})
	return items, err
}
