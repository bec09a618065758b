// Package braces checks that curly braces balance, with extra attention to
// function and class headers and to class members whose body never closed.
//
// The checker is a single forward pass over trimmed non-blank lines and does
// not use the scope tree. After reporting an anomaly it adjusts its counter
// as if the code had been correct, so one mistake yields one diagnostic.
package braces

import (
	"io"
	"strings"

	"github.com/panbanda/jscheck/pkg/analyzer"
	"github.com/panbanda/jscheck/pkg/classify"
)

// Analyzer checks brace balance.
type Analyzer struct{}

var _ analyzer.FileAnalyzer[[]Diagnostic] = (*Analyzer)(nil)

// New creates a brace balance analyzer.
func New() *Analyzer {
	return &Analyzer{}
}

// AnalyzeFile checks the file at path.
func (a *Analyzer) AnalyzeFile(path string) ([]Diagnostic, error) {
	return analyzer.WithFile(path, a.Analyze)
}

// Analyze returns the diagnostics for r in encounter order.
func (a *Analyzer) Analyze(r io.Reader) ([]Diagnostic, error) {
	s := &state{diags: []Diagnostic{}}
	err := analyzer.ForEachLine(r, func(line int, text string) {
		s.last = line
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		s.step(line, text)
	})
	if err != nil {
		return s.diags, err
	}

	if s.open > 0 {
		s.report(s.last, MissingClosingBracket)
	}
	return s.diags, nil
}

type state struct {
	diags []Diagnostic
	last  int

	open int

	inClass   bool
	classLine int
	// baseline is the open count outside the class being scanned.
	baseline int
	// member is the header line of the last member seen in the class.
	member int

	expectOpen bool
	headerLine int
}

func (s *state) report(line int, status Status) {
	s.diags = append(s.diags, Diagnostic{
		Line:        line,
		Status:      status,
		Fingerprint: analyzer.Fingerprint(Check, string(status), line),
	})
}

func (s *state) step(line int, text string) {
	s.open += strings.Count(text, "{") - strings.Count(text, "}")
	if s.open < 0 {
		s.report(line, ExtraClosingBrace)
		s.open = 0
	}

	if s.expectOpen {
		s.expectOpen = false
		if text[0] != '{' {
			s.report(s.headerLine, MissingOpeningBrace)
			s.open++
		}
	}

	if s.inClass && s.open == s.baseline {
		s.inClass = false
		s.member = 0
	}

	if s.inClass {
		s.classBody(line, text)
		return
	}

	if classify.IsClassDeclaration(text) {
		s.inClass = true
		s.classLine = line
		s.member = 0
		if strings.Contains(text, "{") {
			s.baseline = s.open - 1
		} else {
			s.baseline = s.open
			s.expect(line)
		}
	}
	if classify.IsFunctionDeclaration(text) && !strings.Contains(text, "{") {
		s.expect(line)
	}
}

func (s *state) classBody(line int, text string) {
	// A new class or function inside a class body means the class never
	// closed.
	if classify.IsClassDeclaration(text) || classify.IsFunctionDeclaration(text) {
		s.report(s.unclosed(), MissingClosingBracket)
		s.open--
	}

	if !isMemberHeader(text) {
		return
	}

	// A member header one level deeper than a sibling's body means the
	// previous member is still open.
	depth := s.baseline + 3
	if !strings.Contains(text, "{") {
		s.expect(line)
		depth = s.baseline + 2
	}
	if s.open == depth {
		s.report(s.unclosed(), MissingClosingBracket)
		s.open--
	}
	s.member = line
}

func (s *state) expect(line int) {
	s.expectOpen = true
	s.headerLine = line
}

// unclosed is the line blamed for a block that never closed: the previous
// member header, or the class header when no member has been seen.
func (s *state) unclosed() int {
	if s.member != 0 {
		return s.member
	}
	return s.classLine
}

func isMemberHeader(text string) bool {
	return classify.IsConstructor(text) ||
		classify.IsSetter(text) ||
		classify.IsGetter(text) ||
		classify.IsClassMember(text)
}
