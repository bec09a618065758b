package analysis

import (
	"fmt"
	"strings"

	"github.com/panbanda/jscheck/pkg/analyzer/braces"
	"github.com/panbanda/jscheck/pkg/analyzer/control"
	"github.com/panbanda/jscheck/pkg/analyzer/undeclared"
	"github.com/panbanda/jscheck/pkg/analyzer/unused"
)

// Report holds every finding for one file. Collections are never nil.
type Report struct {
	Path       string              `json:"path" toon:"path"`
	Braces     []braces.Diagnostic `json:"braces" toon:"braces"`
	Unused     []unused.Item       `json:"unused" toon:"unused"`
	Undeclared []undeclared.Item   `json:"undeclared" toon:"undeclared"`
	Control    []control.Item      `json:"control" toon:"control"`

	// Gated is set when brace diagnostics kept the scope tree analyzers
	// from running.
	Gated bool `json:"gated" toon:"gated"`
}

// NewReport returns an empty report for path.
func NewReport(path string) *Report {
	r := &Report{Path: path}
	r.normalize()
	return r
}

func (r *Report) normalize() {
	if r.Braces == nil {
		r.Braces = []braces.Diagnostic{}
	}
	if r.Unused == nil {
		r.Unused = []unused.Item{}
	}
	if r.Undeclared == nil {
		r.Undeclared = []undeclared.Item{}
	}
	if r.Control == nil {
		r.Control = []control.Item{}
	}
}

// Findings returns the total number of findings.
func (r *Report) Findings() int {
	return len(r.Braces) + len(r.Unused) + len(r.Undeclared) + len(r.Control)
}

// Summary counts findings per check.
type Summary struct {
	Files      int `json:"files" toon:"files"`
	Braces     int `json:"braces" toon:"braces"`
	Unused     int `json:"unused" toon:"unused"`
	Undeclared int `json:"undeclared" toon:"undeclared"`
	Control    int `json:"control" toon:"control"`
	Gated      int `json:"gated" toon:"gated"`
	Errors     int `json:"errors" toon:"errors"`
}

// Total returns the number of findings across all checks.
func (s Summary) Total() int {
	return s.Braces + s.Unused + s.Undeclared + s.Control
}

// Result is the outcome of a multi-file run.
type Result struct {
	Reports []*Report  `json:"reports" toon:"reports"`
	Errors  FileErrors `json:"errors,omitempty" toon:"errors,omitempty"`
}

// Summary aggregates the reports in r.
func (r *Result) Summary() Summary {
	s := Summary{Files: len(r.Reports), Errors: len(r.Errors)}
	for _, rep := range r.Reports {
		s.Braces += len(rep.Braces)
		s.Unused += len(rep.Unused)
		s.Undeclared += len(rep.Undeclared)
		s.Control += len(rep.Control)
		if rep.Gated {
			s.Gated++
		}
	}
	return s
}

// HasFindings reports whether any file has at least one finding.
func (r *Result) HasFindings() bool {
	return r.Summary().Total() > 0
}

// FileError is a failure to analyze one file.
type FileError struct {
	Path string `json:"path" toon:"path"`
	Err  error  `json:"-" toon:"-"`
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// MarshalText renders the error for JSON and TOON output.
func (e FileError) MarshalText() ([]byte, error) {
	return []byte(e.Error()), nil
}

// FileErrors collects per-file failures of a multi-file run.
type FileErrors []FileError

func (e FileErrors) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("%d files failed:\n  %s", len(e), strings.Join(msgs, "\n  "))
}

// FileTooLargeError indicates a file over the configured size limit.
type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, over the %d byte limit", e.Path, e.Size, e.Limit)
}
