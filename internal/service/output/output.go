package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/panbanda/jscheck/internal/output"
	"github.com/panbanda/jscheck/internal/service/analysis"
	"github.com/panbanda/jscheck/pkg/analyzer/braces"
	"github.com/panbanda/jscheck/pkg/analyzer/control"
	"github.com/panbanda/jscheck/pkg/analyzer/undeclared"
	"github.com/panbanda/jscheck/pkg/analyzer/unused"
)

// Format represents output format.
type Format = output.Format

// Supported formats (re-exported for convenience).
const (
	FormatText     = output.FormatText
	FormatJSON     = output.FormatJSON
	FormatMarkdown = output.FormatMarkdown
	FormatTOON     = output.FormatTOON
)

// Service renders analysis results.
type Service struct {
	format    Format
	writer    io.Writer
	colored   bool
	filePath  string
	base      string
	formatter *output.Formatter
}

// Option configures a Service.
type Option func(*Service)

// WithFormat sets the output format.
func WithFormat(f Format) Option {
	return func(s *Service) {
		s.format = f
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(s *Service) {
		s.writer = w
	}
}

// WithColor enables or disables colored output.
func WithColor(enabled bool) Option {
	return func(s *Service) {
		s.colored = enabled
	}
}

// WithFile sets output to a file.
func WithFile(path string) Option {
	return func(s *Service) {
		s.filePath = path
	}
}

// WithBase makes report paths relative to dir.
func WithBase(dir string) Option {
	return func(s *Service) {
		s.base = dir
	}
}

// New creates a new output service.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		format:  FormatText,
		writer:  os.Stdout,
		colored: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.filePath != "" {
		f, err := output.NewFormatter(s.format, s.filePath, false)
		if err != nil {
			return nil, err
		}
		s.formatter = f
		s.writer = f.Writer()
		s.colored = false
		return s, nil
	}
	s.formatter = output.NewWriterFormatter(s.format, s.writer, s.colored)
	return s, nil
}

// Close closes the output file, if any.
func (s *Service) Close() error {
	return s.formatter.Close()
}

// Format returns the current format.
func (s *Service) Format() Format {
	return s.format
}

// Writer returns the current writer.
func (s *Service) Writer() io.Writer {
	return s.writer
}

// Colored returns whether output should be colored.
func (s *Service) Colored() bool {
	return s.colored
}

// Formatter returns the underlying formatter, for status messages.
func (s *Service) Formatter() *output.Formatter {
	return s.formatter
}

// Output writes arbitrary data in the configured format.
func (s *Service) Output(data any) error {
	return s.formatter.Output(data)
}

// Result writes every report of res followed by a summary.
func (s *Service) Result(res *analysis.Result) error {
	return s.formatter.Output(Render(res, s.base))
}

// ResultView is the serialized form of a multi-file run.
type ResultView struct {
	Summary analysis.Summary   `json:"summary" toon:"summary"`
	Reports []*analysis.Report `json:"reports" toon:"reports"`
	Errors  []ErrorView        `json:"errors,omitempty" toon:"errors,omitempty"`
}

// ErrorView is the serialized form of a per-file failure.
type ErrorView struct {
	Path  string `json:"path" toon:"path"`
	Error string `json:"error" toon:"error"`
}

// View converts res to its serialized form with paths relative to base.
func View(res *analysis.Result, base string) ResultView {
	view := ResultView{
		Summary: res.Summary(),
		Reports: make([]*analysis.Report, len(res.Reports)),
	}
	for i, r := range res.Reports {
		cp := *r
		cp.Path = relPath(base, r.Path)
		view.Reports[i] = &cp
	}
	for _, fe := range res.Errors {
		view.Errors = append(view.Errors, ErrorView{Path: relPath(base, fe.Path), Error: fe.Err.Error()})
	}
	return view
}

// Render builds the Renderable for res: one document per file and a
// closing summary.
func Render(res *analysis.Result, base string) output.Renderable {
	group := output.Group{}
	for _, r := range res.Reports {
		group = append(group, ReportDocument(r, base))
	}
	group = append(group, summaryTable(res, base))
	return &viewRenderable{Group: group, data: View(res, base)}
}

// ReportDocument renders the findings of one file.
func ReportDocument(r *analysis.Report, base string) *output.Document {
	doc := &output.Document{
		Title: relPath(base, r.Path),
		Parts: []output.Renderable{
			bracesTable(r.Braces),
			unusedTable(r.Unused),
			undeclaredTable(r.Undeclared),
			controlTable(r.Control),
		},
		Data: r,
	}
	if r.Gated {
		doc.Note = "Unused variable and undeclared function checks were skipped until the curly brackets balance."
	}
	return doc
}

func bracesTable(diags []braces.Diagnostic) *output.Table {
	rows := make([][]string, len(diags))
	for i, d := range diags {
		rows[i] = []string{strconv.Itoa(d.Line), d.Status.Description()}
	}
	t := output.NewTable("Curly brackets", []string{"Line", "Status"}, rows, diags)
	t.Empty = "Curly brackets are balanced."
	return t
}

func unusedTable(items []unused.Item) *output.Table {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.Itoa(it.Line), it.Name}
	}
	t := output.NewTable("Unused variables", []string{"Line", "Variable"}, rows, items)
	t.Empty = "No unused variables found."
	return t
}

func undeclaredTable(items []undeclared.Item) *output.Table {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.Itoa(it.Line), it.Name}
	}
	t := output.NewTable("Functions called but not declared (or out of scope)", []string{"Line", "Function"}, rows, items)
	t.Empty = "All functions called are declared."
	return t
}

func controlTable(items []control.Item) *output.Table {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.Itoa(it.Line), strings.ToLower(it.Keyword.String())}
	}
	t := output.NewTable("Single line if/else statements", []string{"Line", "Statement"}, rows, items)
	t.Empty = "No single line if/else statements found."
	return t
}

func summaryTable(res *analysis.Result, base string) *output.Table {
	sum := res.Summary()
	rows := [][]string{
		{"Files", strconv.Itoa(sum.Files)},
		{"Curly brackets", strconv.Itoa(sum.Braces)},
		{"Unused variables", strconv.Itoa(sum.Unused)},
		{"Undeclared functions", strconv.Itoa(sum.Undeclared)},
		{"Single line if/else", strconv.Itoa(sum.Control)},
	}
	if sum.Gated > 0 {
		rows = append(rows, []string{"Scope checks skipped", strconv.Itoa(sum.Gated)})
	}
	for _, fe := range res.Errors {
		rows = append(rows, []string{"Failed: " + relPath(base, fe.Path), fe.Err.Error()})
	}
	t := output.NewTable("Summary", []string{"Check", "Count"}, rows, sum)
	t.Footer = []string{"Total", strconv.Itoa(sum.Total())}
	return t
}

// viewRenderable renders a group as text and markdown but serializes the
// flat result view.
type viewRenderable struct {
	output.Group
	data ResultView
}

func (v *viewRenderable) RenderData() any {
	return v.data
}

func relPath(base, path string) string {
	if base == "" {
		return path
	}
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// ParseFormat parses a format string into a Format.
func ParseFormat(s string) Format {
	return output.ParseFormat(s)
}

// Describe returns a one-line summary of res for status messages.
func Describe(res *analysis.Result) string {
	sum := res.Summary()
	if sum.Total() == 0 {
		return fmt.Sprintf("No problems found in %d files.", sum.Files)
	}
	return fmt.Sprintf("%d problems found in %d files.", sum.Total(), sum.Files)
}
