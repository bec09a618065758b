// Package analyzer holds the pieces shared by the individual checks under
// pkg/analyzer: the analyzer interfaces, line iteration, finding
// fingerprints, the per-file worker pool and progress tracking.
package analyzer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/panbanda/jscheck/pkg/scope"
)

// FileAnalyzer is implemented by checks that scan a file on their own,
// without a scope tree.
type FileAnalyzer[T any] interface {
	// AnalyzeFile opens path, scans it once and closes it.
	AnalyzeFile(path string) (T, error)

	// Analyze scans r from the first line.
	Analyze(r io.Reader) (T, error)
}

// TreeAnalyzer is implemented by checks that resolve names against the scope
// tree built from the same file.
type TreeAnalyzer[T any] interface {
	AnalyzeFile(root *scope.Node, path string) (T, error)
	Analyze(root *scope.Node, r io.Reader) (T, error)
}

// MaxLineSize bounds a single source line.
const MaxLineSize = 4 * 1024 * 1024

// ForEachLine calls fn for every line of r with its 1-based number.
func ForEachLine(r io.Reader, fn func(line int, text string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	line := 0
	for scanner.Scan() {
		line++
		fn(line, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading line %d: %w", line+1, err)
	}
	return nil
}

// WithFile opens path for the duration of fn. The handle never outlives the
// call.
func WithFile[T any](path string, fn func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, err
	}
	defer f.Close()

	return fn(f)
}

// Fingerprint identifies a finding by check, name and line so the same
// finding gets the same ID across runs.
func Fingerprint(check, name string, line int) string {
	d := xxhash.New()
	_, _ = d.WriteString(check)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(strconv.Itoa(line))
	return fmt.Sprintf("%016x", d.Sum64())
}
