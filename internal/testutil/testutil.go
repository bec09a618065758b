// Package testutil holds fixtures shared by jscheck tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Scenario declares b on line 3 without reading it and calls the
// undeclared bar on line 6. Its braces balance and it has no single line
// if/else statements.
const Scenario = `let a = 1;
function foo() {
  let b = a;
}
foo();
bar();
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// WriteJS writes a source file into dir and returns its path.
func WriteJS(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	WriteFile(t, path, content)
	return path
}

// WriteTree creates files under root from a map of slash path to content.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, filepath.Join(root, filepath.FromSlash(name)), content)
	}
}

// ReadFile returns the content of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}
