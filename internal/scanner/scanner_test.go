package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/panbanda/jscheck/internal/testutil"
	"github.com/panbanda/jscheck/pkg/config"
)

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	root, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatal(err)
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewScanner(t *testing.T) {
	s := NewScanner(nil)
	if s == nil {
		t.Fatal("NewScanner(nil) returned nil")
	}
	if s.config == nil {
		t.Error("scanner.config should not be nil when passing nil")
	}

	cfg := config.DefaultConfig()
	s = NewScanner(cfg)
	if s.config != cfg {
		t.Error("scanner.config should be the provided config")
	}
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.WriteTree(t, tmpDir, map[string]string{
		"app.js":           "let a = 1;\n",
		"lib/util.js":      "function f() {\n}\n",
		"lib/util.ts":      "let b: number = 1;\n",
		"README.md":        "# readme\n",
		"lib/deep/more.js": "f();\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"app.js", "lib/deep/more.js", "lib/util.js"}
	if got := relPaths(t, tmpDir, result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}

func TestScanDirExcludesDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.WriteTree(t, tmpDir, map[string]string{
		"src/app.js":                "app();\n",
		"node_modules/lib/index.js": "x();\n",
		"dist/bundle.js":            "y();\n",
		"coverage/lcov.js":          "z();\n",
	})

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"src/app.js"}
	if got := relPaths(t, tmpDir, result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}

func TestScanDirExcludesPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.WriteTree(t, tmpDir, map[string]string{
		"app.js":           "app();\n",
		"app.min.js":       "a();\n",
		"vendor.bundle.js": "b();\n",
		"spec/app.test.js": "c();\n",
		"spec/fixtures.js": "d();\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "*.test.js")

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"app.js", "spec/fixtures.js"}
	if got := relPaths(t, tmpDir, result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}

func TestScanDirCustomExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	testutil.WriteTree(t, tmpDir, map[string]string{
		"a.js":  "a();\n",
		"b.mjs": "b();\n",
		"c.cjs": "c();\n",
	})

	cfg := config.DefaultConfig()
	cfg.Analysis.Extensions = []string{".js", ".mjs"}

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"a.js", "b.mjs"}
	if got := relPaths(t, tmpDir, result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}

func TestScanDirWithGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteTree(t, tmpDir, map[string]string{
		".gitignore":       "skipme/\ngenerated.js\n",
		"main.js":          "main();\n",
		"skipme/skip.js":   "skip();\n",
		"src/app.js":       "app();\n",
		"src/generated.js": "gen();\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = true

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"main.js", "src/app.js"}
	if got := relPaths(t, tmpDir, result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}

func TestScanDirGitignoreFromSubdirectory(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteTree(t, tmpDir, map[string]string{
		".gitignore":        "web/legacy/\n",
		"web/app.js":        "app();\n",
		"web/legacy/old.js": "old();\n",
	})

	// Patterns are anchored at the git root, not the scanned directory.
	result, err := NewScanner(nil).ScanDir(filepath.Join(tmpDir, "web"))
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"app.js"}
	if got := relPaths(t, filepath.Join(tmpDir, "web"), result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}

func TestScanDirDisabledGitignore(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteTree(t, tmpDir, map[string]string{
		".gitignore":      "ignored/\n",
		"ignored/file.js": "x();\n",
	})

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	result, err := NewScanner(cfg).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"ignored/file.js"}
	if got := relPaths(t, tmpDir, result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}

func TestScanDirEmptyDirectory(t *testing.T) {
	result, err := NewScanner(nil).ScanDir(t.TempDir())
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("ScanDir() on empty dir returned %d files, want 0", len(result))
	}
}

func TestScanDirMissingRoot(t *testing.T) {
	if _, err := NewScanner(nil).ScanDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("ScanDir() should fail for a missing root")
	}
}

func TestFilterBySize(t *testing.T) {
	tmpDir := t.TempDir()

	largeContent := make([]byte, 1024)
	for i := range largeContent {
		largeContent[i] = 'x'
	}

	smallFile := filepath.Join(tmpDir, "small.js")
	largeFile := filepath.Join(tmpDir, "large.js")
	if err := os.WriteFile(smallFile, []byte("small"), 0644); err != nil {
		t.Fatalf("Failed to create small file: %v", err)
	}
	if err := os.WriteFile(largeFile, largeContent, 0644); err != nil {
		t.Fatalf("Failed to create large file: %v", err)
	}

	t.Run("no limit", func(t *testing.T) {
		filtered, skipped := FilterBySize([]string{smallFile, largeFile}, 0)
		if len(filtered) != 2 || skipped != 0 {
			t.Errorf("FilterBySize() = %d kept, %d skipped, want 2, 0", len(filtered), skipped)
		}
	})

	t.Run("with limit", func(t *testing.T) {
		filtered, skipped := FilterBySize([]string{smallFile, largeFile}, 100)
		if len(filtered) != 1 || skipped != 1 {
			t.Fatalf("FilterBySize() = %d kept, %d skipped, want 1, 1", len(filtered), skipped)
		}
		if filtered[0] != smallFile {
			t.Errorf("FilterBySize should keep small file, got %s", filtered[0])
		}
	})

	t.Run("with stat error", func(t *testing.T) {
		nonExistent := filepath.Join(tmpDir, "nonexistent.js")
		filtered, skipped := FilterBySize([]string{smallFile, nonExistent}, 100)
		if len(filtered) != 1 || skipped != 1 {
			t.Errorf("FilterBySize() = %d kept, %d skipped, want 1, 1", len(filtered), skipped)
		}
	})
}

func TestIsWithinRoot(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"same path", tmpDir, true},
		{"child path", filepath.Join(tmpDir, "subdir", "file.js"), true},
		{"path outside root", "/some/other/path", false},
		{"parent path", filepath.Dir(tmpDir), false},
		{"similar prefix but different dir", tmpDir + "2/file.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWithinRoot(tt.path, tmpDir); got != tt.want {
				t.Errorf("isWithinRoot(%q, %q) = %v, want %v", tt.path, tmpDir, got, tt.want)
			}
		})
	}
}

func TestFindGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(tmpDir, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create .git dir: %v", err)
	}

	if got := findGitRoot(tmpDir); got != tmpDir {
		t.Errorf("findGitRoot() = %q, want %q", got, tmpDir)
	}

	subDir := filepath.Join(tmpDir, "src", "lib")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}
	if got := findGitRoot(subDir); got != tmpDir {
		t.Errorf("findGitRoot() from subdir = %q, want %q", got, tmpDir)
	}
}

func TestScanDirWithUnresolvableSymlink(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.Symlink("/nonexistent/path/file.js", filepath.Join(tmpDir, "dangling.js")); err != nil {
		t.Skip("Symlinks not supported on this system")
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "real.js"), []byte("a();\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("ScanDir() should skip the dangling symlink, got %d files", len(result))
	}
}

func TestScanDirWithSymlinkOutsideRoot(t *testing.T) {
	tmpDir := t.TempDir()
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "outside.js"), []byte("o();\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "inside.js"), []byte("i();\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "outside.js"), filepath.Join(tmpDir, "linked.js")); err != nil {
		t.Skip("Symlinks not supported on this system")
	}

	result, err := NewScanner(nil).ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	want := []string{"inside.js"}
	if got := relPaths(t, tmpDir, result); !equalStrings(got, want) {
		t.Errorf("ScanDir() = %v, want %v", got, want)
	}
}
