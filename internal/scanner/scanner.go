package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/panbanda/jscheck/pkg/config"
)

// Scanner finds JavaScript files in a directory tree.
type Scanner struct {
	config  *config.Config
	matcher gitignore.Matcher
	// base is the directory gitignore paths are made relative to: the git
	// root when one was found, else the scanned root.
	base string
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot returns the closest ancestor of start holding a .git
// directory, or "".
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns combines the configured patterns with every
// .gitignore below the git root, all in gitignore syntax.
func (s *Scanner) loadExcludePatterns(root string) {
	s.base = root
	var patterns []gitignore.Pattern

	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(root); gitRoot != "" {
			s.base = gitRoot
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	s.matcher = nil
	if len(patterns) > 0 {
		s.matcher = gitignore.NewMatcher(patterns)
	}
}

func (s *Scanner) isExcluded(path string, isDir bool) bool {
	if isDir && s.isExcludedDir(filepath.Base(path)) {
		return true
	}
	if s.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(s.base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return s.matcher.Match(strings.Split(rel, string(filepath.Separator)), isDir)
}

func (s *Scanner) isExcludedDir(name string) bool {
	for _, dir := range s.config.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}

// ScanDir recursively collects the files under root with an analyzed
// extension. Excluded directories are not descended into, and symlinks that
// leave root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	var files []string
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			if path != absRoot && s.isExcluded(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.config.HasExtension(path) || s.isExcluded(path, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// FilterBySize drops files larger than maxSize bytes. A maxSize of 0 keeps
// everything. It returns the kept files and the number dropped.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}
	kept := make([]string, 0, len(files))
	dropped := 0
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.Size() > maxSize {
			dropped++
			continue
		}
		kept = append(kept, f)
	}
	return kept, dropped
}
