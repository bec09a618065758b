package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/panbanda/jscheck/internal/scanner"
	"github.com/panbanda/jscheck/pkg/config"
)

// ScanResult contains the result of a file scan.
type ScanResult struct {
	Files []string
	// Skipped counts files dropped for exceeding the size limit.
	Skipped  int
	RepoRoot string
}

// Service resolves command line paths into the files to analyze.
type Service struct {
	config *config.Config
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// New creates a new scanner service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	return s
}

// Validate checks that path names an existing file with an analyzed
// extension.
func (s *Service) Validate(path string) error {
	if strings.TrimSpace(path) == "" {
		return &InputError{Path: path, Reason: ReasonEmpty}
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return &InputError{Path: path, Reason: ReasonDirectory}
	}
	if !s.config.HasExtension(path) {
		return &InputError{Path: path, Reason: ReasonExtension}
	}
	if err != nil {
		return &InputError{Path: path, Reason: ReasonNotFound, Err: err}
	}
	return nil
}

// ScanPaths expands paths into analyzable files. Directories are walked;
// files, and missing paths that look like files, are validated and kept
// even when an exclude rule would match them.
// With no paths the current directory is scanned.
func (s *Service) ScanPaths(paths []string) (*ScanResult, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	scan := scanner.NewScanner(s.config)
	var files []string

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, &PathError{Path: path, Err: err}
		}

		info, err := os.Stat(absPath)
		if (err == nil && !info.IsDir()) || (err != nil && s.config.HasExtension(absPath)) {
			if err := s.Validate(absPath); err != nil {
				return nil, err
			}
			files = append(files, absPath)
			continue
		}

		found, err := scan.ScanDir(absPath)
		if err != nil {
			return nil, &ScanError{Path: path, Err: err}
		}
		files = append(files, found...)
	}

	kept, skipped := scanner.FilterBySize(files, s.config.Analysis.MaxFileSize)
	result := &ScanResult{
		Files:   kept,
		Skipped: skipped,
	}
	if root, err := RepoRoot(paths[0]); err == nil {
		result.RepoRoot = root
	}
	return result, nil
}

// RepoRoot returns the working tree root of the git repository containing
// path.
func RepoRoot(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", &GitError{Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", &GitError{Err: err}
	}
	return wt.Filesystem.Root(), nil
}

// Reason says why an input path was rejected.
type Reason int

const (
	ReasonEmpty Reason = iota
	ReasonExtension
	ReasonNotFound
	ReasonDirectory
)

// InputError indicates a path that cannot be analyzed as a single file.
type InputError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *InputError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return "Please enter valid file name."
	case ReasonExtension:
		return "The input file is not a valid javascript file."
	case ReasonDirectory:
		return e.Path + " is a directory. Please enter a file name."
	default:
		return "File not found. Please enter valid file name with extension (or full file path)."
	}
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// PathError indicates an invalid path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return "invalid path " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// ScanError indicates a scanning failure.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return "failed to scan directory " + e.Path + ": " + e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// GitError indicates the path is not inside a git repository.
type GitError struct {
	Err error
}

func (e *GitError) Error() string {
	return "not a git repository (or any parent): " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
