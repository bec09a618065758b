package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/panbanda/jscheck/internal/cache"
	"github.com/panbanda/jscheck/pkg/analyzer"
	"github.com/panbanda/jscheck/pkg/analyzer/braces"
	"github.com/panbanda/jscheck/pkg/analyzer/control"
	"github.com/panbanda/jscheck/pkg/analyzer/undeclared"
	"github.com/panbanda/jscheck/pkg/analyzer/unused"
	"github.com/panbanda/jscheck/pkg/builtins"
	"github.com/panbanda/jscheck/pkg/config"
	"github.com/panbanda/jscheck/pkg/scope"
)

// Service runs the per-file analysis pipeline.
type Service struct {
	config   *config.Config
	cache    *cache.Cache
	builtins *builtins.Set
	workers  int
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithCache enables report caching.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithBuiltins overrides the built-in names derived from the configuration.
func WithBuiltins(b *builtins.Set) Option {
	return func(s *Service) {
		s.builtins = b
	}
}

// WithWorkers caps the number of files analyzed concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.workers = n
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	if s.builtins == nil {
		s.builtins = s.config.BuiltinSet()
	}
	return s
}

// AnalyzeFile runs the pipeline on one file: brace balance first, then,
// only when the braces balance, the scope tree and the two tree analyzers,
// then the control statement check. Each analyzer reads the file itself.
//
// On an I/O error the report collected so far is returned with the error.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if limit := s.config.Analysis.MaxFileSize; limit > 0 && info.Size() > limit {
		return nil, &FileTooLargeError{Path: path, Size: info.Size(), Limit: limit}
	}

	var hash string
	if s.cache != nil && s.cache.Enabled() {
		if hash, err = s.contentHash(path); err != nil {
			return nil, err
		}
		var cached Report
		if cache.GetValue(s.cache, cache.Key(path), hash, &cached) {
			cached.Path = path
			cached.normalize()
			return &cached, nil
		}
	}

	report, err := s.run(path)
	if err != nil {
		if hash != "" {
			_ = s.cache.Invalidate(cache.Key(path))
		}
		return report, err
	}

	if hash != "" {
		// A failed write only costs a recomputation next time.
		_ = cache.SetValue(s.cache, cache.Key(path), hash, report)
	}
	return report, nil
}

func (s *Service) run(path string) (*Report, error) {
	report := NewReport(path)

	diags, err := braces.New().AnalyzeFile(path)
	if err != nil {
		return report, fmt.Errorf("checking braces in %s: %w", path, err)
	}
	report.Braces = diags

	analysis := s.config.Analysis
	if len(diags) > 0 {
		report.Gated = analysis.Unused || analysis.Undeclared
	} else if analysis.Unused || analysis.Undeclared {
		root, err := scope.BuildFile(path)
		if err != nil {
			return report, fmt.Errorf("building scope tree for %s: %w", path, err)
		}

		if analysis.Unused {
			items, err := unused.New(unused.WithBuiltins(s.builtins)).AnalyzeFile(root, path)
			if err != nil {
				return report, fmt.Errorf("finding unused variables in %s: %w", path, err)
			}
			report.Unused = items
		}

		if analysis.Undeclared {
			items, err := undeclared.New(undeclared.WithBuiltins(s.builtins)).AnalyzeFile(root, path)
			if err != nil {
				return report, fmt.Errorf("finding undeclared calls in %s: %w", path, err)
			}
			report.Undeclared = items
		}
	}

	if analysis.Control {
		items, err := control.New().AnalyzeFile(path)
		if err != nil {
			return report, fmt.Errorf("checking control statements in %s: %w", path, err)
		}
		report.Control = items
	}

	report.normalize()
	return report, nil
}

// contentHash keys a cached report on the file contents and on every setting
// that changes what the analyzers report.
func (s *Service) contentHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	objects, functions, methods := s.builtins.Names()
	settings, err := json.Marshal(struct {
		Unused, Undeclared, Control bool
		Objects, Functions, Methods []string
	}{
		Unused:     s.config.Analysis.Unused,
		Undeclared: s.config.Analysis.Undeclared,
		Control:    s.config.Analysis.Control,
		Objects:    objects,
		Functions:  functions,
		Methods:    methods,
	})
	if err != nil {
		return "", err
	}
	data = append(data, 0)
	data = append(data, settings...)
	return cache.HashBytes(data), nil
}

// AnalyzeFiles analyzes every file independently on a worker pool. Reports
// keep the input order; failed files are collected in the result's Errors
// and never stop the others.
func (s *Service) AnalyzeFiles(ctx context.Context, files []string) *Result {
	results := analyzer.ForEachFile(ctx, files, s.workers, func(path string) (*Report, error) {
		report, err := s.AnalyzeFile(ctx, path)
		if report != nil {
			if t := analyzer.TrackerFromContext(ctx); t != nil {
				t.Found(report.Findings())
			}
		}
		return report, err
	})

	out := &Result{Reports: []*Report{}, Errors: FileErrors{}}
	for _, r := range results {
		if r.Value != nil {
			out.Reports = append(out.Reports, r.Value)
		}
		if r.Err != nil {
			out.Errors = append(out.Errors, FileError{Path: r.Path, Err: r.Err})
		}
	}
	return out
}
