// Package watch re-checks JavaScript files as they change on disk.
package watch

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"

	"github.com/panbanda/jscheck/pkg/config"
)

const (
	defaultDebounce = 500 * time.Millisecond
	tick            = 100 * time.Millisecond
)

// Watcher calls a function for every analyzed file under a directory that
// is written or created, once the file has been quiet for the debounce
// period.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    *config.Config
	debounce  time.Duration
	root      string
	onChange  func(path string)

	// outMu serializes status lines and onChange calls, which share out.
	outMu sync.Mutex
	out   io.Writer

	mu      sync.Mutex
	pending map[string]time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before it is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWriter sets where status lines are written.
func WithWriter(out io.Writer) Option {
	return func(w *Watcher) {
		w.out = out
	}
}

// New creates a watcher for root. onChange receives absolute paths.
func New(root string, cfg *config.Config, onChange func(path string), opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		debounce:  defaultDebounce,
		root:      abs,
		onChange:  onChange,
		out:       os.Stdout,
		pending:   make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches until ctx is done or the watcher is stopped. It returns
// only after the last onChange call has finished.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}

	w.printf(color.FgCyan, "Watching for changes in %s...\nPress Ctrl+C to stop\n", w.root)

	tickCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.processDebounced(tickCtx)
	}()
	defer wg.Wait()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)
		}
	}
}

// addTree watches dir and every directory below it that is not excluded.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.excludedDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) excludedDir(name string) bool {
	return slices.Contains(w.config.Exclude.Dirs, name)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	path := event.Name

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.excludedDir(info.Name()) {
				_ = w.addTree(path)
			}
			return
		}
	}

	if !w.config.HasExtension(path) || w.config.ShouldExclude(path) {
		return
	}

	w.mu.Lock()
	w.pending[path] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, path := range w.ready(now) {
				w.report(path)
			}
		}
	}
}

// ready removes and returns, sorted, the pending paths that have been quiet
// for the debounce period at now.
func (w *Watcher) ready(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var paths []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(paths)
	return paths
}

func (w *Watcher) report(path string) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}

	w.outMu.Lock()
	defer w.outMu.Unlock()
	color.New(color.FgYellow).Fprintf(w.out, "\nFile changed: %s\n", filepath.ToSlash(rel))
	if w.onChange != nil {
		w.onChange(path)
	}
}

func (w *Watcher) reportError(err error) {
	w.printf(color.FgRed, "Watch error: %v\n", err)
}

func (w *Watcher) printf(attr color.Attribute, format string, args ...any) {
	w.outMu.Lock()
	defer w.outMu.Unlock()
	color.New(attr).Fprintf(w.out, format, args...)
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// WatchedDirs returns the directories being watched.
func (w *Watcher) WatchedDirs() []string {
	return w.fsWatcher.WatchList()
}
