package analyzer

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Result pairs the outcome of one file with its path.
type Result[T any] struct {
	Path  string
	Value T
	Err   error
}

// ForEachFile runs fn for every file on a bounded pool and returns the
// results in input order. Errors are kept per file; one failing file never
// stops the others. If maxWorkers is <= 0, defaults to NumCPU.
//
// The tracker carried by ctx, if any, is ticked after each file.
func ForEachFile[T any](ctx context.Context, files []string, maxWorkers int, fn func(string) (T, error)) []Result[T] {
	if len(files) == 0 {
		return nil
	}
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	tracker := TrackerFromContext(ctx)
	if tracker != nil {
		tracker.Add(len(files))
	}

	results := make([]Result[T], len(files))
	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i, path := range files {
		p.Go(func() {
			results[i].Path = path
			if err := ctx.Err(); err != nil {
				results[i].Err = err
			} else {
				results[i].Value, results[i].Err = fn(path)
			}
			if tracker != nil {
				tracker.Tick(path)
			}
		})
	}
	p.Wait()

	return results
}
