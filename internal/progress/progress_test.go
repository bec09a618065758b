package progress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/panbanda/jscheck/pkg/analyzer"
)

func TestTrackerCallback(t *testing.T) {
	var buf bytes.Buffer
	tr := newTracker("Analyzing", 3, &buf)

	ctx := analyzer.WithTracker(context.Background(), analyzer.NewTracker(tr.Callback()))
	analyzer.ForEachFile(ctx, []string{"a.js", "b.js", "c.js"}, 2, func(path string) (int, error) {
		return len(path), nil
	})

	if got := tr.Value(); got != 3 {
		t.Errorf("Value() = %d, want 3", got)
	}
	tr.FinishSuccess()
}

func TestFinishError(t *testing.T) {
	var buf bytes.Buffer
	tr := newTracker("Analyzing", 1, &buf)
	tr.FinishError(errors.New("boom"))

	if !strings.Contains(buf.String(), "Analyzing error: boom") {
		t.Errorf("output = %q", buf.String())
	}
}
