package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	outputSvc "github.com/panbanda/jscheck/internal/service/output"
	"github.com/panbanda/jscheck/pkg/watch"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-check JavaScript files as they change",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: 500 * time.Millisecond,
				Usage: "How long a file must be unchanged before it is checked",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	dir := "."
	if c.Args().Len() > 0 {
		dir = c.Args().First()
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return fmt.Errorf("watch needs a directory, got %q", dir)
	}

	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	svc, err := newAnalysis(c, cfg)
	if err != nil {
		return err
	}
	out, err := newOutput(c, cfg, "")
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(dir, cfg, reportChange(ctx, svc, out),
		watch.WithDebounce(c.Duration("debounce")), watch.WithWriter(c.App.Writer))
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reportChange re-analyzes a changed file and renders whatever report the
// run produced before printing its error.
func reportChange(ctx context.Context, svc fileAnalyzer, out *outputSvc.Service) func(string) {
	return func(path string) {
		report, err := svc.AnalyzeFile(ctx, path)
		if report != nil {
			if outErr := out.Output(outputSvc.ReportDocument(report, "")); outErr != nil {
				out.Formatter().Error("%v", outErr)
			}
		}
		if err != nil {
			out.Formatter().Error("%v", err)
		}
	}
}
