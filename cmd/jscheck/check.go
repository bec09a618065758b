package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/jscheck/internal/progress"
	outputSvc "github.com/panbanda/jscheck/internal/service/output"
	scannerSvc "github.com/panbanda/jscheck/internal/service/scanner"
	"github.com/panbanda/jscheck/pkg/analyzer"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"c"},
		Usage:     "Check JavaScript files for bracket, scope and control statement problems",
		ArgsUsage: "[path...]",
		Description: `Checks each file named on the command line, or every JavaScript file under
the named directories. Directories are expanded using the exclude settings
and .gitignore; files named explicitly are always checked.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "fail-on-findings",
				Usage: "Exit with status 1 when any file has problems",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "Hide the progress bar",
			},
		},
		Action: runCheckCmd,
	}
}

func runCheckCmd(c *cli.Context) error {
	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := loaded.Config

	scanSvc := scannerSvc.New(scannerSvc.WithConfig(cfg))
	spinner := newSpinner(c, "Finding files...")
	scanResult, err := scanSvc.ScanPaths(getPaths(c))
	spinner.FinishSuccess()
	if err != nil {
		var inputErr *scannerSvc.InputError
		if errors.As(err, &inputErr) {
			color.Red("%s", inputErr)
			return errFindings
		}
		return err
	}
	if scanResult.Skipped > 0 {
		verbosef(c, "skipped %d files larger than %d bytes", scanResult.Skipped, cfg.Analysis.MaxFileSize)
	}

	if len(scanResult.Files) == 0 {
		color.Yellow("No JavaScript files found")
		return nil
	}

	svc, err := newAnalysis(c, cfg)
	if err != nil {
		return err
	}

	ctx := c.Context
	var tracker *progress.Tracker
	if showProgress(c) {
		tracker = progress.NewTracker("Checking...", len(scanResult.Files))
		ctx = analyzer.WithTracker(ctx, analyzer.NewTracker(tracker.Callback()))
	}
	result := svc.AnalyzeFiles(ctx, scanResult.Files)
	if tracker != nil {
		tracker.FinishSuccess()
	}

	out, err := newOutput(c, cfg, baseDir(scanResult))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := out.Result(result); err != nil {
		return err
	}
	if out.Format() == outputSvc.FormatText && c.String("output") == "" {
		if result.HasFindings() {
			out.Formatter().Warning("%s", outputSvc.Describe(result))
		} else {
			out.Formatter().Success("%s", outputSvc.Describe(result))
		}
	}

	if c.Bool("fail-on-findings") && (result.HasFindings() || len(result.Errors) > 0) {
		return errFindings
	}
	return nil
}

// baseDir is the directory report paths are shown relative to: the
// repository root when the first path is inside one, else the working
// directory.
func baseDir(res *scannerSvc.ScanResult) string {
	if res.RepoRoot != "" {
		return res.RepoRoot
	}
	return workingDir()
}

func showProgress(c *cli.Context) bool {
	return !c.Bool("no-progress") && !color.NoColor
}

func newSpinner(c *cli.Context, label string) *progress.Tracker {
	if !showProgress(c) {
		return progress.Discard()
	}
	return progress.NewSpinner(label)
}
