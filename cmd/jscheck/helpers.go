package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/jscheck/internal/cache"
	"github.com/panbanda/jscheck/internal/service/analysis"
	outputSvc "github.com/panbanda/jscheck/internal/service/output"
	"github.com/panbanda/jscheck/pkg/config"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the file named by --config, or searches for one.
func loadConfig(c *cli.Context) (*config.LoadResult, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	result, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.Bool("no-cache") {
		result.Config.Cache.Enabled = false
	}
	verbosef(c, "config: %s", describeSource(result.Source))
	return result, nil
}

func describeSource(source string) string {
	if source == "" {
		return "defaults"
	}
	return source
}

// verbosef writes a diagnostic line to stderr when --verbose is set.
func verbosef(c *cli.Context, format string, args ...any) {
	if !c.Bool("verbose") {
		return
	}
	fmt.Fprintln(c.App.ErrWriter, color.HiBlackString(format, args...))
}

// fileAnalyzer is the part of the analysis service the single-file
// commands use. AnalyzeFile may return a partial report with its error.
type fileAnalyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*analysis.Report, error)
}

// newAnalysis builds the analysis service with the disk cache configured
// by cfg.
func newAnalysis(c *cli.Context, cfg *config.Config) (*analysis.Service, error) {
	ch, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", cfg.Cache.Dir, err)
	}
	verbosef(c, "cache: enabled=%t dir=%s", ch.Enabled(), cfg.Cache.Dir)
	return analysis.New(analysis.WithConfig(cfg), analysis.WithCache(ch)), nil
}

// newOutput builds the output service from --format and --output, falling
// back to the config's output section.
func newOutput(c *cli.Context, cfg *config.Config, base string) (*outputSvc.Service, error) {
	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	opts := []outputSvc.Option{
		outputSvc.WithFormat(outputSvc.ParseFormat(format)),
		outputSvc.WithWriter(c.App.Writer),
		outputSvc.WithColor(cfg.Output.Color && !color.NoColor),
		outputSvc.WithBase(base),
	}
	if path := c.String("output"); path != "" {
		opts = append(opts, outputSvc.WithFile(path))
	}
	return outputSvc.New(opts...)
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
