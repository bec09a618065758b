package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/jscheck/internal/cache"
	"github.com/panbanda/jscheck/internal/output"
	"github.com/panbanda/jscheck/pkg/config"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the report cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show the number, size and age of cached reports",
				Action: runCacheStats,
			},
			{
				Name:      "clear",
				Usage:     "Remove cached reports",
				ArgsUsage: "[file...]",
				Description: `Without arguments the whole cache directory is removed. With file
arguments only the reports of those files are dropped.

Examples:
  jscheck cache clear            # Remove every cached report
  jscheck cache clear src/app.js # Drop one file's report`,
				Action: runCacheClear,
			},
		},
	}
}

// openCache opens the configured cache directory even when caching is
// disabled for analysis runs.
func openCache(c *cli.Context) (*cache.Cache, *config.Config, error) {
	result, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	cfg := result.Config
	ch, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache %s: %w", cfg.Cache.Dir, err)
	}
	return ch, cfg, nil
}

func runCacheStats(c *cli.Context) error {
	ch, cfg, err := openCache(c)
	if err != nil {
		return err
	}
	stats, err := ch.GetStats()
	if err != nil {
		return fmt.Errorf("reading cache %s: %w", cfg.Cache.Dir, err)
	}

	out, err := newOutput(c, cfg, "")
	if err != nil {
		return err
	}
	defer out.Close()

	rows := [][]string{
		{"Directory", cfg.Cache.Dir},
		{"Entries", strconv.Itoa(stats.Entries)},
		{"Size (bytes)", strconv.FormatInt(stats.TotalSize, 10)},
		{"Oldest", stats.OldestAge.Round(time.Second).String()},
		{"Newest", stats.NewestAge.Round(time.Second).String()},
	}
	return out.Output(output.NewTable("Cache", []string{"Field", "Value"}, rows, stats))
}

func runCacheClear(c *cli.Context) error {
	ch, cfg, err := openCache(c)
	if err != nil {
		return err
	}
	dir := cfg.Cache.Dir

	if c.Args().Len() == 0 {
		if err := ch.Clear(); err != nil {
			return fmt.Errorf("clearing cache %s: %w", dir, err)
		}
		fmt.Fprintln(c.App.Writer, color.GreenString("Cleared %s", dir))
		return nil
	}

	for _, path := range c.Args().Slice() {
		if err := ch.Invalidate(cache.Key(path)); err != nil {
			return fmt.Errorf("dropping cached report for %s: %w", path, err)
		}
		fmt.Fprintln(c.App.Writer, color.GreenString("Dropped %s", path))
	}
	return nil
}
