package main

import (
	"errors"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// errFindings ends a run with exit status 1 without an error message.
var errFindings = errors.New("problems found")

func main() {
	// A missing .env is fine; it only supplies JSCHECK_CONFIG and friends.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		if !errors.Is(err, errFindings) {
			color.Red("Error: %v", err)
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "jscheck",
		Usage:   "Heuristic JavaScript checks",
		Version: version,
		Description: `jscheck reads JavaScript files line by line and reports unbalanced curly
brackets, unused variables, functions called but not declared (or out of
scope), and single line if/else statements without braces.

The scope checks only run once the curly brackets of a file balance.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"JSCHECK_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Commands: []*cli.Command{
			checkCmd(),
			treeCmd(),
			interactiveCmd(),
			watchCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}
