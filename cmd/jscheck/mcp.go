package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/jscheck/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes jscheck as tools
that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "jscheck": {
        "command": "jscheck",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_file    Bracket, unused variable, undeclared call and if/else checks
  - scope_tree      Function and class scopes with their declared variables

Prompts:
  - review-javascript`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the server.json manifest and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	}
	loaded, err := loadConfig(c)
	if err != nil {
		return err
	}
	return mcpserver.NewServer(version, mcpserver.WithConfig(loaded.Config)).Run(c.Context)
}
