package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	outputSvc "github.com/panbanda/jscheck/internal/service/output"
	scannerSvc "github.com/panbanda/jscheck/internal/service/scanner"
)

const promptText = "Enter JavaScript file name (or full file path) with extension: "

func interactiveCmd() *cli.Command {
	return &cli.Command{
		Name:    "interactive",
		Aliases: []string{"i"},
		Usage:   "Prompt for files to check until exit",
		Description: `Repeatedly asks for a file name and checks it. Invalid names are reported
and the prompt is shown again. Type exit, or send end of input, to stop.`,
		Action: runInteractiveCmd,
	}
}

func runInteractiveCmd(c *cli.Context) error {
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

	session := &session{
		in:       c.App.Reader,
		prompt:   c.App.Writer,
		scanner:  scannerSvc.New(scannerSvc.WithConfig(cfg)),
		analysis: svc,
		out:      out,
	}
	return session.run(c.Context)
}

// session is one interactive loop.
type session struct {
	in       io.Reader
	prompt   io.Writer
	scanner  *scannerSvc.Service
	analysis fileAnalyzer
	out      *outputSvc.Service
}

func (s *session) run(ctx context.Context) error {
	lines := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.prompt, promptText)
		if !lines.Scan() {
			fmt.Fprintln(s.prompt)
			return lines.Err()
		}

		path := strings.TrimSpace(lines.Text())
		if strings.EqualFold(path, "exit") {
			return nil
		}
		if err := s.check(ctx, path); err != nil {
			fmt.Fprintln(s.prompt, color.RedString("%s", describeError(err)))
		}
	}
}

// check analyzes one file and renders its report, including the partial
// report of a failed run. Errors are returned for the caller to print; they
// do not end the session.
func (s *session) check(ctx context.Context, path string) error {
	if err := s.scanner.Validate(path); err != nil {
		return err
	}
	report, err := s.analysis.AnalyzeFile(ctx, path)
	if report != nil {
		if outErr := s.out.Output(outputSvc.ReportDocument(report, "")); outErr != nil {
			return errors.Join(err, outErr)
		}
	}
	return err
}

// describeError returns input errors verbatim, as they are already phrased
// for the user.
func describeError(err error) string {
	var inputErr *scannerSvc.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Error()
	}
	return "Error: " + err.Error()
}
