package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/panbanda/jscheck/internal/cache"
	"github.com/panbanda/jscheck/internal/output"
	"github.com/panbanda/jscheck/internal/service/analysis"
	outputSvc "github.com/panbanda/jscheck/internal/service/output"
	scannerSvc "github.com/panbanda/jscheck/internal/service/scanner"
	"github.com/panbanda/jscheck/pkg/scope"
)

// FileInput is the input of every jscheck tool.
type FileInput struct {
	Path   string `json:"path" jsonschema:"Path to the JavaScript file to inspect."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

func getFormat(format string) output.Format {
	switch format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

// formatOutput serializes data. Renderables contribute their markdown form
// directly and their RenderData form to the structured encodings.
func formatOutput(data any, format output.Format) (string, error) {
	r, renderable := data.(output.Renderable)
	if renderable {
		if format == output.FormatMarkdown {
			var buf bytes.Buffer
			if err := r.RenderMarkdown(&buf); err != nil {
				return "", err
			}
			return buf.String(), nil
		}
		data = r.RenderData()
	}

	switch format {
	case output.FormatJSON:
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	case output.FormatMarkdown:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return "```\n" + string(out) + "\n```", nil
	default:
		out, err := toon.Marshal(data, toon.WithIndent(2))
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

// partialResult returns the diagnostics collected before err, followed by
// the error, flagged as a failed call.
func partialResult(data any, format output.Format, err error) (*mcp.CallToolResult, any, error) {
	text, fmtErr := formatOutput(data, format)
	if fmtErr != nil {
		return nil, nil, fmtErr
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
			&mcp.TextContent{Text: "Error: " + err.Error()},
		},
		IsError: true,
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func (s *Server) handleAnalyzeFile(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	path, err := s.validate(input.Path)
	if err != nil {
		return toolError(err.Error())
	}

	report, err := s.analyze(ctx, path)
	if err != nil {
		if report == nil {
			return toolError(err.Error())
		}
		return partialResult(outputSvc.ReportDocument(report, ""), getFormat(input.Format), err)
	}

	return toolResult(outputSvc.ReportDocument(report, ""), getFormat(input.Format))
}

func (s *Server) handleScopeTree(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	path, err := s.validate(input.Path)
	if err != nil {
		return toolError(err.Error())
	}

	root, err := scope.BuildFile(path)
	if err != nil {
		return toolError(err.Error())
	}
	if err := scope.Verify(root); err != nil {
		return toolError(err.Error())
	}

	return toolResult(outputSvc.Tree(path, root), getFormat(input.Format))
}

func (s *Server) validate(path string) (string, error) {
	if err := scannerSvc.New(scannerSvc.WithConfig(s.config)).Validate(path); err != nil {
		return "", err
	}
	return filepath.Abs(path)
}

// analyze returns the memoized report for path while its content is
// unchanged. Failed runs are not memoized; their partial report is returned
// with the error.
func (s *Server) analyze(ctx context.Context, path string) (*analysis.Report, error) {
	hash, err := cache.HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	key := path + "\x00" + hash
	if report, ok := s.memo.Get(key); ok {
		return report, nil
	}

	report, err := s.analyzer.AnalyzeFile(ctx, path)
	if err != nil {
		return report, err
	}
	s.memo.Add(key, report)
	return report, nil
}
