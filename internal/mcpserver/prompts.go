package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

type promptFrontmatter struct {
	Description string `yaml:"description"`
}

// registerPrompts registers one prompt per embedded markdown file, named
// after the file.
func (s *Server) registerPrompts() {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			continue
		}

		description, body := parseFrontmatter(content)
		s.server.AddPrompt(&mcp.Prompt{
			Name:        strings.TrimSuffix(entry.Name(), ".md"),
			Description: description,
		}, promptHandler(description, body))
	}
}

// parseFrontmatter splits a "---" delimited YAML header from the prompt
// body. Content without a valid header is returned whole.
func parseFrontmatter(content []byte) (description, body string) {
	const delim = "---\n"
	if !bytes.HasPrefix(content, []byte(delim)) {
		return "", string(content)
	}

	rest := content[len(delim):]
	end := bytes.Index(rest, []byte("\n"+delim))
	if end == -1 {
		return "", string(content)
	}

	var fm promptFrontmatter
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return "", string(content)
	}
	return fm.Description, strings.TrimPrefix(string(rest[end+len(delim)+1:]), "\n")
}

func promptHandler(description, body string) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: description,
			Messages: []*mcp.PromptMessage{
				{Role: "user", Content: &mcp.TextContent{Text: body}},
			},
		}, nil
	}
}
