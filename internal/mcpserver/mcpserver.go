package mcpserver

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/panbanda/jscheck/internal/service/analysis"
	"github.com/panbanda/jscheck/pkg/config"
)

// memoSize bounds the number of reports kept between tool calls.
const memoSize = 256

// Server wraps the MCP server and registers the jscheck tools.
type Server struct {
	server   *mcp.Server
	config   *config.Config
	analyzer fileAnalyzer
	memo     *lru.Cache[string, *analysis.Report]
}

// fileAnalyzer runs the checks on one file. A failed run may still return
// the report collected before the failure.
type fileAnalyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*analysis.Report, error)
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the configuration used by every tool call.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// NewServer creates a new MCP server with all jscheck tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "jscheck",
			Version: version,
		},
		nil,
	)

	// lru.New only fails for a non-positive size.
	memo, _ := lru.New[string, *analysis.Report](memoSize)

	s := &Server{server: server, memo: memo}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = config.LoadOrDefault()
	}
	s.analyzer = analysis.New(analysis.WithConfig(s.config))
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

const (
	toolAnalyzeFile = "analyze_file"
	toolScopeTree   = "scope_tree"
)

// toolList is what registerTools adds and what the manifest advertises.
var toolList = []struct{ name, title string }{
	{toolAnalyzeFile, "Analyze a JavaScript file"},
	{toolScopeTree, "Show the scope tree of a JavaScript file"},
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolAnalyzeFile,
		Title:       toolList[0].title,
		Description: describeAnalyzeFile(),
	}, s.handleAnalyzeFile)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        toolScopeTree,
		Title:       toolList[1].title,
		Description: describeScopeTree(),
	}, s.handleScopeTree)
}
