// Package server exposes modgraph views to MCP clients over stdio.
package server

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"modgraph/internal/graph"
	"modgraph/internal/service"
)

const systemPrompt = `# modgraph

modgraph stores per-commit snapshots of a Python repository's dependency graph
and serves filtered views of them.

## Workflow
1. Call list_snapshots to see which commits of a repository are stored.
2. Call list_presets to pick a view. Presets fix the node and edge types shown;
   the "custom" preset takes explicit node_types and edge_types.
3. Call filter_graph for the filtered node and edge lists, or build_tree for a
   rooted hierarchy (format "text" draws it, "json" nests name/children).
4. Call timeline to compare the graph energy of a view across commits.

## Notes
- Omitting commit selects the most recent snapshot.
- Type labels accept either internal names (FileNode, ImportEdge) or short
  labels (File, Import, Function Call).
- build_tree fails with the offending path when the view contains a cycle
  reachable from the root. Use a tree-shaped preset such as "file directory".
- Schemas for every tool are available at modgraph://schemas/{tool_name}.
`

// Options configures a Server. Repo and Root are the defaults used when a
// tool call leaves them out.
type Options struct {
	Name    string
	Version string
	Repo    string
	Root    graph.Node
	Logger  *slog.Logger
}

type Server struct {
	mcpServer    *mcp.Server
	svc          *service.Service
	repo         string
	root         graph.Node
	logger       *slog.Logger
	systemPrompt string
}

func NewServer(svc *service.Service, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "modgraph"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		}, nil),
		svc:          svc,
		repo:         opts.Repo,
		root:         opts.Root,
		logger:       opts.Logger.With("component", "mcp"),
		systemPrompt: systemPrompt,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdin/stdout until ctx is done or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio", "repo", s.repo)
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
