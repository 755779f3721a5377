package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"modgraph/internal/graph"
	"modgraph/internal/service"
	"modgraph/internal/spectrum"
	"modgraph/internal/store"
)

// Arguments structs

type ListPresetsArgs struct{}

type GetPresetArgs struct {
	Name string `json:"name" jsonschema:"Name of the preset, e.g. file directory"`
}

type ListSnapshotsArgs struct {
	Repo string `json:"repo,omitempty" jsonschema:"Repository label; defaults to the server's repository"`
}

type ImportSnapshotArgs struct {
	Repo        string `json:"repo,omitempty" jsonschema:"Repository label; defaults to the server's repository"`
	Commit      string `json:"commit,omitempty" jsonschema:"Commit the graph was extracted from; a label is generated when empty"`
	CommittedAt string `json:"committed_at,omitempty" jsonschema:"Commit time in RFC 3339 format; defaults to now"`
	Document    string `json:"document" jsonschema:"Graph document as JSON with nodes and edges arrays"`
}

type FilterGraphArgs struct {
	Repo         string   `json:"repo,omitempty" jsonschema:"Repository label; defaults to the server's repository"`
	Commit       string   `json:"commit,omitempty" jsonschema:"Commit to view; the latest snapshot when empty"`
	Preset       string   `json:"preset,omitempty" jsonschema:"Preset name; all when empty, custom when types are given"`
	NodeTypes    []string `json:"node_types,omitempty" jsonschema:"Node types kept by the custom preset"`
	EdgeTypes    []string `json:"edge_types,omitempty" jsonschema:"Edge types kept by the custom preset"`
	ShowIsolated *bool    `json:"show_isolated,omitempty" jsonschema:"Overrides whether nodes without edges are kept"`
}

type BuildTreeArgs struct {
	Repo         string   `json:"repo,omitempty" jsonschema:"Repository label; defaults to the server's repository"`
	Commit       string   `json:"commit,omitempty" jsonschema:"Commit to view; the latest snapshot when empty"`
	Preset       string   `json:"preset,omitempty" jsonschema:"Preset name; all when empty, custom when types are given"`
	NodeTypes    []string `json:"node_types,omitempty" jsonschema:"Node types kept by the custom preset"`
	EdgeTypes    []string `json:"edge_types,omitempty" jsonschema:"Edge types kept by the custom preset"`
	ShowIsolated *bool    `json:"show_isolated,omitempty" jsonschema:"Overrides whether nodes without edges are kept"`
	RootID       string   `json:"root_id,omitempty" jsonschema:"Identifier of the root node; defaults to the configured root"`
	RootType     string   `json:"root_type,omitempty" jsonschema:"Type of the root node; defaults to the configured root type"`
	Format       string   `json:"format,omitempty" jsonschema:"Output format: json (default) or text"`
}

type TimelineArgs struct {
	Repo      string   `json:"repo,omitempty" jsonschema:"Repository label; defaults to the server's repository"`
	Preset    string   `json:"preset,omitempty" jsonschema:"Preset name; all when empty, custom when types are given"`
	NodeTypes []string `json:"node_types,omitempty" jsonschema:"Node types kept by the custom preset"`
	EdgeTypes []string `json:"edge_types,omitempty" jsonschema:"Edge types kept by the custom preset"`
	Method    string   `json:"method,omitempty" jsonschema:"Energy method: eigenvalue (default) or svd"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_presets",
		Description: "Lists the named views with their node types, edge types and layout hint",
	}, s.handleListPresets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_preset",
		Description: "Returns a single preset by name",
	}, s.handleGetPreset)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_snapshots",
		Description: "Lists the stored commit snapshots of a repository, oldest first",
	}, s.handleListSnapshots)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "import_snapshot",
		Description: "Stores a graph document as the snapshot of a commit, replacing any previous one",
	}, s.handleImportSnapshot)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "filter_graph",
		Description: "Returns the nodes and edges of a snapshot kept by a preset or custom type selection",
	}, s.handleFilterGraph)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "build_tree",
		Description: "Builds the hierarchy reachable from a root node in a filtered snapshot",
	}, s.handleBuildTree)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "timeline",
		Description: "Computes the graph energy of a view for every stored commit",
	}, s.handleTimeline)
}

func (s *Server) handleListPresets(ctx context.Context, req *mcp.CallToolRequest, args ListPresetsArgs) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.svc.Presets())
}

func (s *Server) handleGetPreset(ctx context.Context, req *mcp.CallToolRequest, args GetPresetArgs) (*mcp.CallToolResult, any, error) {
	p, err := s.svc.Catalog().Lookup(args.Name)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	return jsonResult(p)
}

func (s *Server) handleListSnapshots(ctx context.Context, req *mcp.CallToolRequest, args ListSnapshotsArgs) (*mcp.CallToolResult, any, error) {
	repo := s.repoOr(args.Repo)
	list, err := s.svc.Snapshots(ctx, repo)
	if err != nil {
		return errorResult(fmt.Sprintf("Query failed: %v", err)), nil, nil
	}
	if len(list) == 0 {
		return textResult(fmt.Sprintf("No snapshots stored for %q.", repo)), nil, nil
	}
	return jsonResult(list)
}

func (s *Server) handleImportSnapshot(ctx context.Context, req *mcp.CallToolRequest, args ImportSnapshotArgs) (*mcp.CallToolResult, any, error) {
	meta := store.SnapshotMeta{Repo: s.repoOr(args.Repo), Commit: args.Commit}
	if args.CommittedAt != "" {
		at, err := time.Parse(time.RFC3339, args.CommittedAt)
		if err != nil {
			return errorResult(fmt.Sprintf("Invalid committed_at: %v", err)), nil, nil
		}
		meta.CommittedAt = at
	}

	info, err := s.svc.Import(ctx, meta, strings.NewReader(args.Document))
	if err != nil {
		return errorResult(fmt.Sprintf("Import failed: %v", err)), nil, nil
	}
	return jsonResult(info)
}

// filteredGraph is the filter_graph payload. Readings describe how to read
// each edge type present in the view.
type filteredGraph struct {
	*service.View
	Readings map[graph.EdgeType]string `json:"readings,omitempty"`
}

func (s *Server) handleFilterGraph(ctx context.Context, req *mcp.CallToolRequest, args FilterGraphArgs) (*mcp.CallToolResult, any, error) {
	sel, err := s.selection(args.Repo, args.Commit, args.Preset, args.NodeTypes, args.EdgeTypes, args.ShowIsolated)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	v, err := s.svc.View(ctx, sel)
	if err != nil {
		return errorResult(fmt.Sprintf("Filter failed: %v", err)), nil, nil
	}

	out := filteredGraph{View: v, Readings: map[graph.EdgeType]string{}}
	for _, e := range v.Graph.Edges {
		if r := s.svc.Catalog().Reading(e.Type); r != "" {
			out.Readings[e.Type] = r
		}
	}
	return jsonResult(out)
}

func (s *Server) handleBuildTree(ctx context.Context, req *mcp.CallToolRequest, args BuildTreeArgs) (*mcp.CallToolResult, any, error) {
	format := strings.ToLower(strings.TrimSpace(args.Format))
	if format != "" && format != "json" && format != "text" {
		return errorResult(fmt.Sprintf("Unknown format %q: want json or text", args.Format)), nil, nil
	}

	sel, err := s.selection(args.Repo, args.Commit, args.Preset, args.NodeTypes, args.EdgeTypes, args.ShowIsolated)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	root, err := s.rootNode(args.RootID, args.RootType)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	tree, err := s.svc.Tree(ctx, sel, root)
	if err != nil {
		return errorResult(fmt.Sprintf("Tree failed: %v", err)), nil, nil
	}
	if format == "text" {
		return textResult(tree.String()), nil, nil
	}
	return jsonResult(tree)
}

func (s *Server) handleTimeline(ctx context.Context, req *mcp.CallToolRequest, args TimelineArgs) (*mcp.CallToolResult, any, error) {
	method, err := spectrum.ParseMethod(args.Method)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	sel, err := s.selection(args.Repo, "", args.Preset, args.NodeTypes, args.EdgeTypes, nil)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}

	points, err := s.svc.Timeline(ctx, sel, method)
	if err != nil {
		return errorResult(fmt.Sprintf("Timeline failed: %v", err)), nil, nil
	}
	return jsonResult(points)
}

func (s *Server) repoOr(repo string) string {
	if repo != "" {
		return repo
	}
	return s.repo
}

func (s *Server) selection(repo, commit, preset string, nodes, edges []string, showIsolated *bool) (service.Selection, error) {
	v := s.svc.Vocabulary()
	nodeTypes, err := v.ParseNodeTypes(nodes)
	if err != nil {
		return service.Selection{}, err
	}
	edgeTypes, err := v.ParseEdgeTypes(edges)
	if err != nil {
		return service.Selection{}, err
	}
	return service.Selection{
		Repo:         s.repoOr(repo),
		Commit:       commit,
		Preset:       preset,
		NodeTypes:    nodeTypes,
		EdgeTypes:    edgeTypes,
		ShowIsolated: showIsolated,
	}, nil
}

func (s *Server) rootNode(id, typ string) (graph.Node, error) {
	root := s.root
	if id != "" {
		root.ID = id
	}
	if typ != "" {
		t, err := s.svc.Vocabulary().ParseNodeType(typ)
		if err != nil {
			return graph.Node{}, err
		}
		root.Type = t
	}
	if root.ID == "" {
		return graph.Node{}, fmt.Errorf("root_id is required: no default root is configured")
	}
	return root, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Encoding failed: %v", err)), nil, nil
	}
	return textResult(string(jsonBytes)), nil, nil
}
