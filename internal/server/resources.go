package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"modgraph/internal/preset"
)

const (
	guidelinesURI   = "modgraph://usage-guidelines"
	presetsURI      = "modgraph://presets"
	schemaURIPrefix = "modgraph://schemas/"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         guidelinesURI,
		Name:        "Usage Guidelines",
		Description: "System prompt and usage guidelines for the modgraph MCP server",
		MIMEType:    "text/markdown",
	}, s.readGuidelines)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         presetsURI,
		Name:        "Presets",
		Description: "The preset catalog with edge readings",
		MIMEType:    "application/json",
	}, s.readPresets)

	schemaMap := buildSchemaMap()

	// A single template serves modgraph://schemas/{tool_name}.
	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: schemaURIPrefix + "{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return readSchema(schemaMap, req.Params.URI)
	})
}

func (s *Server) readGuidelines(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      guidelinesURI,
				MIMEType: "text/markdown",
				Text:     s.systemPrompt,
			},
		},
	}, nil
}

type catalogDocument struct {
	Presets  []preset.Preset   `json:"presets"`
	Readings map[string]string `json:"readings"`
}

func (s *Server) readPresets(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	catalog := s.svc.Catalog()
	doc := catalogDocument{Presets: catalog.All(), Readings: map[string]string{}}
	for _, t := range s.svc.Vocabulary().EdgeTypes() {
		if r := catalog.Reading(t); r != "" {
			doc.Readings[string(t)] = r
		}
	}

	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode presets: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      presetsURI,
				MIMEType: "application/json",
				Text:     string(body),
			},
		},
	}, nil
}

func readSchema(schemaMap map[string]string, uri string) (*mcp.ReadResourceResult, error) {
	toolName := strings.TrimPrefix(uri, schemaURIPrefix)
	schemaJSON, ok := schemaMap[toolName]
	if !ok {
		return nil, fmt.Errorf("unknown tool schema: %q", toolName)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/schema+json",
				Text:     schemaJSON,
			},
		},
	}, nil
}

// buildSchemaMap constructs a map from tool name to its JSON schema string.
// Schemas are derived from the args structs using jsonschema inference.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[ListPresetsArgs](m, "list_presets")
	addSchema[GetPresetArgs](m, "get_preset")
	addSchema[ListSnapshotsArgs](m, "list_snapshots")
	addSchema[ImportSnapshotArgs](m, "import_snapshot")
	addSchema[FilterGraphArgs](m, "filter_graph")
	addSchema[BuildTreeArgs](m, "build_tree")
	addSchema[TimelineArgs](m, "timeline")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(schemaJSON)
}
