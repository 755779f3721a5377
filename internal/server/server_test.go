package server

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgraph/internal/graph"
	"modgraph/internal/preset"
	"modgraph/internal/service"
	"modgraph/internal/store"
)

const demoDocument = `{
  "nodes": [
    {"id": "pkg", "type": "FolderNode"},
    {"id": "pkg/a.py", "type": "FileNode"},
    {"id": "pkg/b.py", "type": "FileNode"}
  ],
  "edges": [
    {"source": "pkg", "target": "pkg/a.py", "type": "DirectoryEdge"},
    {"source": "pkg", "target": "pkg/b.py", "type": "DirectoryEdge"},
    {"source": "pkg/a.py", "target": "pkg/b.py", "type": "ImportEdge"},
    {"source": "pkg/b.py", "target": "pkg/a.py", "type": "ImportEdge"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "modgraph.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc, err := service.New(st, preset.Default())
	require.NoError(t, err)

	s := NewServer(svc, Options{Repo: "demo", Root: graph.Node{ID: "pkg", Type: graph.NodeFolder}})
	res, _, err := s.handleImportSnapshot(context.Background(), nil, ImportSnapshotArgs{
		Commit: "c1", CommittedAt: "2021-05-24T22:48:38Z", Document: demoDocument,
	})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	return s
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListPresets(t *testing.T) {
	s := newTestServer(t)
	res, _, err := s.handleListPresets(context.Background(), nil, ListPresetsArgs{})
	require.NoError(t, err)

	var presets []preset.Preset
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &presets))
	require.Len(t, presets, 8)
	assert.Equal(t, "file directory", presets[0].Name)
}

func TestGetPreset(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, _, err := s.handleGetPreset(ctx, nil, GetPresetArgs{Name: "class inheritance"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "InheritanceEdge")

	res, _, err = s.handleGetPreset(ctx, nil, GetPresetArgs{Name: "nope"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "nope")
}

func TestListSnapshots(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, _, err := s.handleListSnapshots(ctx, nil, ListSnapshotsArgs{})
	require.NoError(t, err)
	var list []store.SnapshotInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].Commit)

	res, _, err = s.handleListSnapshots(ctx, nil, ListSnapshotsArgs{Repo: "other"})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "No snapshots")
}

func TestImportSnapshot_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, _, err := s.handleImportSnapshot(ctx, nil, ImportSnapshotArgs{CommittedAt: "yesterday", Document: demoDocument})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, _, err = s.handleImportSnapshot(ctx, nil, ImportSnapshotArgs{Document: `{"nodes": [{"type": "FileNode"}]}`})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "missing id")
}

func TestFilterGraph(t *testing.T) {
	s := newTestServer(t)
	res, _, err := s.handleFilterGraph(context.Background(), nil, FilterGraphArgs{Preset: "import dependency"})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var out struct {
		Preset   preset.Preset             `json:"preset"`
		Graph    graph.Graph               `json:"graph"`
		Readings map[graph.EdgeType]string `json:"readings"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, "import dependency", out.Preset.Name)
	assert.Len(t, out.Graph.Nodes, 2)
	assert.Len(t, out.Graph.Edges, 2)
	assert.Contains(t, out.Readings, graph.EdgeImport)
	assert.NotContains(t, out.Readings, graph.EdgeDirectory)
}

func TestFilterGraph_CustomTypes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, _, err := s.handleFilterGraph(ctx, nil, FilterGraphArgs{NodeTypes: []string{"Folder"}})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	assert.Contains(t, resultText(t, res), `"custom"`)

	res, _, err = s.handleFilterGraph(ctx, nil, FilterGraphArgs{NodeTypes: []string{"Module"}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Module")
}

func TestBuildTree(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("json", func(t *testing.T) {
		res, _, err := s.handleBuildTree(ctx, nil, BuildTreeArgs{Preset: "file directory"})
		require.NoError(t, err)
		require.False(t, res.IsError, resultText(t, res))

		var tree graph.Tree
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &tree))
		assert.Equal(t, "pkg", tree.Name)
		assert.Len(t, tree.Children, 2)
	})

	t.Run("text", func(t *testing.T) {
		res, _, err := s.handleBuildTree(ctx, nil, BuildTreeArgs{Preset: "file directory", Format: "TEXT"})
		require.NoError(t, err)
		assert.Equal(t, "pkg\n├── pkg/a.py\n└── pkg/b.py", resultText(t, res))
	})

	t.Run("cycle", func(t *testing.T) {
		res, _, err := s.handleBuildTree(ctx, nil, BuildTreeArgs{
			Preset: "import dependency", RootID: "pkg/a.py", RootType: "File",
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, resultText(t, res), "pkg/a.py -> pkg/b.py -> pkg/a.py")
	})

	t.Run("bad format", func(t *testing.T) {
		res, _, err := s.handleBuildTree(ctx, nil, BuildTreeArgs{Format: "svg"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})
}

func TestTimeline(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, _, err := s.handleTimeline(ctx, nil, TimelineArgs{Preset: "file directory", Method: "svd"})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	assert.Contains(t, resultText(t, res), `"commit": "c1"`)

	res, _, err = s.handleTimeline(ctx, nil, TimelineArgs{Method: "laplacian"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestResources(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.readGuidelines(ctx, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "build_tree")

	res, err = s.readPresets(ctx, nil)
	require.NoError(t, err)
	var doc struct {
		Presets  []preset.Preset   `json:"presets"`
		Readings map[string]string `json:"readings"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &doc))
	assert.Len(t, doc.Presets, 8)
	assert.NotEmpty(t, doc.Readings["ImportEdge"])
}

func TestSchemas(t *testing.T) {
	schemas := buildSchemaMap()
	for _, name := range []string{"list_presets", "get_preset", "list_snapshots", "import_snapshot", "filter_graph", "build_tree", "timeline"} {
		assert.Contains(t, schemas, name)
	}

	res, err := readSchema(schemas, "modgraph://schemas/build_tree")
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, "root_id")

	_, err = readSchema(schemas, "modgraph://schemas/missing")
	assert.Error(t, err)
}
