package preset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgraph/internal/graph"
)

func TestDefault_Names(t *testing.T) {
	assert.Equal(t, []string{
		"file directory",
		"class inheritance",
		"function dependency",
		"import dependency",
		"broad definitions",
		"granular definitions",
		"all",
		"custom",
	}, Default().Names())
}

func TestLookup_FileDirectory(t *testing.T) {
	p, err := Default().Lookup("file directory")
	require.NoError(t, err)

	assert.Contains(t, p.NodeTypes, graph.NodeFolder)
	assert.Contains(t, p.NodeTypes, graph.NodeFile)
	assert.Equal(t, []graph.EdgeType{graph.EdgeDirectory}, p.EdgeTypes)
	assert.Equal(t, LayoutTree, p.Layout)
	assert.True(t, p.ShowIsolated)
	assert.NotEmpty(t, p.Description)
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Default().Lookup("not-a-preset")
	require.Error(t, err)

	var unknown *UnknownPresetError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "not-a-preset", unknown.Name)
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Contains(t, err.Error(), "file directory")
}

func TestLookup_ReturnsCopies(t *testing.T) {
	c := Default()

	p, err := c.Lookup("all")
	require.NoError(t, err)
	p.NodeTypes[0] = "Tampered"
	p.EdgeTypes = append(p.EdgeTypes[:0], "Tampered")

	again, err := c.Lookup("all")
	require.NoError(t, err)
	assert.Equal(t, graph.NodeFile, again.NodeTypes[0])
	assert.Len(t, again.EdgeTypes, 5)

	all := c.All()
	all[0].NodeTypes[0] = "Tampered"
	fresh, _ := c.Lookup("file directory")
	assert.Equal(t, graph.NodeFolder, fresh.NodeTypes[0])
}

func TestCatalog_TypesAreInVocabulary(t *testing.T) {
	vocab := graph.DefaultVocabulary()
	for _, p := range Default().All() {
		t.Run(p.Name, func(t *testing.T) {
			for _, nt := range p.NodeTypes {
				_, err := vocab.ParseNodeType(string(nt))
				assert.NoError(t, err)
			}
			for _, et := range p.EdgeTypes {
				_, err := vocab.ParseEdgeType(string(et))
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalog_CustomStartsEmpty(t *testing.T) {
	p, err := Default().Lookup(Custom)
	require.NoError(t, err)

	assert.Empty(t, p.NodeTypes)
	assert.Empty(t, p.EdgeTypes)

	g := &graph.Graph{Nodes: []graph.Node{{ID: "a", Type: graph.NodeFile}}}
	view := p.Apply(g)
	assert.Empty(t, view.Nodes)
}

func TestResolve_Custom(t *testing.T) {
	nodes := []graph.NodeType{graph.NodeClass}
	edges := []graph.EdgeType{graph.EdgeInheritance}

	p, err := Default().Resolve(Custom, nodes, edges)
	require.NoError(t, err)
	assert.Equal(t, nodes, p.NodeTypes)
	assert.Equal(t, edges, p.EdgeTypes)

	nodes[0] = graph.NodeVar
	assert.Equal(t, graph.NodeClass, p.NodeTypes[0], "resolved preset must not alias caller slices")

	named, err := Default().Resolve("class inheritance", []graph.NodeType{graph.NodeVar}, nil)
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeType{graph.NodeClass}, named.NodeTypes, "explicit types only apply to custom")
}

func TestApply_ShowIsolated(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{
			{ID: "Base", Type: graph.NodeClass},
			{ID: "Child", Type: graph.NodeClass},
			{ID: "Alone", Type: graph.NodeClass},
		},
		Edges: []graph.Edge{{Source: "Base", Target: "Child", Type: graph.EdgeInheritance}},
	}
	c := Default()

	hidden, err := c.Lookup("class inheritance")
	require.NoError(t, err)
	assert.Len(t, hidden.Apply(g).Nodes, 2)

	shown := hidden
	shown.ShowIsolated = true
	assert.Len(t, shown.Apply(g).Nodes, 3)
}

func TestReading(t *testing.T) {
	c := Default()
	assert.Equal(t, "u is the parent folder of v", c.Reading(graph.EdgeDirectory))
	assert.Equal(t, "u is imported by v", c.Reading(graph.EdgeImport))
	assert.Empty(t, c.Reading("Nope"))
}

func TestNewCatalog_Validation(t *testing.T) {
	custom := Preset{Name: Custom}
	tests := []struct {
		name    string
		presets []Preset
	}{
		{"empty name", []Preset{{Name: " "}, custom}},
		{"duplicate", []Preset{{Name: "x"}, {Name: "x"}, custom}},
		{"missing custom", []Preset{{Name: "x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.presets, nil)
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

const catalogYAML = `
readings:
  Import: u imports v
presets:
  - name: packages
    node_types: [Folder, FileNode]
    edge_types: [Directory, ImportEdge]
    layout: tree
    show_isolated: true
    description: Packages and their modules.
  - name: custom
`

func TestLoad(t *testing.T) {
	c, err := Load(strings.NewReader(catalogYAML), graph.DefaultVocabulary())
	require.NoError(t, err)

	assert.Equal(t, []string{"packages", "custom"}, c.Names())

	p, err := c.Lookup("packages")
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeType{graph.NodeFolder, graph.NodeFile}, p.NodeTypes)
	assert.Equal(t, []graph.EdgeType{graph.EdgeDirectory, graph.EdgeImport}, p.EdgeTypes)
	assert.Equal(t, LayoutTree, p.Layout)
	assert.True(t, p.ShowIsolated)

	custom, err := c.Lookup(Custom)
	require.NoError(t, err)
	assert.Equal(t, LayoutForce, custom.Layout)

	assert.Equal(t, "u imports v", c.Reading(graph.EdgeImport))
	assert.Equal(t, "u defines v", c.Reading(graph.EdgeDefinition))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "presets: [\n"},
		{"unknown node type", "presets:\n  - name: custom\n    node_types: [Module]\n"},
		{"unknown edge type", "presets:\n  - name: custom\n    edge_types: [Calls]\n"},
		{"unknown layout", "presets:\n  - name: custom\n    layout: spiral\n"},
		{"unknown reading", "readings:\n  Calls: x\npresets:\n  - name: custom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc), graph.DefaultVocabulary())
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	c, err := LoadFile(path, graph.DefaultVocabulary())
	require.NoError(t, err)
	assert.Len(t, c.Names(), 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), graph.DefaultVocabulary())
	assert.Error(t, err)
}
