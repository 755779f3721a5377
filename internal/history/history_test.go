package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgraph/internal/graph"
	"modgraph/internal/preset"
	"modgraph/internal/spectrum"
)

func tree(files ...string) *graph.Graph {
	g := &graph.Graph{Nodes: []graph.Node{{ID: "root", Type: graph.NodeFolder}}}
	for _, f := range files {
		g.Nodes = append(g.Nodes, graph.Node{ID: f, Type: graph.NodeFile})
		g.Edges = append(g.Edges, graph.Edge{Source: "root", Target: f, Type: graph.EdgeDirectory})
	}
	return g
}

func snapshots() []Snapshot {
	base := time.Date(2021, 5, 24, 22, 48, 38, 0, time.UTC)
	withCall := tree("main.py", "util.py")
	withCall.Nodes = append(withCall.Nodes, graph.Node{ID: "run", Type: graph.NodeFunc})
	withCall.Edges = append(withCall.Edges, graph.Edge{Source: "main.py", Target: "run", Type: graph.EdgeDefinition})

	return []Snapshot{
		{Commit: "c3", CommittedAt: base.Add(48 * time.Hour), Graph: tree("main.py", "util.py", "cli.py")},
		{Commit: "c1", CommittedAt: base, Graph: tree("main.py", "util.py")},
		{Commit: "c2", CommittedAt: base.Add(24 * time.Hour), Graph: withCall},
	}
}

func TestUniqueViews(t *testing.T) {
	p, err := preset.Default().Lookup("file directory")
	require.NoError(t, err)

	groups := UniqueViews(snapshots(), p)

	require.Len(t, groups, 2)
	assert.Equal(t, []string{"c3"}, groups[0].Commits)
	assert.Equal(t, []string{"c1", "c2"}, groups[1].Commits, "definition edges are outside the preset")
	assert.Len(t, groups[1].View.Nodes, 3)
	assert.NotEqual(t, groups[0].Digest, groups[1].Digest)
}

func TestUniqueViews_Empty(t *testing.T) {
	assert.Empty(t, UniqueViews(nil, preset.Preset{}))
}

func TestTimeline(t *testing.T) {
	p, err := preset.Default().Lookup("file directory")
	require.NoError(t, err)

	points, err := Timeline(snapshots(), p, spectrum.MethodSVD)
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, []string{points[0].Commit, points[1].Commit, points[2].Commit})
	// A star with k leaves has a single singular value sqrt(k).
	assert.InDelta(t, 1.4142135623730951, points[0].Energy, 1e-9)
	assert.InDelta(t, points[0].Energy, points[1].Energy, 1e-12)
	assert.InDelta(t, 1.7320508075688772, points[2].Energy, 1e-9)
}

func TestTimeline_UnknownMethod(t *testing.T) {
	p, err := preset.Default().Lookup("file directory")
	require.NoError(t, err)

	_, err = Timeline(snapshots(), p, "laplacian")
	assert.ErrorIs(t, err, spectrum.ErrUnknownMethod)
}
