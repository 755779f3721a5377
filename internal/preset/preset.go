package preset

import "modgraph/internal/graph"

// Layout is a rendering hint passed through to the view layer.
type Layout string

const (
	LayoutTree  Layout = "tree"
	LayoutForce Layout = "force"
)

// Custom is the preset whose node and edge types are chosen by the caller.
const Custom = "custom"

// Preset is a named combination of node types, edge types and display hints.
type Preset struct {
	Name         string           `json:"name" yaml:"name"`
	NodeTypes    []graph.NodeType `json:"node_types" yaml:"node_types"`
	EdgeTypes    []graph.EdgeType `json:"edge_types" yaml:"edge_types"`
	Layout       Layout           `json:"layout" yaml:"layout"`
	ShowIsolated bool             `json:"show_isolated" yaml:"show_isolated"`
	Description  string           `json:"description" yaml:"description"`
}

// Clone returns a copy of p that shares no slices with it.
func (p Preset) Clone() Preset {
	p.NodeTypes = append(make([]graph.NodeType, 0, len(p.NodeTypes)), p.NodeTypes...)
	p.EdgeTypes = append(make([]graph.EdgeType, 0, len(p.EdgeTypes)), p.EdgeTypes...)
	return p
}

// WithTypes returns a copy of p selecting the given types instead.
func (p Preset) WithTypes(nodes []graph.NodeType, edges []graph.EdgeType) Preset {
	p.NodeTypes = nodes
	p.EdgeTypes = edges
	return p.Clone()
}

// Apply filters g with the preset's types and, unless ShowIsolated is set,
// removes the nodes left without edges.
func (p Preset) Apply(g *graph.Graph) *graph.Graph {
	view := graph.Filter(g, p.NodeTypes, p.EdgeTypes)
	if !p.ShowIsolated {
		view = graph.DropIsolated(view)
	}
	return view
}
