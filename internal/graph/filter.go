package graph

// Filter returns the subgraph of g restricted to the given node and edge
// types. Nodes keep their relative order. An edge survives only if its type
// is selected and both endpoints are among the surviving nodes. The result
// never shares storage with g.
func Filter(g *Graph, nodeTypes []NodeType, edgeTypes []EdgeType) *Graph {
	out := &Graph{Nodes: []Node{}, Edges: []Edge{}}
	if g == nil {
		return out
	}

	keepNode := make(map[NodeType]struct{}, len(nodeTypes))
	for _, t := range nodeTypes {
		keepNode[t] = struct{}{}
	}
	keepEdge := make(map[EdgeType]struct{}, len(edgeTypes))
	for _, t := range edgeTypes {
		keepEdge[t] = struct{}{}
	}

	surviving := make(map[string]struct{})
	for _, n := range g.Nodes {
		if _, ok := keepNode[n.Type]; !ok {
			continue
		}
		out.Nodes = append(out.Nodes, n)
		surviving[n.ID] = struct{}{}
	}

	for _, e := range g.Edges {
		if _, ok := keepEdge[e.Type]; !ok {
			continue
		}
		if _, ok := surviving[e.Source]; !ok {
			continue
		}
		if _, ok := surviving[e.Target]; !ok {
			continue
		}
		out.Edges = append(out.Edges, e)
	}
	return out
}

// Degrees counts incident edges per node ID. A self-loop adds two to its
// node, once as source and once as target.
func Degrees(g *Graph) map[string]int {
	deg := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		deg[e.Source]++
		deg[e.Target]++
	}
	return deg
}

// DropIsolated returns a copy of g without nodes of degree zero. Edges are
// kept as they are since no surviving edge touches a dropped node.
func DropIsolated(g *Graph) *Graph {
	out := &Graph{Nodes: []Node{}, Edges: []Edge{}}
	if g == nil {
		return out
	}
	deg := Degrees(g)
	for _, n := range g.Nodes {
		if deg[n.ID] > 0 {
			out.Nodes = append(out.Nodes, n)
		}
	}
	out.Edges = append(out.Edges, g.Edges...)
	return out
}
