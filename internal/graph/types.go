package graph

// NodeType labels the kind of code construct a node represents.
type NodeType string

// EdgeType labels the relationship an edge represents.
type EdgeType string

const (
	NodeFile   NodeType = "FileNode"
	NodeFolder NodeType = "FolderNode"
	NodeClass  NodeType = "ClassNode"
	NodeFunc   NodeType = "FuncNode"
	NodeVar    NodeType = "VarNode"
	NodeLambda NodeType = "LambdaNode"
	NodeIf     NodeType = "IfNode"
	NodeFor    NodeType = "ForNode"
	NodeWhile  NodeType = "WhileNode"
	NodeTry    NodeType = "TryNode"
)

const (
	EdgeDirectory    EdgeType = "DirectoryEdge"
	EdgeImport       EdgeType = "ImportEdge"
	EdgeFunctionCall EdgeType = "FunctionCallEdge"
	EdgeInheritance  EdgeType = "InheritanceEdge"
	EdgeDefinition   EdgeType = "DefinitionEdge"
	EdgeVariable     EdgeType = "VariableEdge"
	EdgeControlFlow  EdgeType = "ControlFlowEdge"
)

// Node represents a code construct in the dependency graph.
type Node struct {
	ID   string   `json:"id"`
	Type NodeType `json:"type"`
}

// Edge represents a directed relationship between two nodes.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
}

// Graph is an ordered list of nodes and edges. Node IDs are not required to
// be unique; lookups by ID resolve to the first match.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Tree is a rooted, fully owned view of a graph walked from one node.
type Tree struct {
	Name     string  `json:"name"`
	Children []*Tree `json:"children"`
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return &Graph{Nodes: []Node{}, Edges: []Edge{}}
	}
	return &Graph{
		Nodes: append(make([]Node, 0, len(g.Nodes)), g.Nodes...),
		Edges: append(make([]Edge, 0, len(g.Edges)), g.Edges...),
	}
}

// NodeByID returns the first node whose ID matches id.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// firstIndex maps each node ID to its first node.
func (g *Graph) firstIndex() map[string]Node {
	idx := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = n
		}
	}
	return idx
}
