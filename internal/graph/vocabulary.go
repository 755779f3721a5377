package graph

import (
	"slices"
	"strings"
)

// Vocabulary is the set of node and edge type labels a graph may use.
// The zero value recognises nothing; use DefaultVocabulary.
type Vocabulary struct {
	nodes map[NodeType]struct{}
	edges map[EdgeType]struct{}
}

var builtinNodeTypes = []NodeType{
	NodeFile, NodeFolder, NodeClass, NodeFunc, NodeVar,
	NodeLambda, NodeIf, NodeFor, NodeWhile, NodeTry,
}

var builtinEdgeTypes = []EdgeType{
	EdgeDirectory, EdgeImport, EdgeFunctionCall, EdgeInheritance,
	EdgeDefinition, EdgeVariable, EdgeControlFlow,
}

// Short labels used by the dashboard controls.
var nodeAliases = map[string]NodeType{
	"Folder":   NodeFolder,
	"File":     NodeFile,
	"Class":    NodeClass,
	"Function": NodeFunc,
	"Variable": NodeVar,
	"Lambda":   NodeLambda,
	"If":       NodeIf,
	"For":      NodeFor,
	"While":    NodeWhile,
	"Try":      NodeTry,
}

var edgeAliases = map[string]EdgeType{
	"Directory":     EdgeDirectory,
	"Import":        EdgeImport,
	"Function Call": EdgeFunctionCall,
	"Inheritance":   EdgeInheritance,
	"Definition":    EdgeDefinition,
	"Variable":      EdgeVariable,
	"Control Flow":  EdgeControlFlow,
}

// DefaultVocabulary returns the built-in node and edge types.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{}.WithNodeTypes(builtinNodeTypes...).WithEdgeTypes(builtinEdgeTypes...)
}

// WithNodeTypes returns a copy of v that also recognises types.
func (v Vocabulary) WithNodeTypes(types ...NodeType) Vocabulary {
	nodes := make(map[NodeType]struct{}, len(v.nodes)+len(types))
	for t := range v.nodes {
		nodes[t] = struct{}{}
	}
	for _, t := range types {
		nodes[t] = struct{}{}
	}
	return Vocabulary{nodes: nodes, edges: v.edges}
}

// WithEdgeTypes returns a copy of v that also recognises types.
func (v Vocabulary) WithEdgeTypes(types ...EdgeType) Vocabulary {
	edges := make(map[EdgeType]struct{}, len(v.edges)+len(types))
	for t := range v.edges {
		edges[t] = struct{}{}
	}
	for _, t := range types {
		edges[t] = struct{}{}
	}
	return Vocabulary{nodes: v.nodes, edges: edges}
}

// NodeTypes lists the recognised node types, built-ins first.
func (v Vocabulary) NodeTypes() []NodeType {
	return orderedKeys(v.nodes, builtinNodeTypes)
}

// EdgeTypes lists the recognised edge types, built-ins first.
func (v Vocabulary) EdgeTypes() []EdgeType {
	return orderedKeys(v.edges, builtinEdgeTypes)
}

// ParseNodeType converts a label to a NodeType. Full names ("FolderNode")
// and dashboard short names ("Folder") are accepted.
func (v Vocabulary) ParseNodeType(label string) (NodeType, error) {
	label = strings.TrimSpace(label)
	t := NodeType(label)
	if alias, ok := nodeAliases[label]; ok {
		t = alias
	}
	if _, ok := v.nodes[t]; !ok {
		return "", &UnrecognizedTypeError{Kind: "node", Label: label, Index: -1}
	}
	return t, nil
}

// ParseEdgeType converts a label to an EdgeType. Full names
// ("FunctionCallEdge") and short names ("Function Call") are accepted.
func (v Vocabulary) ParseEdgeType(label string) (EdgeType, error) {
	label = strings.TrimSpace(label)
	t := EdgeType(label)
	if alias, ok := edgeAliases[label]; ok {
		t = alias
	}
	if _, ok := v.edges[t]; !ok {
		return "", &UnrecognizedTypeError{Kind: "edge", Label: label, Index: -1}
	}
	return t, nil
}

// ParseNodeTypes parses every label, stopping at the first failure.
func (v Vocabulary) ParseNodeTypes(labels []string) ([]NodeType, error) {
	out := make([]NodeType, 0, len(labels))
	for _, l := range labels {
		t, err := v.ParseNodeType(l)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseEdgeTypes parses every label, stopping at the first failure.
func (v Vocabulary) ParseEdgeTypes(labels []string) ([]EdgeType, error) {
	out := make([]EdgeType, 0, len(labels))
	for _, l := range labels {
		t, err := v.ParseEdgeType(l)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func orderedKeys[T ~string](set map[T]struct{}, builtin []T) []T {
	out := make([]T, 0, len(set))
	seen := make(map[T]bool, len(set))
	for _, t := range builtin {
		if _, ok := set[t]; ok {
			out = append(out, t)
			seen[t] = true
		}
	}
	var extra []T
	for t := range set {
		if !seen[t] {
			extra = append(extra, t)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}
