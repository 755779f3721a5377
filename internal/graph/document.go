package graph

import (
	"encoding/json"
	"fmt"
	"io"
)

type rawNode struct {
	ID   *string `json:"id"`
	Type string  `json:"type"`
}

type rawEdge struct {
	Source *string `json:"source"`
	Target *string `json:"target"`
	Type   string  `json:"type"`
}

type rawDocument struct {
	Nodes []rawNode `json:"nodes"`
	Edges []rawEdge `json:"edges"`
}

// DecodeDocument reads a graph document of the form
//
//	{"nodes": [{"id": ..., "type": ...}], "edges": [{"source": ..., "target": ..., "type": ...}]}
//
// Every type label is checked against v. Unknown fields are ignored.
func DecodeDocument(r io.Reader, v Vocabulary) (*Graph, error) {
	var doc rawDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &DocumentError{Path: "$", Reason: err.Error()}
	}

	g := &Graph{
		Nodes: make([]Node, 0, len(doc.Nodes)),
		Edges: make([]Edge, 0, len(doc.Edges)),
	}
	for i, rn := range doc.Nodes {
		if rn.ID == nil {
			return nil, &DocumentError{Path: fmt.Sprintf("$.nodes[%d]", i), Reason: "missing id"}
		}
		t, err := v.ParseNodeType(rn.Type)
		if err != nil {
			return nil, &UnrecognizedTypeError{Kind: "node", Label: rn.Type, Index: i}
		}
		g.Nodes = append(g.Nodes, Node{ID: *rn.ID, Type: t})
	}
	for i, re := range doc.Edges {
		path := fmt.Sprintf("$.edges[%d]", i)
		if re.Source == nil {
			return nil, &DocumentError{Path: path, Reason: "missing source"}
		}
		if re.Target == nil {
			return nil, &DocumentError{Path: path, Reason: "missing target"}
		}
		t, err := v.ParseEdgeType(re.Type)
		if err != nil {
			return nil, &UnrecognizedTypeError{Kind: "edge", Label: re.Type, Index: i}
		}
		g.Edges = append(g.Edges, Edge{Source: *re.Source, Target: *re.Target, Type: t})
	}
	return g, nil
}

// EncodeDocument writes g in the document format read by DecodeDocument.
func EncodeDocument(w io.Writer, g *Graph) error {
	out := g.Clone()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	return nil
}

// EncodeTree writes t as {"name": ..., "children": [...]}.
func EncodeTree(w io.Writer, t *Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	return nil
}
