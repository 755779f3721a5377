package util

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"modgraph/internal/graph"
)

// GraphDigest returns a hash of the distinct nodes and edges of g. Two graphs
// with the same node and edge sets share a digest regardless of order or
// duplicates.
func GraphDigest(g *graph.Graph) string {
	nodes := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, string(n.Type)+"\x1f"+n.ID)
	}
	edges := make([]string, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, string(e.Type)+"\x1f"+e.Source+"\x1f"+e.Target)
	}
	slices.Sort(nodes)
	slices.Sort(edges)
	nodes = slices.Compact(nodes)
	edges = slices.Compact(edges)

	h := sha256.New()
	h.Write([]byte(strings.Join(nodes, "\x1e")))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(edges, "\x1e")))
	return hex.EncodeToString(h.Sum(nil))
}

// SelectionKey builds a stable cache key for a snapshot viewed through a
// type selection.
func SelectionKey(snapshotID string, nodes []graph.NodeType, edges []graph.EdgeType, showIsolated bool) string {
	ns := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ns = append(ns, string(n))
	}
	es := make([]string, 0, len(edges))
	for _, e := range edges {
		es = append(es, string(e))
	}
	slices.Sort(ns)
	slices.Sort(es)
	flag := "hide"
	if showIsolated {
		flag = "show"
	}
	input := strings.Join([]string{snapshotID, strings.Join(slices.Compact(ns), ","), strings.Join(slices.Compact(es), ","), flag}, "|")
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}
