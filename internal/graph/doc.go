// Package graph holds the typed dependency graph of a Python codebase and the
// two operations every view is built from.
//
// Filter restricts a graph to chosen node and edge types, dropping edges
// whose endpoints did not survive. BuildTree re-expresses a filtered graph as
// a tree rooted at one node, following outgoing edges.
//
//	producer ──▶ DecodeDocument ──▶ Filter ──▶ BuildTree ──▶ renderer
//
// # Thread Safety
//
// Nothing in this package mutates its inputs, so a Graph may be shared by
// concurrent callers.
package graph
