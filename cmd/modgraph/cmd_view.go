package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"modgraph/internal/graph"
	"modgraph/internal/service"
	"modgraph/util"
)

var (
	// Selection flags shared by filter, tree and timeline
	viewPreset       string
	viewCommit       string
	viewNodeTypes    []string
	viewEdgeTypes    []string
	viewShowIsolated bool
	viewInput        string

	// Tree-specific
	treeRootID   string
	treeRootType string
	treeFormat   string
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print the subgraph kept by a preset",
	Long: `Print the nodes and edges of a snapshot that a preset keeps.

An edge is kept only when its type is selected and both endpoints are kept
nodes. Without --input the latest stored snapshot of --repo is used.

Examples:
  modgraph filter --preset "class inheritance"
  modgraph filter --commit 3f2a9c1 --node-type File --edge-type Import
  modgraph filter --input graph.json --preset "file directory"`,
	Args: cobra.NoArgs,
	RunE: runFilter,
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the hierarchy reachable from a root node",
	Long: `Build the tree of nodes reachable from a root through the edges of a view.

Fails with the offending path when the view contains a cycle reachable from
the root, and when a kept edge points at a node missing from the view.

Examples:
  modgraph tree --preset "file directory"
  modgraph tree --preset "broad definitions" --root pkg/app.py --root-type File
  modgraph tree --input graph.json --format json`,
	Args: cobra.NoArgs,
	RunE: runTree,
}

func addSelectionFlags(cmd *cobra.Command, withCommit bool) {
	cmd.Flags().StringVarP(&viewPreset, "preset", "p", "",
		`Preset name (default "all", or "custom" when types are given)`)
	cmd.Flags().StringSliceVar(&viewNodeTypes, "node-type", nil,
		"Node types for the custom preset (repeatable)")
	cmd.Flags().StringSliceVar(&viewEdgeTypes, "edge-type", nil,
		"Edge types for the custom preset (repeatable)")
	if withCommit {
		cmd.Flags().StringVar(&viewCommit, "commit", "",
			"Snapshot commit (default: latest)")
		cmd.Flags().BoolVar(&viewShowIsolated, "show-isolated", false,
			"Keep nodes without edges, overriding the preset")
		cmd.Flags().StringVarP(&viewInput, "input", "i", "",
			`Read a graph document from a file ("-" for stdin) instead of the store`)
	}
}

func init() {
	addSelectionFlags(filterCmd, true)
	addSelectionFlags(treeCmd, true)

	treeCmd.Flags().StringVar(&treeRootID, "root", "",
		"Root node id (default: configured root)")
	treeCmd.Flags().StringVar(&treeRootType, "root-type", "",
		"Root node type (default: configured root type)")
	treeCmd.Flags().StringVar(&treeFormat, "format", "text",
		"Output format: text, json")

	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(treeCmd)
}

func selectionFromFlags(cmd *cobra.Command, a *app) (service.Selection, error) {
	v := a.svc.Vocabulary()
	nodes, err := v.ParseNodeTypes(viewNodeTypes)
	if err != nil {
		return service.Selection{}, err
	}
	edges, err := v.ParseEdgeTypes(viewEdgeTypes)
	if err != nil {
		return service.Selection{}, err
	}
	sel := service.Selection{
		Repo:      a.cfg.Repo,
		Commit:    viewCommit,
		Preset:    viewPreset,
		NodeTypes: nodes,
		EdgeTypes: edges,
	}
	if f := cmd.Flags().Lookup("show-isolated"); f != nil && f.Changed {
		show := viewShowIsolated
		sel.ShowIsolated = &show
	}
	return sel, nil
}

func readInput(cmd *cobra.Command, path string, v graph.Vocabulary) (*graph.Graph, error) {
	path = util.URIToPath(path)
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return graph.DecodeDocument(r, v)
}

// selectedView returns the filtered graph for the command's flags, from
// --input when given and from the store otherwise.
func selectedView(cmd *cobra.Command) (*app, *graph.Graph, error) {
	a, err := newApp(viewInput == "")
	if err != nil {
		return nil, nil, err
	}
	sel, err := selectionFromFlags(cmd, a)
	if err != nil {
		a.Close()
		return nil, nil, err
	}

	if viewInput != "" {
		g, err := readInput(cmd, viewInput, a.svc.Vocabulary())
		if err != nil {
			a.Close()
			return nil, nil, err
		}
		view, _, err := a.svc.Apply(sel, g)
		if err != nil {
			a.Close()
			return nil, nil, err
		}
		return a, view, nil
	}

	v, err := a.svc.View(cmd.Context(), sel)
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, v.Graph, nil
}

func runFilter(cmd *cobra.Command, args []string) error {
	a, view, err := selectedView(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return graph.EncodeDocument(cmd.OutOrStdout(), view)
}

func runTree(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(treeFormat)
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q: want text or json", treeFormat)
	}

	a, view, err := selectedView(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	root, err := a.defaultRoot()
	if err != nil {
		return err
	}
	if treeRootID != "" {
		root.ID = treeRootID
	}
	if treeRootType != "" {
		root.Type, err = a.svc.Vocabulary().ParseNodeType(treeRootType)
		if err != nil {
			return err
		}
	}

	tree, err := graph.BuildTree(root, view)
	if err != nil {
		return err
	}
	if format == "json" {
		return graph.EncodeTree(cmd.OutOrStdout(), tree)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), tree.String())
	return err
}
