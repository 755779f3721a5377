package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"modgraph/internal/spectrum"
	"modgraph/internal/store"
	"modgraph/util"
)

var (
	importCommit      string
	importCommittedAt string

	listJSONOutput bool
	timelineMethod string
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Store a graph document as the snapshot of a commit",
	Long: `Store a graph document as the snapshot of a commit, replacing any
snapshot already stored for the same repository and commit.

Use "-" to read the document from stdin.

Examples:
  modgraph import graph.json --commit 3f2a9c1 --committed-at 2021-05-24T22:48:38Z
  extract-graph | modgraph import - --repo myproject --commit HEAD`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List the stored snapshots of a repository",
	Args:  cobra.NoArgs,
	RunE:  runSnapshots,
}

var deleteCmd = &cobra.Command{
	Use:   "delete COMMIT",
	Short: "Delete the snapshot of a commit",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Print the graph energy of a view for every stored commit",
	Long: `Print the graph energy of a preset view for every stored snapshot,
oldest commit first. Commits whose views coincide share one computation.

Methods:
  eigenvalue  sum of absolute eigenvalues of the adjacency matrix
  svd         sum of singular values of the adjacency matrix

Examples:
  modgraph timeline --preset "import dependency"
  modgraph timeline --preset "class inheritance" --method svd --json`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

func init() {
	importCmd.Flags().StringVar(&importCommit, "commit", "",
		"Commit the graph was extracted from (default: generated label)")
	importCmd.Flags().StringVar(&importCommittedAt, "committed-at", "",
		"Commit time in RFC 3339 format (default: now)")

	snapshotsCmd.Flags().BoolVar(&listJSONOutput, "json", false,
		"Output as JSON for scripting")

	addSelectionFlags(timelineCmd, false)
	timelineCmd.Flags().StringVar(&timelineMethod, "method", string(spectrum.MethodEigenvalue),
		"Energy method: eigenvalue, svd")
	timelineCmd.Flags().BoolVar(&listJSONOutput, "json", false,
		"Output as JSON for scripting")

	snapshotsCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(timelineCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	meta := store.SnapshotMeta{Commit: importCommit}
	if importCommittedAt != "" {
		at, err := time.Parse(time.RFC3339, importCommittedAt)
		if err != nil {
			return fmt.Errorf("invalid --committed-at: %w", err)
		}
		meta.CommittedAt = at
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()
	meta.Repo = a.cfg.Repo

	r := cmd.InOrStdin()
	if path := util.URIToPath(args[0]); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open document: %w", err)
		}
		defer f.Close()
		r = f
	}

	info, err := a.svc.Import(cmd.Context(), meta, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s@%s: %d nodes, %d edges\n",
		info.Repo, info.Commit, info.NodeCount, info.EdgeCount)
	return nil
}

func runSnapshots(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.svc.Snapshots(cmd.Context(), a.cfg.Repo)
	if err != nil {
		return err
	}
	if listJSONOutput {
		return writeJSON(cmd, list)
	}
	if len(list) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No snapshots stored for %q.\n", a.cfg.Repo)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMIT\tCOMMITTED\tNODES\tEDGES\tDIGEST")
	for _, s := range list {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.12s\n",
			s.Commit, s.CommittedAt.Format(time.RFC3339), s.NodeCount, s.EdgeCount, s.Digest)
	}
	return w.Flush()
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.DeleteSnapshot(cmd.Context(), a.cfg.Repo, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s@%s\n", a.cfg.Repo, args[0])
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	method, err := spectrum.ParseMethod(timelineMethod)
	if err != nil {
		return err
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	sel, err := selectionFromFlags(cmd, a)
	if err != nil {
		return err
	}
	sel.Commit = ""
	points, err := a.svc.Timeline(cmd.Context(), sel, method)
	if err != nil {
		return err
	}
	if listJSONOutput {
		return writeJSON(cmd, points)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMMIT\tCOMMITTED\tENERGY")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%.4f\n", p.Commit, p.CommittedAt.Format(time.RFC3339), p.Energy)
	}
	return w.Flush()
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
