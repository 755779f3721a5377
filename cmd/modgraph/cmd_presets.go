package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"modgraph/internal/graph"
)

var presetsJSONOutput bool

var presetsCmd = &cobra.Command{
	Use:   "presets [NAME]",
	Short: "List the presets, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPresets,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSONOutput, "json", false,
		"Output as JSON for scripting")
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()
	catalog := a.svc.Catalog()

	if len(args) == 1 {
		p, err := catalog.Lookup(args[0])
		if err != nil {
			return err
		}
		if presetsJSONOutput {
			return writeJSON(cmd, p)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", p.Name)
		if p.Description != "" {
			fmt.Fprintf(out, "  %s\n", p.Description)
		}
		fmt.Fprintf(out, "  layout:        %s\n", p.Layout)
		fmt.Fprintf(out, "  show isolated: %t\n", p.ShowIsolated)
		fmt.Fprintf(out, "  node types:    %s\n", joinTypes(p.NodeTypes))
		fmt.Fprintf(out, "  edge types:    %s\n", joinTypes(p.EdgeTypes))
		for _, t := range p.EdgeTypes {
			if r := catalog.Reading(t); r != "" {
				fmt.Fprintf(out, "  %s: %s\n", t, r)
			}
		}
		return nil
	}

	presets := a.svc.Presets()
	if presetsJSONOutput {
		return writeJSON(cmd, presets)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLAYOUT\tNODES\tEDGES")
	for _, p := range presets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Layout, joinTypes(p.NodeTypes), joinTypes(p.EdgeTypes))
	}
	return w.Flush()
}

func joinTypes[T graph.NodeType | graph.EdgeType](types []T) string {
	if len(types) == 0 {
		return "-"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
