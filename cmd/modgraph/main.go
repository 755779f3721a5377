package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"modgraph/internal/config"
	"modgraph/internal/graph"
	"modgraph/internal/logging"
	"modgraph/internal/preset"
	"modgraph/internal/service"
	"modgraph/internal/store"
)

var version = "dev"

var (
	// Global flags
	repoFlag    string
	dbFlag      string
	presetsFlag string
)

var rootCmd = &cobra.Command{
	Use:   "modgraph",
	Short: "Filter and explore per-commit dependency graphs of Python repositories",
	Long: `modgraph stores snapshots of a repository's dependency graph and serves
filtered views of them.

A snapshot is a JSON document with "nodes" ({id, type}) and "edges"
({source, target, type}). Presets pick which node and edge types are kept;
the "custom" preset takes them from --node-type and --edge-type.

Examples:
  modgraph import graph.json --commit 3f2a9c1
  modgraph filter --preset "import dependency"
  modgraph tree --preset "file directory" --root .
  modgraph filter --input graph.json --node-type Class --edge-type Inheritance
  modgraph serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"Repository label (default: name of the enclosing git repository)")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "",
		"Snapshot database path (default: $MODGRAPH_DB or the data home)")
	rootCmd.PersistentFlags().StringVar(&presetsFlag, "presets", "",
		"YAML preset catalog replacing the built-in presets")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds what a command needs once configuration is resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.Store
	svc    *service.Service
}

// newApp loads configuration and builds the service. The snapshot store is
// only opened when withStore is set.
func newApp(withStore bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if repoFlag != "" {
		cfg.Repo = repoFlag
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}
	if presetsFlag != "" {
		cfg.PresetsFile = presetsFlag
	}

	logger := logging.New(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	vocab := graph.DefaultVocabulary()
	catalog := preset.Default()
	if cfg.PresetsFile != "" {
		catalog, err = preset.LoadFile(cfg.PresetsFile, vocab)
		if err != nil {
			return nil, err
		}
	}

	a := &app{cfg: cfg, logger: logger}
	var st service.SnapshotStore
	if withStore {
		if err := cfg.EnsureDirectories(); err != nil {
			return nil, err
		}
		a.store, err = store.Open(cfg.DBPath, logger)
		if err != nil {
			return nil, err
		}
		st = a.store
	}

	a.svc, err = service.New(st, catalog,
		service.WithCacheSize(cfg.CacheSize),
		service.WithVocabulary(vocab),
		service.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close store", "error", err)
		}
	}
}

// defaultRoot is the configured tree root.
func (a *app) defaultRoot() (graph.Node, error) {
	t, err := a.svc.Vocabulary().ParseNodeType(a.cfg.Root.Type)
	if err != nil {
		return graph.Node{}, fmt.Errorf("configured root type: %w", err)
	}
	return graph.Node{ID: a.cfg.Root.ID, Type: t}, nil
}
