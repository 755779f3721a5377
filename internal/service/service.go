// Package service ties snapshot storage to preset views. It is the layer the
// CLI and the MCP server talk to.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"modgraph/internal/graph"
	"modgraph/internal/history"
	"modgraph/internal/metrics"
	"modgraph/internal/preset"
	"modgraph/internal/spectrum"
	"modgraph/internal/store"
	"modgraph/util"
)

// DefaultPreset is used when a selection names neither a preset nor types.
const DefaultPreset = "all"

// ErrInvalidSelection is returned for selections that cannot be resolved.
var ErrInvalidSelection = errors.New("invalid selection")

// SnapshotStore is the persistence the service needs.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, meta store.SnapshotMeta, g *graph.Graph) (store.SnapshotInfo, error)
	LoadSnapshot(ctx context.Context, repo, commit string) (*graph.Graph, store.SnapshotInfo, error)
	ListSnapshots(ctx context.Context, repo string) ([]store.SnapshotInfo, error)
}

// Selection picks a snapshot and the view of it to produce. An empty Commit
// selects the latest snapshot. NodeTypes and EdgeTypes are only consulted
// for the custom preset; ShowIsolated, when set, overrides the preset.
type Selection struct {
	Repo         string
	Commit       string
	Preset       string
	NodeTypes    []graph.NodeType
	EdgeTypes    []graph.EdgeType
	ShowIsolated *bool
}

// View is a filtered snapshot together with the preset that produced it.
type View struct {
	Snapshot store.SnapshotInfo `json:"snapshot"`
	Preset   preset.Preset      `json:"preset"`
	Graph    *graph.Graph       `json:"graph"`
}

type Service struct {
	store   SnapshotStore
	catalog *preset.Catalog
	vocab   graph.Vocabulary
	views   *lru.Cache[string, *graph.Graph]
	logger  *slog.Logger
}

type Option func(*options)

type options struct {
	cacheSize int
	vocab     graph.Vocabulary
	logger    *slog.Logger
}

// WithCacheSize bounds the number of cached views.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithVocabulary sets the vocabulary used to decode imported documents.
func WithVocabulary(v graph.Vocabulary) Option {
	return func(o *options) { o.vocab = v }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func New(st SnapshotStore, catalog *preset.Catalog, opts ...Option) (*Service, error) {
	o := options{cacheSize: 128, vocab: graph.DefaultVocabulary(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if catalog == nil {
		catalog = preset.Default()
	}

	views, err := lru.New[string, *graph.Graph](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create view cache: %w", err)
	}
	return &Service{
		store:   st,
		catalog: catalog,
		vocab:   o.vocab,
		views:   views,
		logger:  o.logger.With("component", "service"),
	}, nil
}

// Catalog returns the preset catalog in use.
func (s *Service) Catalog() *preset.Catalog {
	return s.catalog
}

// Vocabulary returns the vocabulary used for decoding and label parsing.
func (s *Service) Vocabulary() graph.Vocabulary {
	return s.vocab
}

// Presets returns every preset in catalog order.
func (s *Service) Presets() []preset.Preset {
	return s.catalog.All()
}

// Import decodes a graph document from r and stores it as a snapshot.
func (s *Service) Import(ctx context.Context, meta store.SnapshotMeta, r io.Reader) (info store.SnapshotInfo, err error) {
	defer func(start time.Time) { metrics.Observe("import", start, err) }(time.Now())

	g, err := graph.DecodeDocument(r, s.vocab)
	if err != nil {
		return store.SnapshotInfo{}, err
	}
	info, err = s.store.SaveSnapshot(ctx, meta, g)
	if err != nil {
		return store.SnapshotInfo{}, err
	}
	s.logger.Info("snapshot imported", "repo", info.Repo, "commit", info.Commit,
		"nodes", info.NodeCount, "edges", info.EdgeCount)
	return info, nil
}

// Snapshots lists the stored snapshots of repo.
func (s *Service) Snapshots(ctx context.Context, repo string) ([]store.SnapshotInfo, error) {
	return s.store.ListSnapshots(ctx, repo)
}

// ResolvePreset turns a selection into the preset to apply.
func (s *Service) ResolvePreset(sel Selection) (preset.Preset, error) {
	name := sel.Preset
	if name == "" {
		name = DefaultPreset
		if len(sel.NodeTypes) > 0 || len(sel.EdgeTypes) > 0 {
			name = preset.Custom
		}
	} else if name != preset.Custom && (len(sel.NodeTypes) > 0 || len(sel.EdgeTypes) > 0) {
		return preset.Preset{}, fmt.Errorf("%w: explicit types require the %q preset, got %q",
			ErrInvalidSelection, preset.Custom, name)
	}

	p, err := s.catalog.Resolve(name, sel.NodeTypes, sel.EdgeTypes)
	if err != nil {
		return preset.Preset{}, err
	}
	if sel.ShowIsolated != nil {
		p.ShowIsolated = *sel.ShowIsolated
	}
	return p, nil
}

// Apply produces the view of g described by sel, ignoring its Repo and
// Commit. It does not touch the store or the cache.
func (s *Service) Apply(sel Selection, g *graph.Graph) (*graph.Graph, preset.Preset, error) {
	p, err := s.ResolvePreset(sel)
	if err != nil {
		return nil, preset.Preset{}, err
	}
	return p.Apply(g), p, nil
}

// View loads the selected snapshot and filters it. Views are cached per
// snapshot and type selection; callers receive their own copy.
func (s *Service) View(ctx context.Context, sel Selection) (v *View, err error) {
	defer func(start time.Time) { metrics.Observe("view", start, err) }(time.Now())
	return s.view(ctx, sel)
}

func (s *Service) view(ctx context.Context, sel Selection) (*View, error) {
	if sel.Repo == "" {
		return nil, fmt.Errorf("%w: repo must not be empty", ErrInvalidSelection)
	}
	p, err := s.ResolvePreset(sel)
	if err != nil {
		return nil, err
	}

	g, info, err := s.store.LoadSnapshot(ctx, sel.Repo, sel.Commit)
	if err != nil {
		return nil, err
	}

	key := util.SelectionKey(info.ID, p.NodeTypes, p.EdgeTypes, p.ShowIsolated)
	view, ok := s.views.Get(key)
	if ok {
		metrics.ViewCacheLookups.WithLabelValues("hit").Inc()
	} else {
		metrics.ViewCacheLookups.WithLabelValues("miss").Inc()
		view = p.Apply(g)
		s.views.Add(key, view)
	}
	metrics.ViewSize.WithLabelValues(p.Name, "nodes").Set(float64(len(view.Nodes)))
	metrics.ViewSize.WithLabelValues(p.Name, "edges").Set(float64(len(view.Edges)))

	s.logger.Debug("view served", "repo", info.Repo, "commit", info.Commit,
		"preset", p.Name, "cached", ok, "nodes", len(view.Nodes), "edges", len(view.Edges))
	return &View{Snapshot: info, Preset: p, Graph: view.Clone()}, nil
}

// Tree builds the tree rooted at root over the selected view.
func (s *Service) Tree(ctx context.Context, sel Selection, root graph.Node) (t *graph.Tree, err error) {
	defer func(start time.Time) { metrics.Observe("tree", start, err) }(time.Now())

	v, err := s.view(ctx, sel)
	if err != nil {
		return nil, err
	}
	t, err = graph.BuildTree(root, v.Graph)
	if err != nil {
		return nil, fmt.Errorf("tree of %s@%s under preset %q: %w", v.Snapshot.Repo, v.Snapshot.Commit, v.Preset.Name, err)
	}
	return t, nil
}

// Timeline computes the energy of the preset view of every snapshot of repo.
func (s *Service) Timeline(ctx context.Context, sel Selection, method spectrum.Method) (points []history.Point, err error) {
	defer func(start time.Time) { metrics.Observe("timeline", start, err) }(time.Now())

	snaps, p, err := s.history(ctx, sel)
	if err != nil {
		return nil, err
	}
	return history.Timeline(snaps, p, method)
}

// UniqueViews groups the snapshots of repo whose preset views coincide.
func (s *Service) UniqueViews(ctx context.Context, sel Selection) (groups []history.Group, err error) {
	defer func(start time.Time) { metrics.Observe("unique_views", start, err) }(time.Now())

	snaps, p, err := s.history(ctx, sel)
	if err != nil {
		return nil, err
	}
	return history.UniqueViews(snaps, p), nil
}

func (s *Service) history(ctx context.Context, sel Selection) ([]history.Snapshot, preset.Preset, error) {
	if sel.Repo == "" {
		return nil, preset.Preset{}, fmt.Errorf("%w: repo must not be empty", ErrInvalidSelection)
	}
	p, err := s.ResolvePreset(sel)
	if err != nil {
		return nil, preset.Preset{}, err
	}

	infos, err := s.store.ListSnapshots(ctx, sel.Repo)
	if err != nil {
		return nil, preset.Preset{}, err
	}
	snaps := make([]history.Snapshot, 0, len(infos))
	for _, info := range infos {
		g, _, err := s.store.LoadSnapshot(ctx, info.Repo, info.Commit)
		if err != nil {
			return nil, preset.Preset{}, err
		}
		snaps = append(snaps, history.Snapshot{Commit: info.Commit, CommittedAt: info.CommittedAt, Graph: g})
	}
	s.logger.Debug("history loaded", "repo", sel.Repo, "snapshots", len(snaps), "preset", p.Name)
	return snaps, p, nil
}
