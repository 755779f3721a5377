// Package store persists per-commit graph snapshots in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"modgraph/internal/graph"
	"modgraph/util"
)

// ErrSnapshotNotFound is returned when no snapshot matches a repo/commit.
var ErrSnapshotNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id           TEXT PRIMARY KEY,
	repo         TEXT NOT NULL,
	commit_sha   TEXT NOT NULL,
	committed_at INTEGER NOT NULL,
	digest       TEXT NOT NULL,
	node_count   INTEGER NOT NULL,
	edge_count   INTEGER NOT NULL,
	created_at   INTEGER NOT NULL,
	UNIQUE (repo, commit_sha)
);
CREATE TABLE IF NOT EXISTS nodes (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	node_id     TEXT NOT NULL,
	node_type   TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, seq)
);
CREATE TABLE IF NOT EXISTS edges (
	snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	source      TEXT NOT NULL,
	target      TEXT NOT NULL,
	edge_type   TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, seq)
);
CREATE INDEX IF NOT EXISTS idx_snapshots_repo ON snapshots(repo, committed_at);
`

// SnapshotMeta identifies the commit a graph was extracted from.
type SnapshotMeta struct {
	Repo        string
	Commit      string
	CommittedAt time.Time
}

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	ID          string    `json:"id"`
	Repo        string    `json:"repo"`
	Commit      string    `json:"commit"`
	CommittedAt time.Time `json:"committed_at"`
	Digest      string    `json:"digest"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store is a SQLite-backed snapshot store. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, logger: logger.With("component", "store")}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores g for meta.Repo at meta.Commit, replacing any snapshot
// already stored for that pair. An empty commit gets a generated label.
func (s *Store) SaveSnapshot(ctx context.Context, meta SnapshotMeta, g *graph.Graph) (SnapshotInfo, error) {
	if meta.Repo == "" {
		return SnapshotInfo{}, fmt.Errorf("snapshot repo must not be empty")
	}
	if meta.Commit == "" {
		meta.Commit = "import-" + uuid.NewString()
	}
	if g == nil {
		g = &graph.Graph{}
	}
	if meta.CommittedAt.IsZero() {
		meta.CommittedAt = time.Now()
	}

	info := SnapshotInfo{
		ID:          uuid.NewString(),
		Repo:        meta.Repo,
		Commit:      meta.Commit,
		CommittedAt: meta.CommittedAt.UTC().Truncate(time.Second),
		Digest:      util.GraphDigest(g),
		NodeCount:   len(g.Nodes),
		EdgeCount:   len(g.Edges),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SnapshotInfo{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM snapshots WHERE repo = ? AND commit_sha = ?`, meta.Repo, meta.Commit); err != nil {
		return SnapshotInfo{}, fmt.Errorf("failed to replace snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, repo, commit_sha, committed_at, digest, node_count, edge_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		info.ID, info.Repo, info.Commit, info.CommittedAt.Unix(), info.Digest,
		info.NodeCount, info.EdgeCount, info.CreatedAt.Unix()); err != nil {
		return SnapshotInfo{}, fmt.Errorf("failed to insert snapshot: %w", err)
	}
	if err := bulkInsertNodes(ctx, tx, info.ID, g.Nodes); err != nil {
		return SnapshotInfo{}, err
	}
	if err := bulkInsertEdges(ctx, tx, info.ID, g.Edges); err != nil {
		return SnapshotInfo{}, err
	}
	if err := tx.Commit(); err != nil {
		return SnapshotInfo{}, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Debug("snapshot saved", "repo", info.Repo, "commit", info.Commit,
		"nodes", info.NodeCount, "edges", info.EdgeCount)
	return info, nil
}

func bulkInsertNodes(ctx context.Context, tx *sql.Tx, snapshotID string, nodes []graph.Node) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO nodes (snapshot_id, seq, node_id, node_type) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer stmt.Close()
	for i, n := range nodes {
		if _, err := stmt.ExecContext(ctx, snapshotID, i, n.ID, string(n.Type)); err != nil {
			return fmt.Errorf("failed to insert node %q: %w", n.ID, err)
		}
	}
	return nil
}

func bulkInsertEdges(ctx context.Context, tx *sql.Tx, snapshotID string, edges []graph.Edge) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO edges (snapshot_id, seq, source, target, edge_type) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer stmt.Close()
	for i, e := range edges {
		if _, err := stmt.ExecContext(ctx, snapshotID, i, e.Source, e.Target, string(e.Type)); err != nil {
			return fmt.Errorf("failed to insert edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}
	return nil
}

// LoadSnapshot returns the graph stored for repo at commit. An empty commit
// selects the most recent snapshot of repo.
func (s *Store) LoadSnapshot(ctx context.Context, repo, commit string) (*graph.Graph, SnapshotInfo, error) {
	var row *sql.Row
	if commit == "" {
		row = s.db.QueryRowContext(ctx, selectSnapshot+
			` WHERE repo = ? ORDER BY committed_at DESC, created_at DESC LIMIT 1`, repo)
	} else {
		row = s.db.QueryRowContext(ctx, selectSnapshot+
			` WHERE repo = ? AND commit_sha = ?`, repo, commit)
	}
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SnapshotInfo{}, fmt.Errorf("%w: %s@%s", ErrSnapshotNotFound, repo, commit)
	}
	if err != nil {
		return nil, SnapshotInfo{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	g, err := s.loadGraph(ctx, info.ID)
	if err != nil {
		return nil, SnapshotInfo{}, err
	}
	return g, info, nil
}

func (s *Store) loadGraph(ctx context.Context, snapshotID string) (*graph.Graph, error) {
	g := &graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}

	rows, err := s.db.QueryContext(ctx,
		`SELECT node_id, node_type FROM nodes WHERE snapshot_id = ? ORDER BY seq`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	for rows.Next() {
		var id, typ string
		if err := rows.Scan(&id, &typ); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		g.Nodes = append(g.Nodes, graph.Node{ID: id, Type: graph.NodeType(typ)})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT source, target, edge_type FROM edges WHERE snapshot_id = ? ORDER BY seq`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var src, dst, typ string
		if err := rows.Scan(&src, &dst, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		g.Edges = append(g.Edges, graph.Edge{Source: src, Target: dst, Type: graph.EdgeType(typ)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}
	return g, nil
}

// ListSnapshots returns the snapshots of repo ordered by commit time.
func (s *Store) ListSnapshots(ctx context.Context, repo string) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, selectSnapshot+
		` WHERE repo = ? ORDER BY committed_at, created_at`, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	out := []SnapshotInfo{}
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteSnapshot removes the snapshot of repo at commit.
func (s *Store) DeleteSnapshot(ctx context.Context, repo, commit string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE repo = ? AND commit_sha = ?`, repo, commit)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s@%s", ErrSnapshotNotFound, repo, commit)
	}
	return nil
}

const selectSnapshot = `SELECT id, repo, commit_sha, committed_at, digest, node_count, edge_count, created_at FROM snapshots`

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner) (SnapshotInfo, error) {
	var info SnapshotInfo
	var committed, created int64
	err := row.Scan(&info.ID, &info.Repo, &info.Commit, &committed, &info.Digest,
		&info.NodeCount, &info.EdgeCount, &created)
	if err != nil {
		return SnapshotInfo{}, err
	}
	info.CommittedAt = time.Unix(committed, 0).UTC()
	info.CreatedAt = time.Unix(created, 0).UTC()
	return info, nil
}
