// Package history compares preset views of a repository across commits.
package history

import (
	"fmt"
	"sort"
	"time"

	"modgraph/internal/graph"
	"modgraph/internal/preset"
	"modgraph/internal/spectrum"
	"modgraph/util"
)

// Snapshot is the graph of one commit.
type Snapshot struct {
	Commit      string
	CommittedAt time.Time
	Graph       *graph.Graph
}

// Group is a distinct view shared by one or more commits.
type Group struct {
	View    *graph.Graph
	Digest  string
	Commits []string
}

// Point is the energy of a commit's view.
type Point struct {
	Commit      string    `json:"commit"`
	CommittedAt time.Time `json:"committed_at"`
	Energy      float64   `json:"energy"`
}

// UniqueViews applies p to every snapshot and groups commits whose views
// have the same node and edge sets. Groups appear in order of first sighting.
func UniqueViews(snapshots []Snapshot, p preset.Preset) []Group {
	var groups []Group
	byDigest := make(map[string]int)
	for _, s := range snapshots {
		view := p.Apply(s.Graph)
		digest := util.GraphDigest(view)
		if i, ok := byDigest[digest]; ok {
			groups[i].Commits = append(groups[i].Commits, s.Commit)
			continue
		}
		byDigest[digest] = len(groups)
		groups = append(groups, Group{View: view, Digest: digest, Commits: []string{s.Commit}})
	}
	return groups
}

// Timeline computes the energy of every snapshot's view, sorted by commit
// time. Each distinct view is factorized once.
func Timeline(snapshots []Snapshot, p preset.Preset, method spectrum.Method) ([]Point, error) {
	when := make(map[string]time.Time, len(snapshots))
	for _, s := range snapshots {
		when[s.Commit] = s.CommittedAt
	}

	points := make([]Point, 0, len(snapshots))
	for _, g := range UniqueViews(snapshots, p) {
		energy, err := spectrum.Energy(g.View, method)
		if err != nil {
			return nil, fmt.Errorf("energy of view shared by %d commits: %w", len(g.Commits), err)
		}
		for _, c := range g.Commits {
			points = append(points, Point{Commit: c, CommittedAt: when[c], Energy: energy})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].CommittedAt.Before(points[j].CommittedAt)
	})
	return points, nil
}
