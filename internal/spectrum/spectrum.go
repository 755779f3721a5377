// Package spectrum computes matrix summaries of a dependency graph.
package spectrum

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"modgraph/internal/graph"
)

// Method selects which spectrum is summed into the graph energy.
type Method string

const (
	MethodEigenvalue Method = "eigenvalue"
	MethodSVD        Method = "svd"
)

var (
	ErrUnknownMethod = errors.New("unknown spectrum method")
	ErrNotConvergent = errors.New("matrix factorization did not converge")
)

// ParseMethod converts a method name; the empty string means eigenvalue.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodEigenvalue:
		return MethodEigenvalue, nil
	case MethodSVD:
		return MethodSVD, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Order lists distinct node IDs in order of first appearance.
func Order(g *graph.Graph) []string {
	seen := make(map[string]bool, len(g.Nodes))
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !seen[n.ID] {
			seen[n.ID] = true
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// Adjacency returns the directed adjacency matrix of g with rows and columns
// in Order(g). Parallel edges accumulate. Edges touching unknown nodes are
// ignored. A graph without nodes yields nil.
func Adjacency(g *graph.Graph) *mat.Dense {
	ids := Order(g)
	if len(ids) == 0 {
		return nil
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}

	a := mat.NewDense(len(ids), len(ids), nil)
	for _, e := range g.Edges {
		i, ok := pos[e.Source]
		if !ok {
			continue
		}
		j, ok := pos[e.Target]
		if !ok {
			continue
		}
		a.Set(i, j, a.At(i, j)+1)
	}
	return a
}

// Energy sums the absolute eigenvalues (or singular values) of the adjacency
// matrix of g. An empty graph has energy 0.
func Energy(g *graph.Graph, method Method) (float64, error) {
	a := Adjacency(g)
	if a == nil {
		return 0, nil
	}

	switch method {
	case "", MethodEigenvalue:
		var eig mat.Eigen
		if ok := eig.Factorize(a, mat.EigenNone); !ok {
			return 0, ErrNotConvergent
		}
		var sum float64
		for _, v := range eig.Values(nil) {
			sum += cmplx.Abs(v)
		}
		return sum, nil
	case MethodSVD:
		var svd mat.SVD
		if ok := svd.Factorize(a, mat.SVDNone); !ok {
			return 0, ErrNotConvergent
		}
		var sum float64
		for _, v := range svd.Values(nil) {
			sum += v
		}
		return sum, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
}
