// Package fabric composes the pairwise Relation Indices built during Model
// assembly into a single graph, so that a caller can ask for "entities of
// kind V corresponding to a set of entities of kind U" for any ordered pair
// reachable in the graph, not just directly-related pairs (spec.md section
// 4.3). It runs Floyd-Warshall once, at construction time, over the
// entity-kind graph where each registered Relation Index is an edge of
// weight 1, and stores the next hop for every (U, V) pair.
package fabric

import (
	"fmt"

	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/relindex"
)

const kindCount = int(entity.KindFare) + 1

// edge wraps a Relation Index together with which side of it ("A" or "B"
// in relindex terms) the registered "from" kind sits on, so Corresponding
// can decide whether to call Forward or Backward for a given hop direction.
type edge struct {
	index  *relindex.Index
	fromIsA bool
}

// Builder accumulates edges before Build runs the all-pairs shortest path
// computation. Keeping construction and routing separate mirrors spec.md's
// "the choice of intermediate hop is fixed at Fabric build time" — nothing
// about the graph can change after Build returns a *Fabric.
type Builder struct {
	edges [kindCount][kindCount]*edge
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddEdge registers a direct Relation Index between kinds u and v. idx's A
// side must correspond to u and its B side to v; the edge is usable for
// queries in either direction via idx.Forward/idx.Backward.
func (b *Builder) AddEdge(u, v entity.Kind, idx *relindex.Index) {
	e := &edge{index: idx, fromIsA: true}
	b.edges[u][v] = e
	b.edges[v][u] = &edge{index: idx, fromIsA: false}
}

// Build runs Floyd-Warshall over the registered edges and returns the
// routed Fabric. Ties among multiple shortest paths are broken by kind
// ordinal (the lowest-numbered intermediate kind wins), which is arbitrary
// but deterministic per spec.md's tie-break note.
func (b *Builder) Build() *Fabric {
	const inf = 1 << 29
	var dist [kindCount][kindCount]int
	var next [kindCount][kindCount]int
	for u := 0; u < kindCount; u++ {
		for v := 0; v < kindCount; v++ {
			switch {
			case u == v:
				dist[u][v] = 0
				next[u][v] = v
			case b.edges[u][v] != nil:
				dist[u][v] = 1
				next[u][v] = v
			default:
				dist[u][v] = inf
				next[u][v] = -1
			}
		}
	}
	for k := 0; k < kindCount; k++ {
		for u := 0; u < kindCount; u++ {
			if dist[u][k] == inf {
				continue
			}
			for v := 0; v < kindCount; v++ {
				if dist[k][v] == inf {
					continue
				}
				if nd := dist[u][k] + dist[k][v]; nd < dist[u][v] {
					dist[u][v] = nd
					next[u][v] = next[u][k]
				}
			}
		}
	}
	return &Fabric{edges: b.edges, next: next, dist: dist}
}

// Fabric is the routed, immutable Relation Fabric.
type Fabric struct {
	edges [kindCount][kindCount]*edge
	next  [kindCount][kindCount]int
	dist  [kindCount][kindCount]int
}

// Reachable reports whether to is reachable from from via any chain of
// registered edges.
func (f *Fabric) Reachable(from, to entity.Kind) bool {
	return f.next[from][to] != -1
}

// Corresponding answers "given entities of kind from identified by set,
// what are the entities of kind to that correspond to them via the
// relation graph" (spec.md section 4.3/section 6). It recurses hop by hop
// along the path fixed at Build time.
func (f *Fabric) Corresponding(from, to entity.Kind, set relindex.IndexSet) (relindex.IndexSet, error) {
	if from == to {
		return set, nil
	}
	if !f.Reachable(from, to) {
		return nil, fmt.Errorf("fabric: no path from %s to %s", from, to)
	}
	cur := from
	curSet := set
	for cur != to {
		hop := entity.Kind(f.next[cur][to])
		e := f.edges[cur][hop]
		if e == nil {
			return nil, fmt.Errorf("fabric: broken route %s -> %s (missing edge at %s -> %s)", from, to, cur, hop)
		}
		if e.fromIsA {
			curSet = e.index.Forward(curSet)
		} else {
			curSet = e.index.Backward(curSet)
		}
		cur = hop
	}
	return curSet, nil
}
