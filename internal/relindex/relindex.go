// Package relindex implements the Relation Index of spec.md section 4.2: a
// bidirectional many-to-one or many-to-many association between two
// Identified Collections, built once from a foreign-key field (or a link
// table, for many-to-many relations) and queried in both directions in
// O(|input|+|output|).
package relindex

// IndexSet is an ordered, deduplicated set of collection slot indices.
// Results are always returned in ascending order so that correspondence
// queries are deterministic for a given input regardless of map iteration
// order elsewhere in the fabric (spec.md section 5: "output determinism is
// guaranteed for given input").
type IndexSet []int

// NewIndexSet builds an IndexSet from an unordered list of indices,
// deduplicating and sorting them.
func NewIndexSet(indices []int) IndexSet {
	if len(indices) == 0 {
		return nil
	}
	max := indices[0]
	for _, i := range indices {
		if i > max {
			max = i
		}
	}
	seen := make([]bool, max+1)
	out := make(IndexSet, 0, len(indices))
	for _, i := range indices {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sortInts(out)
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// Index is a bidirectional association between collection A (size aLen)
// and collection B (size bLen). forward[a] lists the B-indices that are
// children of A-index a; backward[b] lists the A-indices that are parents
// of B-index b.
type Index struct {
	forward [][]int
	backward [][]int
}

// BuildOneToMany constructs an Index for a one-to-many relation where each
// element of B names at most one parent in A. parentOf(b) should return
// (aIndex, true) when B-index b has a resolved parent, or (_, false) when
// the foreign key was empty (some FKs in this domain are optional, e.g.
// VehicleJourney.TripPropertyID, but most callers pass a fully-resolved
// parent).
func BuildOneToMany(aLen, bLen int, parentOf func(bIdx int) (aIdx int, ok bool)) *Index {
	idx := &Index{
		forward:  make([][]int, aLen),
		backward: make([][]int, bLen),
	}
	for b := 0; b < bLen; b++ {
		a, ok := parentOf(b)
		if !ok {
			continue
		}
		idx.forward[a] = append(idx.forward[a], b)
		idx.backward[b] = append(idx.backward[b], a)
	}
	return idx
}

// BuildManyToMany constructs an Index from an explicit link enumerator
// that calls emit(aIdx, bIdx) once per association (e.g. TicketUse to
// Network, where one TicketUse perimeter names several Networks).
func BuildManyToMany(aLen, bLen int, links func(emit func(aIdx, bIdx int))) *Index {
	idx := &Index{
		forward:  make([][]int, aLen),
		backward: make([][]int, bLen),
	}
	links(func(a, b int) {
		idx.forward[a] = append(idx.forward[a], b)
		idx.backward[b] = append(idx.backward[b], a)
	})
	return idx
}

// Forward returns the union of children, in B, of every index in as.
func (idx *Index) Forward(as IndexSet) IndexSet {
	var out []int
	for _, a := range as {
		if a < len(idx.forward) {
			out = append(out, idx.forward[a]...)
		}
	}
	return NewIndexSet(out)
}

// Backward returns the union of parents, in A, of every index in bs.
func (idx *Index) Backward(bs IndexSet) IndexSet {
	var out []int
	for _, b := range bs {
		if b < len(idx.backward) {
			out = append(out, idx.backward[b]...)
		}
	}
	return NewIndexSet(out)
}

// ALen and BLen report the sizes the index was built against.
func (idx *Index) ALen() int { return len(idx.forward) }
func (idx *Index) BLen() int { return len(idx.backward) }
