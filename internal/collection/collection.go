// Package collection implements the Identified Collection and plain
// Collection primitives spec.md section 4.1 builds the rest of the object
// graph on top of: an ordered, insertion-preserving container that is
// simultaneously a sequence and an id->value map for kinds that carry a
// unique identifier, plus a bare ordered container for kinds that don't
// (Transfer, Frequency, ObjectCode, degenerate Geometry).
package collection

import (
	"iter"

	"github.com/transitmodel/core/internal/modelerr"
)

// HasID is implemented by every entity kind stored in an IdentifiedCollection.
type HasID interface {
	GetID() string
}

// Handle is a small opaque token identifying a slot in one collection
// generation. Handles are cheap to copy and valid until the next call that
// shrinks the collection (Retain): spec.md section 4.1 requires retain to
// invalidate handles so that every shrinking transformation is forced to
// rebuild the owning Model.
type Handle struct {
	idx int
}

// Index returns the zero-based slot the handle refers to. Callers outside
// this package should treat it as opaque except when threading it through
// a RelationIndex, which is built against these same slot numbers.
func (h Handle) Index() int { return h.idx }

// IdentifiedCollection is an ordered sequence of T paired with a unique-id
// index. The zero value is not usable; construct with New.
type IdentifiedCollection[T HasID] struct {
	kind  string
	items []T
	byID  map[string]int
}

// New returns an empty IdentifiedCollection for entities of the given kind
// name (used only to make error messages legible, e.g. "Line", "StopPoint").
func New[T HasID](kind string) *IdentifiedCollection[T] {
	return &IdentifiedCollection[T]{
		kind: kind,
		byID: make(map[string]int),
	}
}

// Len returns the number of live entries.
func (c *IdentifiedCollection[T]) Len() int { return len(c.items) }

// Kind returns the entity kind name the collection was constructed with.
func (c *IdentifiedCollection[T]) Kind() string { return c.kind }

// Append inserts item at the end of the collection. It fails with
// *modelerr.DuplicateID if item's id already exists.
func (c *IdentifiedCollection[T]) Append(item T) (Handle, error) {
	id := item.GetID()
	if _, exists := c.byID[id]; exists {
		return Handle{}, &modelerr.DuplicateID{Kind: c.kind, ID: id}
	}
	idx := len(c.items)
	c.items = append(c.items, item)
	c.byID[id] = idx
	return Handle{idx: idx}, nil
}

// AppendAll appends each item in order, stopping and returning the first
// DuplicateID error encountered. Items appended before the failure remain
// in the collection, matching the Bag's "construction is incremental and
// fallible" contract; only Model assembly requires atomicity (spec.md 4.4).
func (c *IdentifiedCollection[T]) AppendAll(items []T) error {
	for _, item := range items {
		if _, err := c.Append(item); err != nil {
			return err
		}
	}
	return nil
}

// ByID looks up an entity by identifier.
func (c *IdentifiedCollection[T]) ByID(id string) (T, bool) {
	idx, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[idx], true
}

// HandleOf returns the stable handle for id, if present.
func (c *IdentifiedCollection[T]) HandleOf(id string) (Handle, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Handle{}, false
	}
	return Handle{idx: idx}, true
}

// ByIndex dereferences a handle. It panics if the handle is out of range,
// which only happens if it was taken before a Retain on this collection.
func (c *IdentifiedCollection[T]) ByIndex(h Handle) T {
	return c.items[h.idx]
}

// Set overwrites the entity at h in place. Used by transformations that
// rewrite fields (add_prefix, rule application) without changing identity
// cardinality; it is the collection's only mutation path besides Append
// and Retain, matching invariant I3 ("no mutation through the Model" -
// Set is only ever called on a decomposed Bag's collections).
func (c *IdentifiedCollection[T]) Set(h Handle, item T) {
	oldID := c.items[h.idx].GetID()
	newID := item.GetID()
	if oldID != newID {
		delete(c.byID, oldID)
		c.byID[newID] = h.idx
	}
	c.items[h.idx] = item
}

// All iterates (Handle, T) pairs in insertion order.
func (c *IdentifiedCollection[T]) All() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		for i, item := range c.items {
			if !yield(Handle{idx: i}, item) {
				return
			}
		}
	}
}

// IDs returns every identifier in insertion order.
func (c *IdentifiedCollection[T]) IDs() []string {
	ids := make([]string, len(c.items))
	for i, item := range c.items {
		ids[i] = item.GetID()
	}
	return ids
}

// Retain keeps only the entities for which keep returns true, compacting
// the underlying slice. This invalidates every Handle taken before the
// call (spec.md 4.1 option (b)); callers that need a retained Model must
// decompose, Retain, and re-seal rather than keep using old handles.
func (c *IdentifiedCollection[T]) Retain(keep func(T) bool) {
	out := c.items[:0]
	newByID := make(map[string]int, len(c.byID))
	for _, item := range c.items {
		if keep(item) {
			newByID[item.GetID()] = len(out)
			out = append(out, item)
		}
	}
	c.items = out
	c.byID = newByID
}

// TryMerge appends every entry of other onto c, failing with the first
// DuplicateID encountered across the combined identifier space. Per
// spec.md 4.8, callers are expected to have prefixed inputs first so that
// identifiers are disjoint; a collision here is a hard merge error.
func (c *IdentifiedCollection[T]) TryMerge(other *IdentifiedCollection[T]) error {
	for _, item := range other.items {
		if _, err := c.Append(item); err != nil {
			return err
		}
	}
	return nil
}

// PlainCollection holds objects with no identifier of their own (Transfer,
// Frequency, ObjectCode, degenerate Geometry): append, iterate, retain.
type PlainCollection[T any] struct {
	items []T
}

// NewPlain returns an empty PlainCollection.
func NewPlain[T any]() *PlainCollection[T] {
	return &PlainCollection[T]{}
}

// Len returns the number of elements.
func (c *PlainCollection[T]) Len() int { return len(c.items) }

// Append inserts item at the end.
func (c *PlainCollection[T]) Append(item T) {
	c.items = append(c.items, item)
}

// All iterates (index, T) pairs in insertion order. The index is not a
// stable handle: plain collections carry no cross-collection references
// that a RelationIndex would need to track.
func (c *PlainCollection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range c.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Slice returns a copy of the underlying elements in insertion order.
func (c *PlainCollection[T]) Slice() []T {
	return append([]T(nil), c.items...)
}

// Retain keeps only elements for which keep returns true.
func (c *PlainCollection[T]) Retain(keep func(T) bool) {
	out := c.items[:0]
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	c.items = out
}
