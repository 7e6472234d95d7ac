package collection

import "testing"

type widget struct {
	id   string
	name string
}

func (w widget) GetID() string { return w.id }

func TestAppendAndByID(t *testing.T) {
	c := New[widget]("Widget")
	if _, err := c.Append(widget{id: "a", name: "Alpha"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := c.ByID("a")
	if !ok || got.name != "Alpha" {
		t.Fatalf("ByID(%q) = %+v, %v", "a", got, ok)
	}
}

func TestAppendDuplicateID(t *testing.T) {
	c := New[widget]("Widget")
	if _, err := c.Append(widget{id: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Append(widget{id: "a"}); err == nil {
		t.Fatal("expected a DuplicateID error, got nil")
	}
}

// P1: iterating yields each id exactly once, in insertion order.
func TestAllInsertionOrder(t *testing.T) {
	c := New[widget]("Widget")
	ids := []string{"c", "a", "b"}
	for _, id := range ids {
		if _, err := c.Append(widget{id: id}); err != nil {
			t.Fatalf("append %q: %v", id, err)
		}
	}
	var seen []string
	for _, w := range c.All() {
		seen = append(seen, w.id)
	}
	if len(seen) != len(ids) {
		t.Fatalf("got %d items, want %d", len(seen), len(ids))
	}
	for i, id := range ids {
		if seen[i] != id {
			t.Fatalf("position %d: got %q, want %q", i, seen[i], id)
		}
	}
}

func TestRetainCompactsAndRebuildsIndex(t *testing.T) {
	c := New[widget]("Widget")
	for _, id := range []string{"a", "b", "c"} {
		if _, err := c.Append(widget{id: id}); err != nil {
			t.Fatalf("append %q: %v", id, err)
		}
	}
	c.Retain(func(w widget) bool { return w.id != "b" })
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.ByID("b"); ok {
		t.Fatal("b should have been dropped")
	}
	if _, ok := c.ByID("c"); !ok {
		t.Fatal("c should survive Retain")
	}
}

func TestSetRewritesID(t *testing.T) {
	c := New[widget]("Widget")
	h, err := c.Append(widget{id: "a", name: "Alpha"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	c.Set(h, widget{id: "a2", name: "Alpha"})
	if _, ok := c.ByID("a"); ok {
		t.Fatal("old id should no longer resolve")
	}
	got, ok := c.ByID("a2")
	if !ok || got.name != "Alpha" {
		t.Fatalf("ByID(%q) = %+v, %v", "a2", got, ok)
	}
}

func TestTryMergeDuplicate(t *testing.T) {
	a := New[widget]("Widget")
	b := New[widget]("Widget")
	if _, err := a.Append(widget{id: "x"}); err != nil {
		t.Fatalf("append to a: %v", err)
	}
	if _, err := b.Append(widget{id: "x"}); err != nil {
		t.Fatalf("append to b: %v", err)
	}
	if err := a.TryMerge(b); err == nil {
		t.Fatal("expected DuplicateID error merging overlapping ids")
	}
}

func TestPlainCollectionRetain(t *testing.T) {
	p := NewPlain[int]()
	p.Append(1)
	p.Append(2)
	p.Append(3)
	p.Retain(func(v int) bool { return v != 2 })
	got := p.Slice()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("Slice() = %v, want [1 3]", got)
	}
}
