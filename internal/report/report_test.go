package report

import (
	"encoding/json"
	"testing"
)

func TestAddErrorIsIdempotent(t *testing.T) {
	r := New()
	r.AddError("network-consolidation", "network N1 not found")
	r.AddError("network-consolidation", "network N1 not found")
	r.AddError("network-consolidation", "network N2 not found")

	if got := len(r.Errors()); got != 2 {
		t.Fatalf("got %d errors, want 2 (duplicate insert should be a no-op)", got)
	}
}

func TestAddWarningPreservesInsertionOrder(t *testing.T) {
	r := New()
	r.AddWarning("a", "first")
	r.AddWarning("b", "second")
	r.AddWarning("a", "third")

	got := r.Warnings()
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].Message != w {
			t.Fatalf("Warnings()[%d].Message = %q, want %q", i, got[i].Message, w)
		}
	}
}

func TestHasErrors(t *testing.T) {
	r := New()
	if r.HasErrors() {
		t.Fatal("fresh Report should not have errors")
	}
	r.AddError("x", "y")
	if !r.HasErrors() {
		t.Fatal("Report with one error should report HasErrors")
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	a := New()
	a.AddError("x", "boom")
	b := New()
	b.AddError("x", "boom")
	b.AddWarning("y", "heads up")

	a.Merge(b)
	if got := len(a.Errors()); got != 1 {
		t.Fatalf("got %d errors after merge, want 1 (shared entry should dedup)", got)
	}
	if got := len(a.Warnings()); got != 1 {
		t.Fatalf("got %d warnings after merge, want 1", got)
	}
}

func TestMarshalJSONShapeNeverNull(t *testing.T) {
	r := New()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var shape struct {
		Errors   []Entry `json:"errors"`
		Warnings []Entry `json:"warnings"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if shape.Errors == nil || shape.Warnings == nil {
		t.Fatal("an empty Report must marshal errors/warnings as [] not null")
	}
}
