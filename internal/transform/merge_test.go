package transform

import (
	"testing"

	"github.com/transitmodel/core/internal/model"
	"github.com/transitmodel/core/internal/modelerr"
)

func TestMergeDisjointModels(t *testing.T) {
	a := buildNetworkFixture(t, map[string]int{"N1": 1})
	b := buildNetworkFixture(t, map[string]int{"N2": 1})

	bb := AddPrefix(b.Decompose(), PrefixOptions{Prefix: "feed2", Separator: ":"})
	b2, err := model.Assemble(bb)
	if err != nil {
		t.Fatalf("Assemble prefixed b: %v", err)
	}

	out, err := Merge(a, b2)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	got := out.Decompose()
	if got.Networks.Len() != 2 {
		t.Fatalf("Networks.Len() = %d, want 2", got.Networks.Len())
	}
	if _, ok := got.Networks.ByID("N1"); !ok {
		t.Fatal("N1 missing from merged model")
	}
	if _, ok := got.Networks.ByID("feed2:N2"); !ok {
		t.Fatal("feed2:N2 missing from merged model")
	}
}

func TestMergeColliderIDsIsFatal(t *testing.T) {
	a := buildNetworkFixture(t, map[string]int{"N1": 1})
	b := buildNetworkFixture(t, map[string]int{"N1": 1})

	_, err := Merge(a, b)
	if _, ok := err.(*modelerr.DuplicateID); !ok {
		t.Fatalf("expected *modelerr.DuplicateID for colliding ids, got %T (%v)", err, err)
	}
}
