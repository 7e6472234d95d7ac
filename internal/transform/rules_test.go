package transform

import (
	"testing"

	"github.com/transitmodel/core/internal/entity"
)

// TestApplyRulesComplementaryCodeIsIdempotent reproduces spec.md section 8
// scenario 5: running the same complementary-code rule twice leaves a
// single entry.
func TestApplyRulesComplementaryCodeIsIdempotent(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 1})
	rule := ComplementaryCodeRule{ObjectKind: entity.KindLine, ObjectID: "LN1_a", CodeSystem: "external", CodeValue: "X1"}

	out, _, err := ApplyRules(m, nil, []ComplementaryCodeRule{rule, rule}, nil)
	if err != nil {
		t.Fatalf("ApplyRules: %v", err)
	}
	b := out.Decompose()

	n := 0
	for _, oc := range b.ObjectCodes.Slice() {
		if oc.ObjectID == "LN1_a" && oc.CodeSystem == "external" && oc.CodeValue == "X1" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("got %d matching ObjectCode entries, want 1", n)
	}
}

// TestApplyRulesNetworkConsolidation reproduces spec.md section 8 scenario
// 6: consolidating networks A and B into N repoints their Lines'
// network_id to N and leaves an untouched network C alone.
func TestApplyRulesNetworkConsolidation(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"A": 1, "B": 1, "C": 1})
	rule := NetworkConsolidationRule{
		NewNetwork:  entity.Network{ID: "N"},
		GroupedFrom: []string{"A", "B"},
	}

	out, rep, err := ApplyRules(m, []NetworkConsolidationRule{rule}, nil, nil)
	if err != nil {
		t.Fatalf("ApplyRules: %v", err)
	}
	if rep.HasErrors() {
		t.Fatalf("unexpected report errors: %v", rep.Errors())
	}
	b := out.Decompose()

	gotNetworks := make(map[string]bool)
	for _, id := range b.Networks.IDs() {
		gotNetworks[id] = true
	}
	if gotNetworks["A"] || gotNetworks["B"] {
		t.Fatalf("A and B should have been consolidated away, got %v", b.Networks.IDs())
	}
	if !gotNetworks["N"] || !gotNetworks["C"] {
		t.Fatalf("expected N and C to survive, got %v", b.Networks.IDs())
	}

	la, _ := b.Lines.ByID("LA_a")
	lb, _ := b.Lines.ByID("LB_a")
	lc, _ := b.Lines.ByID("LC_a")
	if la.NetworkID != "N" || lb.NetworkID != "N" {
		t.Fatalf("consolidated lines should point at N, got %s=%s %s=%s", la.ID, la.NetworkID, lb.ID, lb.NetworkID)
	}
	if lc.NetworkID != "C" {
		t.Fatalf("line %s should remain on C, got %s", lc.ID, lc.NetworkID)
	}
}

func TestApplyRulesConsolidationDuplicateIDIsFatal(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 1})
	rule := NetworkConsolidationRule{NewNetwork: entity.Network{ID: "N1"}, GroupedFrom: []string{"N1"}}

	if _, _, err := ApplyRules(m, []NetworkConsolidationRule{rule}, nil, nil); err == nil {
		t.Fatal("expected DuplicateID error when new_network collides with an existing network")
	}
}
