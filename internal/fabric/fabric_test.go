package fabric

import (
	"reflect"
	"testing"

	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/relindex"
)

// buildChain wires Network -> Line -> Route as two one-to-many relations
// (network 0 owns lines 0 and 1; line 0 owns routes 0 and 1, line 1 owns
// route 2), so Corresponding can be checked across a two-hop path that has
// no direct edge.
func buildChain(t *testing.T) *Fabric {
	t.Helper()
	networkLines := relindex.BuildOneToMany(1, 2, func(b int) (int, bool) { return 0, true })
	lineRoutes := relindex.BuildOneToMany(2, 3, func(b int) (int, bool) {
		switch b {
		case 0, 1:
			return 0, true
		default:
			return 1, true
		}
	})

	b := NewBuilder()
	b.AddEdge(entity.KindNetwork, entity.KindLine, networkLines)
	b.AddEdge(entity.KindLine, entity.KindRoute, lineRoutes)
	return b.Build()
}

func TestCorrespondingSameKindIsIdentity(t *testing.T) {
	f := buildChain(t)
	set := relindex.IndexSet{0}
	got, err := f.Corresponding(entity.KindLine, entity.KindLine, set)
	if err != nil {
		t.Fatalf("Corresponding: %v", err)
	}
	if !reflect.DeepEqual(got, set) {
		t.Fatalf("got %v, want %v", got, set)
	}
}

func TestCorrespondingDirectEdge(t *testing.T) {
	f := buildChain(t)
	got, err := f.Corresponding(entity.KindNetwork, entity.KindLine, relindex.IndexSet{0})
	if err != nil {
		t.Fatalf("Corresponding: %v", err)
	}
	if !reflect.DeepEqual(got, relindex.IndexSet{0, 1}) {
		t.Fatalf("got %v, want [0 1]", got)
	}
}

func TestCorrespondingMultiHopRoute(t *testing.T) {
	f := buildChain(t)
	// Network(0) -> Lines{0,1} -> Routes{0,1,2} even though no direct
	// Network-Route edge was registered.
	got, err := f.Corresponding(entity.KindNetwork, entity.KindRoute, relindex.IndexSet{0})
	if err != nil {
		t.Fatalf("Corresponding: %v", err)
	}
	if !reflect.DeepEqual(got, relindex.IndexSet{0, 1, 2}) {
		t.Fatalf("got %v, want [0 1 2]", got)
	}
}

func TestCorrespondingBackwardHop(t *testing.T) {
	f := buildChain(t)
	got, err := f.Corresponding(entity.KindRoute, entity.KindNetwork, relindex.IndexSet{2})
	if err != nil {
		t.Fatalf("Corresponding: %v", err)
	}
	if !reflect.DeepEqual(got, relindex.IndexSet{0}) {
		t.Fatalf("got %v, want [0]", got)
	}
}

func TestCorrespondingUnreachableKindsError(t *testing.T) {
	f := buildChain(t)
	if f.Reachable(entity.KindNetwork, entity.KindCalendar) {
		t.Fatal("Network and Calendar share no edge in this fabric and should be unreachable")
	}
	if _, err := f.Corresponding(entity.KindNetwork, entity.KindCalendar, relindex.IndexSet{0}); err == nil {
		t.Fatal("expected error for unreachable kinds")
	}
}
