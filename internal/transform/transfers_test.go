package transform

import (
	"testing"
	"time"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/model"
)

func mustAssemble(t *testing.T, b *bag.Bag) *model.Model {
	t.Helper()
	m, err := model.Assemble(b)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return m
}

// TestGenerateTransfersWorkedExample reproduces spec.md section 8 scenario
// 3: three StopPoints at given coordinates, max_distance=100,
// walking_speed=0.785, waiting_time=120. Pairs (1,2) are within range,
// (1,3) and (2,3) are not.
func TestGenerateTransfersWorkedExample(t *testing.T) {
	b := bag.New()
	b.StopAreas.Append(&entity.StopArea{ID: "SA"})
	coords := []entity.Coord{
		{Lon: 2.372076, Lat: 48.846082},
		{Lon: 2.371438, Lat: 48.845666},
		{Lon: 2.369517, Lat: 48.845302},
	}
	for i, c := range coords {
		id := string(rune('1' + i))
		b.StopPoints.Append(&entity.StopPoint{ID: id, StopAreaID: "SA", Coord: c})
	}
	m := mustAssemble(t, b)

	out, err := GenerateTransfers(m, TransferOptions{
		MaxDistanceMeters: 100,
		WalkingSpeedMPS:   0.785,
		WaitingTime:       120 * time.Second,
	})
	if err != nil {
		t.Fatalf("GenerateTransfers: %v", err)
	}

	got := out.Decompose()
	byPair := make(map[pairKey]entity.Transfer)
	for _, tr := range got.Transfers.Slice() {
		byPair[pairKey{tr.FromStopID, tr.ToStopID}] = tr
	}

	for _, id := range []string{"1", "2", "3"} {
		tr, ok := byPair[pairKey{id, id}]
		if !ok {
			t.Fatalf("missing self-transfer for %s", id)
		}
		if *tr.MinTransferTime != 0 || *tr.RealMinTransferTime != 120*time.Second {
			t.Fatalf("self-transfer %s: got min=%v real=%v, want 0/120s", id, *tr.MinTransferTime, *tr.RealMinTransferTime)
		}
	}

	for _, pair := range []pairKey{{"1", "2"}, {"2", "1"}} {
		tr, ok := byPair[pair]
		if !ok {
			t.Fatalf("missing transfer for pair %v", pair)
		}
		if *tr.MinTransferTime < 60*time.Second || *tr.MinTransferTime > 105*time.Second {
			t.Fatalf("pair %v: min transfer time %v out of expected ~83s range", pair, *tr.MinTransferTime)
		}
	}

	for _, pair := range []pairKey{{"1", "3"}, {"3", "1"}, {"2", "3"}, {"3", "2"}} {
		if _, ok := byPair[pair]; ok {
			t.Fatalf("unexpected transfer for out-of-range pair %v", pair)
		}
	}
}

// TestGenerateTransfersOverrideTakesPrecedence checks that a rule-file
// Overrides entry wins over a computed geodesic transfer for the same
// ordered pair, per spec.md's resolved "rule overrides computed" policy.
func TestGenerateTransfersOverrideTakesPrecedence(t *testing.T) {
	b := bag.New()
	b.StopAreas.Append(&entity.StopArea{ID: "SA"})
	b.StopPoints.Append(&entity.StopPoint{ID: "a", StopAreaID: "SA", Coord: entity.Coord{Lon: 0, Lat: 0}})
	b.StopPoints.Append(&entity.StopPoint{ID: "b", StopAreaID: "SA", Coord: entity.Coord{Lon: 0.0001, Lat: 0}})
	m := mustAssemble(t, b)

	override := 999 * time.Second
	out, err := GenerateTransfers(m, TransferOptions{
		MaxDistanceMeters: 1000,
		WalkingSpeedMPS:   0.785,
		WaitingTime:       60 * time.Second,
		Overrides: []entity.Transfer{
			{FromStopID: "a", ToStopID: "b", MinTransferTime: &override, RealMinTransferTime: &override},
		},
	})
	if err != nil {
		t.Fatalf("GenerateTransfers: %v", err)
	}

	got := out.Decompose()
	for _, tr := range got.Transfers.Slice() {
		if tr.FromStopID == "a" && tr.ToStopID == "b" {
			if *tr.MinTransferTime != override {
				t.Fatalf("override was not applied: got %v, want %v", *tr.MinTransferTime, override)
			}
			return
		}
	}
	t.Fatal("override transfer (a, b) not found in output")
}
