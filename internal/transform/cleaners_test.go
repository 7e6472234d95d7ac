package transform

import (
	"testing"
	"time"

	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/model"
)

func TestAdjustLinesNamesFillsFromSmallestForwardRoute(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 1})
	b := m.Decompose()

	l, _ := b.Lines.ByID("LN1_a")
	cp := *l
	cp.Name = ""
	h, _ := b.Lines.HandleOf("LN1_a")
	b.Lines.Set(h, &cp)

	fwd := entity.DirectionForward
	b.Routes.Append(&entity.Route{ID: "RN1_b", LineID: "LN1_a", Name: "Downtown", Direction: &fwd})
	b.Routes.Append(&entity.Route{ID: "RN1_z", LineID: "LN1_a", Name: "Uptown", Direction: &fwd})

	m2, err := model.Assemble(b)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	out, err := AdjustLinesNames(m2)
	if err != nil {
		t.Fatalf("AdjustLinesNames: %v", err)
	}
	nb := out.Decompose()
	got, _ := nb.Lines.ByID("LN1_a")
	if got.Name != "Downtown" {
		t.Fatalf("Line name = %q, want %q (from lexicographically smallest forward route id)", got.Name, "Downtown")
	}
}

func TestFillCO2AppliesDefaultsAndInjectsModes(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 1})
	b := m.Decompose()
	// "Bus" is one of the fixed NTFS physical-mode codes FillCO2 carries a
	// default for; it isn't referenced by any VehicleJourney here, which
	// is fine since FillCO2 walks every PhysicalMode in the Bag.
	b.PhysicalModes.Append(&entity.PhysicalMode{ID: "Bus"})
	m2, err := model.Assemble(b)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	out, err := FillCO2(m2)
	if err != nil {
		t.Fatalf("FillCO2: %v", err)
	}
	nb := out.Decompose()
	pm, ok := nb.PhysicalModes.ByID("Bus")
	if !ok || pm.CO2Emission == nil {
		t.Fatal("Bus should have a CO2 default filled in")
	}

	for _, id := range []string{"Bike", "BikeSharing", "Car"} {
		if _, ok := nb.PhysicalModes.ByID(id); !ok {
			t.Fatalf("expected injected physical mode %q", id)
		}
	}
}

func TestExpandFrequenciesMaterializesRuns(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 1})
	b := m.Decompose()

	vj, _ := b.VehicleJourneys.ByID("VJN1_a")
	h, _ := b.VehicleJourneys.HandleOf("VJN1_a")
	cp := *vj
	cp.StopTimes = []entity.StopTime{{Sequence: 0, StopPointID: "SPN1_a", Departure: 0}}
	b.VehicleJourneys.Set(h, &cp)

	b.Frequencies.Append(entity.Frequency{
		VehicleJourneyID: "VJN1_a",
		StartTime:        0,
		EndTime:          20 * time.Minute,
		HeadwaySecs:      600,
	})

	m2, err := model.Assemble(b)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	out, err := ExpandFrequencies(m2)
	if err != nil {
		t.Fatalf("ExpandFrequencies: %v", err)
	}
	nb := out.Decompose()
	if _, ok := nb.VehicleJourneys.ByID("VJN1_a"); ok {
		t.Fatal("template journey should have been removed")
	}
	if nb.Frequencies.Len() != 0 {
		t.Fatal("Frequencies should be empty after expansion")
	}
	var expanded int
	for _, id := range nb.VehicleJourneys.IDs() {
		if len(id) > len("VJN1_a:freq0:") && id[:len("VJN1_a:freq0:")] == "VJN1_a:freq0:" {
			expanded++
		}
	}
	if expanded != 2 {
		t.Fatalf("got %d expanded journeys, want 2 (departures at 0 and 600s within [0,1200s))", expanded)
	}
}
