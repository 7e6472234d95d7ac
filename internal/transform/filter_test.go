package transform

import (
	"testing"
	"time"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/model"
	"github.com/transitmodel/core/internal/modelerr"
)

// buildNetworkFixture assembles a minimal but fully referentially-closed
// Model with the given networks, each owning the stated number of Lines.
// Every Line gets one Route, one VehicleJourney, one StopTime at a
// dedicated StopPoint/StopArea pair, and its own Calendar, so every
// invariant (I1-I7) holds and FilterByNetwork's cascade has something
// concrete to keep or drop at every kind.
func buildNetworkFixture(t *testing.T, networkLines map[string]int) *model.Model {
	t.Helper()
	b := bag.New()
	b.Contributors.Append(&entity.Contributor{ID: "c1"})
	b.Datasets.Append(&entity.Dataset{
		ID:            "d1",
		ContributorID: "c1",
		StartDate:     mustDate("2020-01-01"),
		EndDate:       mustDate("2020-12-31"),
	})
	b.CommercialModes.Append(&entity.CommercialMode{ID: "cm1"})
	b.PhysicalModes.Append(&entity.PhysicalMode{ID: "pm1"})
	b.Companies.Append(&entity.Company{ID: "co1"})

	for netID, n := range networkLines {
		b.Networks.Append(&entity.Network{ID: netID})
		for i := 0; i < n; i++ {
			suffix := netID + "_" + string(rune('a'+i))
			lineID, routeID, vjID := "L"+suffix, "R"+suffix, "VJ"+suffix
			calID, spID, saID := "Cal"+suffix, "SP"+suffix, "SA"+suffix

			b.Lines.Append(&entity.Line{ID: lineID, NetworkID: netID, CommercialModeID: "cm1"})
			b.Routes.Append(&entity.Route{ID: routeID, LineID: lineID})
			b.StopAreas.Append(&entity.StopArea{ID: saID})
			b.StopPoints.Append(&entity.StopPoint{ID: spID, StopAreaID: saID})
			b.Calendars.Append(&entity.Calendar{ID: calID, Dates: map[time.Time]struct{}{mustDate("2020-06-01"): {}}})
			b.VehicleJourneys.Append(&entity.VehicleJourney{
				ID: vjID, RouteID: routeID, PhysicalModeID: "pm1", DatasetID: "d1",
				CompanyID: "co1", ServiceID: calID,
				StopTimes: []entity.StopTime{{Sequence: 0, StopPointID: spID}},
			})
		}
	}

	m, err := model.Assemble(b)
	if err != nil {
		t.Fatalf("Assemble fixture: %v", err)
	}
	return m
}

// TestFilterByNetworkExtract reproduces spec.md section 8 scenario 1:
// extracting a single network out of three keeps exactly that network and
// its own Lines, dropping everything else.
func TestFilterByNetworkExtract(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 3, "N2": 2, "N3": 1})

	out, err := FilterByNetwork(m, []string{"N1"}, Extract)
	if err != nil {
		t.Fatalf("FilterByNetwork: %v", err)
	}
	b := out.Decompose()

	if got := b.Networks.IDs(); len(got) != 1 || got[0] != "N1" {
		t.Fatalf("Networks = %v, want [N1]", got)
	}
	if got := b.Lines.Len(); got != 3 {
		t.Fatalf("Lines.Len() = %d, want 3", got)
	}
	for _, id := range b.Lines.IDs() {
		l, _ := b.Lines.ByID(id)
		if l.NetworkID != "N1" {
			t.Fatalf("surviving line %s belongs to %s, want N1", id, l.NetworkID)
		}
	}
}

// TestFilterByNetworkRemoveAllIsEmptyResult reproduces spec.md section 8
// scenario 2: removing every network leaves no surviving Calendar, which
// must surface as EmptyResult.
func TestFilterByNetworkRemoveAllIsEmptyResult(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 3, "N2": 2, "N3": 1})

	_, err := FilterByNetwork(m, []string{"N1", "N2", "N3"}, Remove)
	if _, ok := err.(*modelerr.EmptyResult); !ok {
		t.Fatalf("expected *modelerr.EmptyResult, got %T (%v)", err, err)
	}
}

func TestFilterByNetworkUnknownID(t *testing.T) {
	m := buildNetworkFixture(t, map[string]int{"N1": 1})
	if _, err := FilterByNetwork(m, []string{"does-not-exist"}, Extract); err == nil {
		t.Fatal("expected InvalidReference error for unknown network id")
	}
}
