package transform

import (
	"time"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/model"
	"github.com/transitmodel/core/internal/modelerr"
	"github.com/transitmodel/core/internal/relindex"
)

// RestrictValidityPeriod intersects every Calendar's active dates with
// [start, end], drops any Calendar left empty, cascades the drop to every
// VehicleJourney whose service was dropped and everything only reachable
// through those VehicleJourneys, clamps Dataset validity windows to the
// new range, and re-seals the result (spec.md section 4.7).
func RestrictValidityPeriod(m *model.Model, start, end time.Time) (*model.Model, error) {
	b := m.Bag()

	calIDs := b.Calendars.IDs()
	restricted := make(map[string]map[time.Time]struct{}, len(calIDs))
	var survivingCalIdx []int
	for i, id := range calIDs {
		cal, _ := b.Calendars.ByID(id)
		kept := make(map[time.Time]struct{})
		for d := range cal.Dates {
			if !d.Before(start) && !d.After(end) {
				kept[d] = struct{}{}
			}
		}
		restricted[id] = kept
		if len(kept) > 0 {
			survivingCalIdx = append(survivingCalIdx, i)
		}
	}
	if len(survivingCalIdx) == 0 {
		return nil, &modelerr.EmptyResult{Reason: "restrict-validity-period left no calendar"}
	}
	keepCalendars := relindex.NewIndexSet(survivingCalIdx)

	keepVJs, err := m.Corresponding(entity.KindCalendar, entity.KindVehicleJourney, keepCalendars)
	if err != nil {
		return nil, err
	}
	keepRoutes, err := m.Corresponding(entity.KindVehicleJourney, entity.KindRoute, keepVJs)
	if err != nil {
		return nil, err
	}
	keepLines, err := m.Corresponding(entity.KindRoute, entity.KindLine, keepRoutes)
	if err != nil {
		return nil, err
	}
	keepNetworks, err := m.Corresponding(entity.KindLine, entity.KindNetwork, keepLines)
	if err != nil {
		return nil, err
	}
	keepStopPoints, err := m.Corresponding(entity.KindVehicleJourney, entity.KindStopPoint, keepVJs)
	if err != nil {
		return nil, err
	}
	keepStopAreas, err := m.Corresponding(entity.KindStopPoint, entity.KindStopArea, keepStopPoints)
	if err != nil {
		return nil, err
	}
	keepDatasets, err := m.Corresponding(entity.KindVehicleJourney, entity.KindDataset, keepVJs)
	if err != nil {
		return nil, err
	}

	calSet := indexSetToIDSet(calIDs, keepCalendars)
	vjSet := indexSetToIDSet(b.VehicleJourneys.IDs(), keepVJs)
	routeSet := indexSetToIDSet(b.Routes.IDs(), keepRoutes)
	lineSet := indexSetToIDSet(b.Lines.IDs(), keepLines)
	networkSet := indexSetToIDSet(b.Networks.IDs(), keepNetworks)
	spSet := indexSetToIDSet(b.StopPoints.IDs(), keepStopPoints)
	saSet := indexSetToIDSet(b.StopAreas.IDs(), keepStopAreas)
	dsSet := indexSetToIDSet(b.Datasets.IDs(), keepDatasets)

	nb := m.Decompose()

	for h, cal := range nb.Calendars.All() {
		if kept, ok := restricted[cal.ID]; ok {
			nb.Calendars.Set(h, &entity.Calendar{ID: cal.ID, Dates: kept})
		}
	}
	nb.Calendars.Retain(func(c *entity.Calendar) bool { return calSet[c.ID] })
	nb.VehicleJourneys.Retain(func(v *entity.VehicleJourney) bool { return vjSet[v.ID] })
	nb.Routes.Retain(func(r *entity.Route) bool { return routeSet[r.ID] })
	nb.Lines.Retain(func(l *entity.Line) bool { return lineSet[l.ID] })
	nb.Networks.Retain(func(n *entity.Network) bool { return networkSet[n.ID] })
	nb.StopPoints.Retain(func(s *entity.StopPoint) bool { return spSet[s.ID] })
	nb.StopAreas.Retain(func(s *entity.StopArea) bool { return saSet[s.ID] })

	clampDatasets(nb, dsSet, start, end)
	sanitize(nb)

	return model.Assemble(nb)
}

// clampDatasets narrows every surviving Dataset's [StartDate, EndDate] to
// the intersection with [start, end] and drops the rest, satisfying I5
// once the surviving Calendars' dates have themselves been clipped to the
// same window.
func clampDatasets(b *bag.Bag, keep map[string]bool, start, end time.Time) {
	for h, ds := range b.Datasets.All() {
		if !keep[ds.ID] {
			continue
		}
		cp := *ds
		if cp.StartDate.Before(start) {
			cp.StartDate = start
		}
		if cp.EndDate.After(end) {
			cp.EndDate = end
		}
		b.Datasets.Set(h, &cp)
	}
	b.Datasets.Retain(func(d *entity.Dataset) bool { return keep[d.ID] })
}
