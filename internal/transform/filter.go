package transform

import (
	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/model"
	"github.com/transitmodel/core/internal/modelerr"
	"github.com/transitmodel/core/internal/relindex"
)

// FilterMode selects whether FilterByNetwork keeps or discards the named
// networks (spec.md section 4.6).
type FilterMode int

const (
	// Extract keeps only the named networks and everything reachable
	// from them.
	Extract FilterMode = iota
	// Remove discards the named networks and keeps everything else.
	Remove
)

// FilterByNetwork retains or discards a set of Networks and everything
// transitively reachable from them, then sanitizes and re-seals the
// result. It fails with InvalidReference if a supplied id doesn't exist,
// and with EmptyResult if no Calendar survives the filter.
func FilterByNetwork(m *model.Model, networkIDs []string, mode FilterMode) (*model.Model, error) {
	b := m.Bag()
	requested := make(map[string]bool, len(networkIDs))
	for _, id := range networkIDs {
		if _, ok := b.Networks.ByID(id); !ok {
			return nil, &modelerr.InvalidReference{Kind: "filter-by-network", ID: "", Field: "network_id", TargetKind: "Network", TargetID: id}
		}
		requested[id] = true
	}

	allNetworkIDs := b.Networks.IDs()
	var keepNetworkIdx []int
	for i, id := range allNetworkIDs {
		in := requested[id]
		keep := in
		if mode == Remove {
			keep = !in
		}
		if keep {
			keepNetworkIdx = append(keepNetworkIdx, i)
		}
	}
	keepNetworks := relindex.NewIndexSet(keepNetworkIdx)

	keepLines, err := m.Corresponding(entity.KindNetwork, entity.KindLine, keepNetworks)
	if err != nil {
		return nil, err
	}
	keepRoutes, err := m.Corresponding(entity.KindLine, entity.KindRoute, keepLines)
	if err != nil {
		return nil, err
	}
	keepVJs, err := m.Corresponding(entity.KindRoute, entity.KindVehicleJourney, keepRoutes)
	if err != nil {
		return nil, err
	}
	keepCalendars, err := m.Corresponding(entity.KindVehicleJourney, entity.KindCalendar, keepVJs)
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

	networkSet := indexSetToIDSet(allNetworkIDs, keepNetworks)
	lineSet := indexSetToIDSet(b.Lines.IDs(), keepLines)
	routeSet := indexSetToIDSet(b.Routes.IDs(), keepRoutes)
	vjSet := indexSetToIDSet(b.VehicleJourneys.IDs(), keepVJs)
	calSet := indexSetToIDSet(b.Calendars.IDs(), keepCalendars)
	spSet := indexSetToIDSet(b.StopPoints.IDs(), keepStopPoints)
	saSet := indexSetToIDSet(b.StopAreas.IDs(), keepStopAreas)
	dsSet := indexSetToIDSet(b.Datasets.IDs(), keepDatasets)

	if len(calSet) == 0 {
		return nil, &modelerr.EmptyResult{Reason: "filter-by-network left no calendar"}
	}

	nb := m.Decompose()
	nb.Networks.Retain(func(n *entity.Network) bool { return networkSet[n.ID] })
	nb.Lines.Retain(func(l *entity.Line) bool { return lineSet[l.ID] })
	nb.Routes.Retain(func(r *entity.Route) bool { return routeSet[r.ID] })
	nb.VehicleJourneys.Retain(func(v *entity.VehicleJourney) bool { return vjSet[v.ID] })
	nb.Calendars.Retain(func(c *entity.Calendar) bool { return calSet[c.ID] })
	nb.StopPoints.Retain(func(s *entity.StopPoint) bool { return spSet[s.ID] })
	nb.StopAreas.Retain(func(s *entity.StopArea) bool { return saSet[s.ID] })
	nb.Datasets.Retain(func(d *entity.Dataset) bool { return dsSet[d.ID] })

	sanitize(nb)

	return model.Assemble(nb)
}

// indexSetToIDSet converts an IndexSet back into the membership set of
// string ids it denotes, against ids taken from the collection before any
// Retain ran (Retain would otherwise invalidate the index numbering).
func indexSetToIDSet(ids []string, set relindex.IndexSet) map[string]bool {
	out := make(map[string]bool, len(set))
	for _, idx := range set {
		out[ids[idx]] = true
	}
	return out
}

// sanitize drops entities that lost every parent after a shrinking
// transformation: orphan AdminStations (stop area gone), orphan Transfers
// (either endpoint gone), orphan ObjectCode/ObjectProperty rows, and
// Companies/PhysicalModes/CommercialModes no VehicleJourney or Line still
// references. Spec.md section 4.6 step 5 names this "sanitize... re-seal".
func sanitize(b *bag.Bag) {
	validStopPoint := make(map[string]bool, b.StopPoints.Len())
	for _, id := range b.StopPoints.IDs() {
		validStopPoint[id] = true
	}
	b.AdminStations.Retain(func(a *entity.AdminStation) bool {
		_, ok := b.StopAreas.ByID(a.StopAreaID)
		return ok
	})
	b.Transfers.Retain(func(t entity.Transfer) bool {
		return validStopPoint[t.FromStopID] && validStopPoint[t.ToStopID]
	})
	b.Frequencies.Retain(func(f entity.Frequency) bool {
		_, ok := b.VehicleJourneys.ByID(f.VehicleJourneyID)
		return ok
	})

	validObject := func(kind entity.Kind, id string) bool {
		switch kind {
		case entity.KindLine:
			_, ok := b.Lines.ByID(id)
			return ok
		case entity.KindRoute:
			_, ok := b.Routes.ByID(id)
			return ok
		case entity.KindVehicleJourney:
			_, ok := b.VehicleJourneys.ByID(id)
			return ok
		case entity.KindStopPoint:
			_, ok := b.StopPoints.ByID(id)
			return ok
		case entity.KindStopArea:
			_, ok := b.StopAreas.ByID(id)
			return ok
		case entity.KindNetwork:
			_, ok := b.Networks.ByID(id)
			return ok
		default:
			return true
		}
	}
	b.ObjectCodes.Retain(func(oc entity.ObjectCode) bool { return validObject(oc.ObjectKind, oc.ObjectID) })
	b.ObjectProperties.Retain(func(op entity.ObjectProperty) bool { return validObject(op.ObjectKind, op.ObjectID) })

	usedCommercialMode := make(map[string]bool)
	for _, id := range b.Lines.IDs() {
		l, _ := b.Lines.ByID(id)
		usedCommercialMode[l.CommercialModeID] = true
	}
	b.CommercialModes.Retain(func(c *entity.CommercialMode) bool { return usedCommercialMode[c.ID] })

	usedPhysicalMode := make(map[string]bool)
	usedCompany := make(map[string]bool)
	for _, id := range b.VehicleJourneys.IDs() {
		v, _ := b.VehicleJourneys.ByID(id)
		usedPhysicalMode[v.PhysicalModeID] = true
		usedCompany[v.CompanyID] = true
	}
	b.PhysicalModes.Retain(func(p *entity.PhysicalMode) bool { return usedPhysicalMode[p.ID] })
	b.Companies.Retain(func(c *entity.Company) bool { return usedCompany[c.ID] })

	usedContributor := make(map[string]bool)
	for _, id := range b.Datasets.IDs() {
		d, _ := b.Datasets.ByID(id)
		usedContributor[d.ContributorID] = true
	}
	b.Contributors.Retain(func(c *entity.Contributor) bool { return usedContributor[c.ID] })
}
