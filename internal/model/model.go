// Package model assembles a Collections Bag into a Model: the invariant
// checks of spec.md section 3 (I1-I7), the Relation Fabric construction of
// section 4.3, and the typed correspondence queries exposed across the
// Model/Bag boundary (section 6). A Model owns its collections
// exclusively; there is no mutation through it (I3) — transformations call
// Decompose to get the Bag back, mutate it, and re-seal with Assemble.
package model

import (
	"fmt"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/collection"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/fabric"
	"github.com/transitmodel/core/internal/modelerr"
	"github.com/transitmodel/core/internal/relindex"
)

// Model is the aggregate of every domain collection plus the composed
// Relation Fabric. Construct with Assemble; read it with the Kind-indexed
// accessors and Corresponding; mutate it by calling Decompose.
type Model struct {
	bag       *bag.Bag
	fabric    *fabric.Fabric
	decomposed bool
}

// Assemble checks I1-I7 against bag and, if they all hold, builds the
// Relation Fabric and returns a sealed Model. Assembly is atomic: on any
// failure the Bag is returned to the caller completely unchanged (spec.md
// section 4.4) and the error identifies the violated invariant together
// with the offending kind and id.
func Assemble(b *bag.Bag) (*Model, error) {
	if err := checkUniqueIDs(b); err != nil {
		return nil, err
	}
	if err := checkReferentialClosure(b); err != nil {
		return nil, err
	}
	fb, err := buildFabric(b)
	if err != nil {
		return nil, err
	}
	if err := checkCalendarNonEmptiness(b); err != nil {
		return nil, err
	}
	if err := checkDatasetValidityWindows(b, fb); err != nil {
		return nil, err
	}
	if err := checkStopTimeOrdering(b); err != nil {
		return nil, err
	}
	if err := checkStopPointParenthood(b); err != nil {
		return nil, err
	}
	return &Model{bag: b, fabric: fb}, nil
}

// Decompose consumes the Model and returns its Bag for mutation. Calling
// any method on the Model after Decompose panics: the Model's interface
// promises no mutation-while-sealed (I3), and decomposition is the single
// point where that promise ends.
func (m *Model) Decompose() *bag.Bag {
	m.mustBeLive()
	m.decomposed = true
	return m.bag
}

func (m *Model) mustBeLive() {
	if m.decomposed {
		panic("model: use of a Model after Decompose")
	}
}

// Bag returns a read-only view of the underlying collections without
// transferring ownership. Callers that only need to read (e.g. a codec
// serializing output) should prefer this to Decompose.
func (m *Model) Bag() *bag.Bag {
	m.mustBeLive()
	return m.bag
}

// Corresponding resolves a correspondence query across the Relation
// Fabric: given entities of kind `from` identified by `set`, returns the
// entities of kind `to` that correspond to them transitively.
func (m *Model) Corresponding(from, to entity.Kind, set relindex.IndexSet) (relindex.IndexSet, error) {
	m.mustBeLive()
	return m.fabric.Corresponding(from, to, set)
}

// AllIndices returns the full index set for kind k, i.e. "every entity of
// this kind", the usual starting point for a correspondence query.
func (m *Model) AllIndices(k entity.Kind) relindex.IndexSet {
	m.mustBeLive()
	n := kindLen(m.bag, k)
	out := make(relindex.IndexSet, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func kindLen(b *bag.Bag, k entity.Kind) int {
	switch k {
	case entity.KindContributor:
		return b.Contributors.Len()
	case entity.KindDataset:
		return b.Datasets.Len()
	case entity.KindNetwork:
		return b.Networks.Len()
	case entity.KindCompany:
		return b.Companies.Len()
	case entity.KindCommercialMode:
		return b.CommercialModes.Len()
	case entity.KindPhysicalMode:
		return b.PhysicalModes.Len()
	case entity.KindLine:
		return b.Lines.Len()
	case entity.KindRoute:
		return b.Routes.Len()
	case entity.KindVehicleJourney:
		return b.VehicleJourneys.Len()
	case entity.KindStopArea:
		return b.StopAreas.Len()
	case entity.KindStopPoint:
		return b.StopPoints.Len()
	case entity.KindCalendar:
		return b.Calendars.Len()
	case entity.KindComment:
		return b.Comments.Len()
	case entity.KindEquipment:
		return b.Equipments.Len()
	case entity.KindTripProperty:
		return b.TripProperties.Len()
	case entity.KindGeometry:
		return b.Geometries.Len()
	case entity.KindAdminStation:
		return b.AdminStations.Len()
	case entity.KindTicket:
		return b.Tickets.Len()
	case entity.KindTicketUse:
		return b.TicketUses.Len()
	case entity.KindFare:
		return b.Fares.Len()
	default:
		return 0
	}
}

// --- I1: unique identity -----------------------------------------------

func checkUniqueIDs(b *bag.Bag) error {
	// Append already enforces uniqueness per collection at insert time;
	// this pass exists to catch collections populated by direct field
	// assignment (e.g. after a Retain that a codec built by hand) rather
	// than via Append, so I1 is re-verified unconditionally at assembly.
	type checker struct {
		kind string
		ids  []string
	}
	collections := []checker{
		{"Contributor", b.Contributors.IDs()},
		{"Dataset", b.Datasets.IDs()},
		{"Network", b.Networks.IDs()},
		{"Company", b.Companies.IDs()},
		{"CommercialMode", b.CommercialModes.IDs()},
		{"PhysicalMode", b.PhysicalModes.IDs()},
		{"Line", b.Lines.IDs()},
		{"Route", b.Routes.IDs()},
		{"VehicleJourney", b.VehicleJourneys.IDs()},
		{"StopArea", b.StopAreas.IDs()},
		{"StopPoint", b.StopPoints.IDs()},
		{"Calendar", b.Calendars.IDs()},
		{"Comment", b.Comments.IDs()},
		{"Equipment", b.Equipments.IDs()},
		{"TripProperty", b.TripProperties.IDs()},
		{"Geometry", b.Geometries.IDs()},
		{"AdminStation", b.AdminStations.IDs()},
		{"Ticket", b.Tickets.IDs()},
		{"TicketUse", b.TicketUses.IDs()},
		{"Fare", b.Fares.IDs()},
	}
	for _, c := range collections {
		seen := make(map[string]bool, len(c.ids))
		for _, id := range c.ids {
			if seen[id] {
				return &modelerr.DuplicateID{Kind: c.kind, ID: id}
			}
			seen[id] = true
		}
	}
	return nil
}

// --- I2: referential closure ---------------------------------------------

func checkReferentialClosure(b *bag.Bag) error {
	for _, l := range b.Lines.IDs() {
		line, _ := b.Lines.ByID(l)
		if _, ok := b.Networks.ByID(line.NetworkID); !ok {
			return &modelerr.InvalidReference{Kind: "Line", ID: line.ID, Field: "network_id", TargetKind: "Network", TargetID: line.NetworkID}
		}
		if _, ok := b.CommercialModes.ByID(line.CommercialModeID); !ok {
			return &modelerr.InvalidReference{Kind: "Line", ID: line.ID, Field: "commercial_mode_id", TargetKind: "CommercialMode", TargetID: line.CommercialModeID}
		}
	}
	for _, rID := range b.Routes.IDs() {
		route, _ := b.Routes.ByID(rID)
		if _, ok := b.Lines.ByID(route.LineID); !ok {
			return &modelerr.InvalidReference{Kind: "Route", ID: route.ID, Field: "line_id", TargetKind: "Line", TargetID: route.LineID}
		}
		if route.GeometryID != nil {
			if _, ok := b.Geometries.ByID(*route.GeometryID); !ok {
				return &modelerr.InvalidReference{Kind: "Route", ID: route.ID, Field: "geometry_id", TargetKind: "Geometry", TargetID: *route.GeometryID}
			}
		}
	}
	for _, vID := range b.VehicleJourneys.IDs() {
		vj, _ := b.VehicleJourneys.ByID(vID)
		if _, ok := b.Routes.ByID(vj.RouteID); !ok {
			return &modelerr.InvalidReference{Kind: "VehicleJourney", ID: vj.ID, Field: "route_id", TargetKind: "Route", TargetID: vj.RouteID}
		}
		if _, ok := b.PhysicalModes.ByID(vj.PhysicalModeID); !ok {
			return &modelerr.InvalidReference{Kind: "VehicleJourney", ID: vj.ID, Field: "physical_mode_id", TargetKind: "PhysicalMode", TargetID: vj.PhysicalModeID}
		}
		if _, ok := b.Datasets.ByID(vj.DatasetID); !ok {
			return &modelerr.InvalidReference{Kind: "VehicleJourney", ID: vj.ID, Field: "dataset_id", TargetKind: "Dataset", TargetID: vj.DatasetID}
		}
		if _, ok := b.Companies.ByID(vj.CompanyID); !ok {
			return &modelerr.InvalidReference{Kind: "VehicleJourney", ID: vj.ID, Field: "company_id", TargetKind: "Company", TargetID: vj.CompanyID}
		}
		if _, ok := b.Calendars.ByID(vj.ServiceID); !ok {
			return &modelerr.InvalidReference{Kind: "VehicleJourney", ID: vj.ID, Field: "service_id", TargetKind: "Calendar", TargetID: vj.ServiceID}
		}
		if vj.TripPropertyID != nil {
			if _, ok := b.TripProperties.ByID(*vj.TripPropertyID); !ok {
				return &modelerr.InvalidReference{Kind: "VehicleJourney", ID: vj.ID, Field: "trip_property_id", TargetKind: "TripProperty", TargetID: *vj.TripPropertyID}
			}
		}
		for _, st := range vj.StopTimes {
			if _, ok := b.StopPoints.ByID(st.StopPointID); !ok {
				return &modelerr.InvalidReference{Kind: "VehicleJourney", ID: vj.ID, Field: "stop_time.stop_point_id", TargetKind: "StopPoint", TargetID: st.StopPointID}
			}
		}
	}
	for _, spID := range b.StopPoints.IDs() {
		sp, _ := b.StopPoints.ByID(spID)
		if _, ok := b.StopAreas.ByID(sp.StopAreaID); !ok {
			return &modelerr.InvalidReference{Kind: "StopPoint", ID: sp.ID, Field: "stop_area_id", TargetKind: "StopArea", TargetID: sp.StopAreaID}
		}
		if sp.EquipmentID != nil {
			if _, ok := b.Equipments.ByID(*sp.EquipmentID); !ok {
				return &modelerr.InvalidReference{Kind: "StopPoint", ID: sp.ID, Field: "equipment_id", TargetKind: "Equipment", TargetID: *sp.EquipmentID}
			}
		}
	}
	for _, dID := range b.Datasets.IDs() {
		ds, _ := b.Datasets.ByID(dID)
		if _, ok := b.Contributors.ByID(ds.ContributorID); !ok {
			return &modelerr.InvalidReference{Kind: "Dataset", ID: ds.ID, Field: "contributor_id", TargetKind: "Contributor", TargetID: ds.ContributorID}
		}
	}
	for _, aID := range b.AdminStations.IDs() {
		as, _ := b.AdminStations.ByID(aID)
		if _, ok := b.StopAreas.ByID(as.StopAreaID); !ok {
			return &modelerr.InvalidReference{Kind: "AdminStation", ID: as.ID, Field: "stop_area_id", TargetKind: "StopArea", TargetID: as.StopAreaID}
		}
	}
	for _, tuID := range b.TicketUses.IDs() {
		tu, _ := b.TicketUses.ByID(tuID)
		if _, ok := b.Tickets.ByID(tu.TicketID); !ok {
			return &modelerr.InvalidReference{Kind: "TicketUse", ID: tu.ID, Field: "ticket_id", TargetKind: "Ticket", TargetID: tu.TicketID}
		}
		for _, nID := range tu.NetworkIDs {
			if _, ok := b.Networks.ByID(nID); !ok {
				return &modelerr.InvalidReference{Kind: "TicketUse", ID: tu.ID, Field: "network_ids", TargetKind: "Network", TargetID: nID}
			}
		}
	}
	for _, fID := range b.Fares.IDs() {
		f, _ := b.Fares.ByID(fID)
		if _, ok := b.TicketUses.ByID(f.TicketUseID); !ok {
			return &modelerr.InvalidReference{Kind: "Fare", ID: f.ID, Field: "ticket_use_id", TargetKind: "TicketUse", TargetID: f.TicketUseID}
		}
	}
	for _, t := range b.Transfers.Slice() {
		if _, ok := b.StopPoints.ByID(t.FromStopID); !ok {
			return &modelerr.InvalidReference{Kind: "Transfer", ID: "", Field: "from_stop_id", TargetKind: "StopPoint", TargetID: t.FromStopID}
		}
		if _, ok := b.StopPoints.ByID(t.ToStopID); !ok {
			return &modelerr.InvalidReference{Kind: "Transfer", ID: "", Field: "to_stop_id", TargetKind: "StopPoint", TargetID: t.ToStopID}
		}
	}
	for _, fr := range b.Frequencies.Slice() {
		if _, ok := b.VehicleJourneys.ByID(fr.VehicleJourneyID); !ok {
			return &modelerr.InvalidReference{Kind: "Frequency", ID: "", Field: "vehicle_journey_id", TargetKind: "VehicleJourney", TargetID: fr.VehicleJourneyID}
		}
	}
	return nil
}

// --- Fabric construction --------------------------------------------------

func buildFabric(b *bag.Bag) (*fabric.Fabric, error) {
	fb := fabric.NewBuilder()

	// Each collection is snapshotted into a plain by-offset slice in a
	// single pass over All() up front, so every parentOf/link closure below
	// is an O(1) slice index instead of re-walking IDs()+ByID() per call
	// (spec.md section 4.2: a Relation Index is built in a single pass).
	datasets := snapshot(b.Datasets)
	lines := snapshot(b.Lines)
	routes := snapshot(b.Routes)
	vjs := snapshot(b.VehicleJourneys)
	sps := snapshot(b.StopPoints)
	ases := snapshot(b.AdminStations)
	tus := snapshot(b.TicketUses)
	fares := snapshot(b.Fares)

	fb.AddEdge(entity.KindContributor, entity.KindDataset, relindex.BuildOneToMany(
		b.Contributors.Len(), b.Datasets.Len(),
		func(dIdx int) (int, bool) {
			h, ok := b.Contributors.HandleOf(datasets[dIdx].ContributorID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindNetwork, entity.KindLine, relindex.BuildOneToMany(
		b.Networks.Len(), b.Lines.Len(),
		func(lIdx int) (int, bool) {
			h, ok := b.Networks.HandleOf(lines[lIdx].NetworkID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindCommercialMode, entity.KindLine, relindex.BuildOneToMany(
		b.CommercialModes.Len(), b.Lines.Len(),
		func(lIdx int) (int, bool) {
			h, ok := b.CommercialModes.HandleOf(lines[lIdx].CommercialModeID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindLine, entity.KindRoute, relindex.BuildOneToMany(
		b.Lines.Len(), b.Routes.Len(),
		func(rIdx int) (int, bool) {
			h, ok := b.Lines.HandleOf(routes[rIdx].LineID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindRoute, entity.KindVehicleJourney, relindex.BuildOneToMany(
		b.Routes.Len(), b.VehicleJourneys.Len(),
		func(vIdx int) (int, bool) {
			h, ok := b.Routes.HandleOf(vjs[vIdx].RouteID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindPhysicalMode, entity.KindVehicleJourney, relindex.BuildOneToMany(
		b.PhysicalModes.Len(), b.VehicleJourneys.Len(),
		func(vIdx int) (int, bool) {
			h, ok := b.PhysicalModes.HandleOf(vjs[vIdx].PhysicalModeID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindDataset, entity.KindVehicleJourney, relindex.BuildOneToMany(
		b.Datasets.Len(), b.VehicleJourneys.Len(),
		func(vIdx int) (int, bool) {
			h, ok := b.Datasets.HandleOf(vjs[vIdx].DatasetID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindCompany, entity.KindVehicleJourney, relindex.BuildOneToMany(
		b.Companies.Len(), b.VehicleJourneys.Len(),
		func(vIdx int) (int, bool) {
			h, ok := b.Companies.HandleOf(vjs[vIdx].CompanyID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindCalendar, entity.KindVehicleJourney, relindex.BuildOneToMany(
		b.Calendars.Len(), b.VehicleJourneys.Len(),
		func(vIdx int) (int, bool) {
			h, ok := b.Calendars.HandleOf(vjs[vIdx].ServiceID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindTripProperty, entity.KindVehicleJourney, relindex.BuildOneToMany(
		b.TripProperties.Len(), b.VehicleJourneys.Len(),
		func(vIdx int) (int, bool) {
			tp := vjs[vIdx].TripPropertyID
			if tp == nil {
				return 0, false
			}
			h, ok := b.TripProperties.HandleOf(*tp)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindStopArea, entity.KindStopPoint, relindex.BuildOneToMany(
		b.StopAreas.Len(), b.StopPoints.Len(),
		func(sIdx int) (int, bool) {
			h, ok := b.StopAreas.HandleOf(sps[sIdx].StopAreaID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindEquipment, entity.KindStopPoint, relindex.BuildOneToMany(
		b.Equipments.Len(), b.StopPoints.Len(),
		func(sIdx int) (int, bool) {
			eq := sps[sIdx].EquipmentID
			if eq == nil {
				return 0, false
			}
			h, ok := b.Equipments.HandleOf(*eq)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindStopArea, entity.KindAdminStation, relindex.BuildOneToMany(
		b.StopAreas.Len(), b.AdminStations.Len(),
		func(aIdx int) (int, bool) {
			h, ok := b.StopAreas.HandleOf(ases[aIdx].StopAreaID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindGeometry, entity.KindRoute, relindex.BuildOneToMany(
		b.Geometries.Len(), b.Routes.Len(),
		func(rIdx int) (int, bool) {
			g := routes[rIdx].GeometryID
			if g == nil {
				return 0, false
			}
			h, ok := b.Geometries.HandleOf(*g)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindTicket, entity.KindTicketUse, relindex.BuildOneToMany(
		b.Tickets.Len(), b.TicketUses.Len(),
		func(tuIdx int) (int, bool) {
			h, ok := b.Tickets.HandleOf(tus[tuIdx].TicketID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindTicketUse, entity.KindFare, relindex.BuildOneToMany(
		b.TicketUses.Len(), b.Fares.Len(),
		func(fIdx int) (int, bool) {
			h, ok := b.TicketUses.HandleOf(fares[fIdx].TicketUseID)
			return h.Index(), ok
		}))

	fb.AddEdge(entity.KindNetwork, entity.KindTicketUse, relindex.BuildManyToMany(
		b.Networks.Len(), b.TicketUses.Len(),
		func(emit func(a, bIdx int)) {
			for tuIdx, tu := range tus {
				for _, nID := range tu.NetworkIDs {
					if h, ok := b.Networks.HandleOf(nID); ok {
						emit(h.Index(), tuIdx)
					}
				}
			}
		}))

	// VehicleJourney <-> StopPoint is many-to-many, derived from every
	// StopTime across every VehicleJourney rather than a single parent
	// pointer field (spec.md section 3's "VehicleJourney<->StopTime-
	// >StopPoint" dominant edge).
	fb.AddEdge(entity.KindVehicleJourney, entity.KindStopPoint, relindex.BuildManyToMany(
		b.VehicleJourneys.Len(), b.StopPoints.Len(),
		func(emit func(a, bIdx int)) {
			for vIdx, vj := range vjs {
				for _, st := range vj.StopTimes {
					if h, ok := b.StopPoints.HandleOf(st.StopPointID); ok {
						emit(vIdx, h.Index())
					}
				}
			}
		}))

	return fb.Build(), nil
}

// snapshot copies an IdentifiedCollection into a plain by-offset slice in
// one pass over All(), so relation-index construction below can index into
// it directly instead of paying IDs()+ByID() per lookup.
func snapshot[T collection.HasID](c *collection.IdentifiedCollection[T]) []T {
	out := make([]T, c.Len())
	for h, item := range c.All() {
		out[h.Index()] = item
	}
	return out
}

// --- I4: calendar non-emptiness ------------------------------------------

func checkCalendarNonEmptiness(b *bag.Bag) error {
	for _, cID := range b.Calendars.IDs() {
		cal, _ := b.Calendars.ByID(cID)
		if len(cal.Dates) == 0 {
			return &modelerr.InvariantViolation{Invariant: "I4", Kind: "Calendar", ID: cal.ID, Detail: "no active dates"}
		}
	}
	return nil
}

// --- I5: validity window ---------------------------------------------------

func checkDatasetValidityWindows(b *bag.Bag, fb *fabric.Fabric) error {
	for _, dID := range b.Datasets.IDs() {
		ds, _ := b.Datasets.ByID(dID)
		dIdx, _ := b.Datasets.HandleOf(dID)
		vjs, err := fb.Corresponding(entity.KindDataset, entity.KindVehicleJourney, relindex.IndexSet{dIdx.Index()})
		if err != nil {
			return err
		}
		cals, err := fb.Corresponding(entity.KindVehicleJourney, entity.KindCalendar, vjs)
		if err != nil {
			return err
		}
		calIDs := b.Calendars.IDs()
		for _, cIdx := range cals {
			cal, _ := b.Calendars.ByID(calIDs[cIdx])
			for d := range cal.Dates {
				if d.Before(ds.StartDate) || d.After(ds.EndDate) {
					return &modelerr.InvariantViolation{
						Invariant: "I5", Kind: "Dataset", ID: ds.ID,
						Detail: fmt.Sprintf("calendar %q has active date %s outside [%s, %s]", cal.ID, d.Format("2006-01-02"), ds.StartDate.Format("2006-01-02"), ds.EndDate.Format("2006-01-02")),
					}
				}
			}
		}
	}
	return nil
}

// --- I6: stop-time ordering ------------------------------------------------

func checkStopTimeOrdering(b *bag.Bag) error {
	for _, vID := range b.VehicleJourneys.IDs() {
		vj, _ := b.VehicleJourneys.ByID(vID)
		for i, st := range vj.StopTimes {
			if st.Arrival > st.Departure {
				return &modelerr.InvariantViolation{Invariant: "I6", Kind: "VehicleJourney", ID: vj.ID, Detail: fmt.Sprintf("stop sequence %d: arrival after departure", st.Sequence)}
			}
			if i > 0 {
				prev := vj.StopTimes[i-1]
				if st.Sequence <= prev.Sequence {
					return &modelerr.InvariantViolation{Invariant: "I6", Kind: "VehicleJourney", ID: vj.ID, Detail: fmt.Sprintf("stop sequence %d does not strictly increase after %d", st.Sequence, prev.Sequence)}
				}
				if st.Arrival < prev.Departure {
					return &modelerr.InvariantViolation{Invariant: "I6", Kind: "VehicleJourney", ID: vj.ID, Detail: fmt.Sprintf("stop sequence %d arrives before previous stop departs", st.Sequence)}
				}
			}
		}
	}
	return nil
}

// --- I7: stop-point parenthood ---------------------------------------------

func checkStopPointParenthood(b *bag.Bag) error {
	for _, spID := range b.StopPoints.IDs() {
		sp, _ := b.StopPoints.ByID(spID)
		if sp.StopAreaID == "" {
			return &modelerr.InvariantViolation{Invariant: "I7", Kind: "StopPoint", ID: sp.ID, Detail: "no owning stop area (codec must synthesize one at read time)"}
		}
	}
	return nil
}
