package transform

import (
	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/collection"
	"github.com/transitmodel/core/internal/model"
)

// Merge combines two Models into one. It assumes the caller has already
// made identifiers disjoint (typically via AddPrefix on one side): every
// IdentifiedCollection is merged with mergeIdentified, which fails fast
// with DuplicateID on the first collision rather than silently dropping or
// renaming anything (spec.md section 4.8).
//
// StopTimeHeadsigns and StopTimeComments are keyed by the VehicleJourneys
// collection's slot index, so b's VehicleJourney-indexed entries are
// rekeyed by the number of journeys a contributes before the two maps are
// combined.
func Merge(a, b *model.Model) (*model.Model, error) {
	ba := a.Decompose()
	bb := b.Decompose()

	out := bag.New()

	if err := mergeIdentified(out.Contributors, ba.Contributors, bb.Contributors); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Datasets, ba.Datasets, bb.Datasets); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Networks, ba.Networks, bb.Networks); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Companies, ba.Companies, bb.Companies); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.CommercialModes, ba.CommercialModes, bb.CommercialModes); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.PhysicalModes, ba.PhysicalModes, bb.PhysicalModes); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Lines, ba.Lines, bb.Lines); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Routes, ba.Routes, bb.Routes); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.StopAreas, ba.StopAreas, bb.StopAreas); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.StopPoints, ba.StopPoints, bb.StopPoints); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Calendars, ba.Calendars, bb.Calendars); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Comments, ba.Comments, bb.Comments); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Equipments, ba.Equipments, bb.Equipments); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.TripProperties, ba.TripProperties, bb.TripProperties); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Geometries, ba.Geometries, bb.Geometries); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.AdminStations, ba.AdminStations, bb.AdminStations); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Tickets, ba.Tickets, bb.Tickets); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.TicketUses, ba.TicketUses, bb.TicketUses); err != nil {
		return nil, err
	}
	if err := mergeIdentified(out.Fares, ba.Fares, bb.Fares); err != nil {
		return nil, err
	}

	offset := ba.VehicleJourneys.Len()
	if err := mergeIdentified(out.VehicleJourneys, ba.VehicleJourneys, bb.VehicleJourneys); err != nil {
		return nil, err
	}

	for _, g := range ba.DegenerateGeometries.Slice() {
		out.DegenerateGeometries.Append(g)
	}
	for _, g := range bb.DegenerateGeometries.Slice() {
		out.DegenerateGeometries.Append(g)
	}
	for _, t := range ba.Transfers.Slice() {
		out.Transfers.Append(t)
	}
	for _, t := range bb.Transfers.Slice() {
		out.Transfers.Append(t)
	}
	for _, f := range ba.Frequencies.Slice() {
		out.Frequencies.Append(f)
	}
	for _, f := range bb.Frequencies.Slice() {
		out.Frequencies.Append(f)
	}
	for _, oc := range ba.ObjectCodes.Slice() {
		out.ObjectCodes.Append(oc)
	}
	for _, oc := range bb.ObjectCodes.Slice() {
		out.ObjectCodes.Append(oc)
	}
	for _, op := range ba.ObjectProperties.Slice() {
		out.ObjectProperties.Append(op)
	}
	for _, op := range bb.ObjectProperties.Slice() {
		out.ObjectProperties.Append(op)
	}

	for k, v := range ba.StopTimeHeadsigns {
		out.StopTimeHeadsigns[k] = v
	}
	for k, v := range bb.StopTimeHeadsigns {
		out.StopTimeHeadsigns[bag.StopTimeKey{VehicleJourneyIndex: k.VehicleJourneyIndex + offset, Sequence: k.Sequence}] = v
	}
	for k, v := range ba.StopTimeComments {
		out.StopTimeComments[k] = v
	}
	for k, v := range bb.StopTimeComments {
		out.StopTimeComments[bag.StopTimeKey{VehicleJourneyIndex: k.VehicleJourneyIndex + offset, Sequence: k.Sequence}] = v
	}

	return model.Assemble(out)
}

// mergeIdentified appends every entry of a then b onto out, in insertion order,
// failing with the first DuplicateID a collision produces. One generic
// helper serves every entity kind in the Bag.
func mergeIdentified[T collection.HasID](out *collection.IdentifiedCollection[T], a, b *collection.IdentifiedCollection[T]) error {
	for _, id := range a.IDs() {
		v, _ := a.ByID(id)
		if _, err := out.Append(v); err != nil {
			return err
		}
	}
	for _, id := range b.IDs() {
		v, _ := b.ByID(id)
		if _, err := out.Append(v); err != nil {
			return err
		}
	}
	return nil
}
