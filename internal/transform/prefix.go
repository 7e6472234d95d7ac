// Package transform implements the transformation algebra of spec.md
// section 4: pure functions from one Bag/Model to another. Every
// transformation that shrinks a collection (filter, restrict, rules'
// consolidation, expand-frequencies) operates on a decomposed Bag and
// returns a freshly assembled Model, per spec.md section 4.1's requirement
// that shrinking invalidate handles and force a Model rebuild.
package transform

import (
	"strings"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
)

// PrefixOptions controls add_prefix (spec.md section 4.5).
type PrefixOptions struct {
	Prefix    string
	Separator string // usually ":"

	// SubPrefix, if non-empty, is applied (with the same Separator)
	// instead of Prefix to schedule-bearing entities only: Calendar and
	// VehicleJourney ids and the references to them. The Comment ids in
	// StopTime side tables take Prefix, like the Comments they name.
	// Leave empty to use Prefix everywhere.
	SubPrefix string
}

func (o PrefixOptions) apply(id string) string {
	p := o.Prefix
	if p == "" && o.Separator == "" {
		return id
	}
	return p + o.Separator + id
}

func (o PrefixOptions) applySchedule(id string) string {
	p := o.Prefix
	if o.SubPrefix != "" {
		p = o.SubPrefix
	}
	if p == "" && o.Separator == "" {
		return id
	}
	return p + o.Separator + id
}

// AddPrefix rewrites every entity identifier and every foreign key in b by
// prepending "<prefix><sep>" (or "<subprefix><sep>" for schedule-bearing
// entities). It is a homomorphism: applied to a referentially-closed Bag
// it produces a referentially-closed Bag, because every collection is
// rewritten in one pass before any foreign key lookup depends on the
// rewritten ids (P3, P4).
func AddPrefix(b *bag.Bag, opts PrefixOptions) *bag.Bag {
	out := bag.New()

	for _, id := range b.Contributors.IDs() {
		c, _ := b.Contributors.ByID(id)
		cp := *c
		cp.ID = opts.apply(c.ID)
		out.Contributors.Append(&cp)
	}
	for _, id := range b.Datasets.IDs() {
		d, _ := b.Datasets.ByID(id)
		dp := *d
		dp.ID = opts.apply(d.ID)
		dp.ContributorID = opts.apply(d.ContributorID)
		out.Datasets.Append(&dp)
	}
	for _, id := range b.Networks.IDs() {
		n, _ := b.Networks.ByID(id)
		np := *n
		np.ID = opts.apply(n.ID)
		out.Networks.Append(&np)
	}
	for _, id := range b.Companies.IDs() {
		c, _ := b.Companies.ByID(id)
		cp := *c
		cp.ID = opts.apply(c.ID)
		out.Companies.Append(&cp)
	}
	for _, id := range b.CommercialModes.IDs() {
		c, _ := b.CommercialModes.ByID(id)
		cp := *c
		cp.ID = opts.apply(c.ID)
		out.CommercialModes.Append(&cp)
	}
	for _, id := range b.PhysicalModes.IDs() {
		p, _ := b.PhysicalModes.ByID(id)
		pp := *p
		pp.ID = opts.apply(p.ID)
		out.PhysicalModes.Append(&pp)
	}
	for _, id := range b.Lines.IDs() {
		l, _ := b.Lines.ByID(id)
		lp := *l
		lp.ID = opts.apply(l.ID)
		lp.NetworkID = opts.apply(l.NetworkID)
		lp.CommercialModeID = opts.apply(l.CommercialModeID)
		out.Lines.Append(&lp)
	}
	for _, id := range b.Routes.IDs() {
		r, _ := b.Routes.ByID(id)
		rp := *r
		rp.ID = opts.apply(r.ID)
		rp.LineID = opts.apply(r.LineID)
		if r.GeometryID != nil {
			g := opts.apply(*r.GeometryID)
			rp.GeometryID = &g
		}
		out.Routes.Append(&rp)
	}
	for _, id := range b.Calendars.IDs() {
		c, _ := b.Calendars.ByID(id)
		cp := *c
		cp.ID = opts.applySchedule(c.ID)
		out.Calendars.Append(&cp)
	}
	for _, id := range b.TripProperties.IDs() {
		t, _ := b.TripProperties.ByID(id)
		tp := *t
		tp.ID = opts.apply(t.ID)
		out.TripProperties.Append(&tp)
	}
	for _, id := range b.Equipments.IDs() {
		e, _ := b.Equipments.ByID(id)
		ep := *e
		ep.ID = opts.apply(e.ID)
		out.Equipments.Append(&ep)
	}
	for _, id := range b.Geometries.IDs() {
		g, _ := b.Geometries.ByID(id)
		gp := *g
		gp.ID = opts.apply(g.ID)
		out.Geometries.Append(&gp)
	}
	for _, id := range b.StopAreas.IDs() {
		s, _ := b.StopAreas.ByID(id)
		sp := *s
		sp.ID = opts.apply(s.ID)
		out.StopAreas.Append(&sp)
	}
	for _, id := range b.StopPoints.IDs() {
		s, _ := b.StopPoints.ByID(id)
		sp := *s
		sp.ID = opts.apply(s.ID)
		sp.StopAreaID = opts.apply(s.StopAreaID)
		if s.EquipmentID != nil {
			e := opts.apply(*s.EquipmentID)
			sp.EquipmentID = &e
		}
		out.StopPoints.Append(&sp)
	}
	for _, id := range b.AdminStations.IDs() {
		a, _ := b.AdminStations.ByID(id)
		ap := *a
		ap.ID = opts.apply(a.ID)
		ap.StopAreaID = opts.apply(a.StopAreaID)
		out.AdminStations.Append(&ap)
	}
	for _, id := range b.Tickets.IDs() {
		t, _ := b.Tickets.ByID(id)
		tp := *t
		tp.ID = opts.apply(t.ID)
		out.Tickets.Append(&tp)
	}
	for _, id := range b.TicketUses.IDs() {
		t, _ := b.TicketUses.ByID(id)
		tp := *t
		tp.ID = opts.apply(t.ID)
		tp.TicketID = opts.apply(t.TicketID)
		nets := make([]string, len(t.NetworkIDs))
		for i, n := range t.NetworkIDs {
			nets[i] = opts.apply(n)
		}
		tp.NetworkIDs = nets
		out.TicketUses.Append(&tp)
	}
	for _, id := range b.Fares.IDs() {
		f, _ := b.Fares.ByID(id)
		fp := *f
		fp.ID = opts.apply(f.ID)
		fp.TicketUseID = opts.apply(f.TicketUseID)
		out.Fares.Append(&fp)
	}
	for _, id := range b.VehicleJourneys.IDs() {
		v, _ := b.VehicleJourneys.ByID(id)
		vp := *v
		vp.ID = opts.applySchedule(v.ID)
		vp.RouteID = opts.apply(v.RouteID)
		vp.PhysicalModeID = opts.apply(v.PhysicalModeID)
		vp.DatasetID = opts.apply(v.DatasetID)
		vp.CompanyID = opts.apply(v.CompanyID)
		vp.ServiceID = opts.applySchedule(v.ServiceID)
		if v.TripPropertyID != nil {
			t := opts.apply(*v.TripPropertyID)
			vp.TripPropertyID = &t
		}
		sts := make([]entity.StopTime, len(v.StopTimes))
		for i, st := range v.StopTimes {
			st.StopPointID = opts.apply(st.StopPointID)
			sts[i] = st
		}
		vp.StopTimes = sts
		out.VehicleJourneys.Append(&vp)
	}
	for _, id := range b.Comments.IDs() {
		c, _ := b.Comments.ByID(id)
		cp := *c
		cp.ID = opts.apply(c.ID)
		out.Comments.Append(&cp)
	}

	for _, t := range b.Transfers.Slice() {
		t.FromStopID = opts.apply(t.FromStopID)
		t.ToStopID = opts.apply(t.ToStopID)
		out.Transfers.Append(t)
	}
	for _, f := range b.Frequencies.Slice() {
		f.VehicleJourneyID = opts.applySchedule(f.VehicleJourneyID)
		out.Frequencies.Append(f)
	}
	for _, g := range b.DegenerateGeometries.Slice() {
		g.ID = opts.apply(g.ID)
		out.DegenerateGeometries.Append(g)
	}
	for _, oc := range b.ObjectCodes.Slice() {
		oc.ObjectID = opts.apply(oc.ObjectID)
		out.ObjectCodes.Append(oc)
	}
	for _, op := range b.ObjectProperties.Slice() {
		op.ObjectID = opts.apply(op.ObjectID)
		out.ObjectProperties.Append(op)
	}

	for k, v := range b.StopTimeHeadsigns {
		out.StopTimeHeadsigns[k] = v
	}
	for k, v := range b.StopTimeComments {
		comments := make([]string, len(v))
		for i, c := range v {
			comments[i] = opts.apply(c)
		}
		out.StopTimeComments[k] = comments
	}

	return out
}

// NormalizePrefix trims a trailing separator from a user-supplied
// prefix value so callers can pass "osm:" or "osm" interchangeably.
func NormalizePrefix(prefix, sep string) string {
	return strings.TrimSuffix(prefix, sep)
}
