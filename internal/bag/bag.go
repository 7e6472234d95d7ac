// Package bag implements the Collections Bag: the mutable, unindexed form
// of the transit object graph used while a codec is populating entities or
// a transformation is rewriting them (spec.md section 2.5/4.4). A Bag owns
// its collections exclusively; Model assembly borrows them to build a
// Relation Fabric and returns a Model, and Model.Decompose hands ownership
// back for the next round of mutation.
package bag

import (
	"github.com/transitmodel/core/internal/collection"
	"github.com/transitmodel/core/internal/entity"
)

// StopTimeKey addresses a single StopTime within a VehicleJourney by the
// journey's collection slot and the stop's sequence number. Side tables
// keyed this way (headsign overrides, stop-time comments) must be rebuilt
// whenever the VehicleJourneys collection is retained or merged, since the
// slot numbers shift (spec.md section 4.8).
type StopTimeKey struct {
	VehicleJourneyIndex int
	Sequence            int
}

// Bag aggregates every domain collection plus the two side tables that
// don't fit the Identified/plain Collection shape (per-stop headsign
// overrides and per-stop comment attachments).
type Bag struct {
	Contributors    *collection.IdentifiedCollection[*entity.Contributor]
	Datasets        *collection.IdentifiedCollection[*entity.Dataset]
	Networks        *collection.IdentifiedCollection[*entity.Network]
	Companies       *collection.IdentifiedCollection[*entity.Company]
	CommercialModes *collection.IdentifiedCollection[*entity.CommercialMode]
	PhysicalModes   *collection.IdentifiedCollection[*entity.PhysicalMode]
	Lines           *collection.IdentifiedCollection[*entity.Line]
	Routes          *collection.IdentifiedCollection[*entity.Route]
	VehicleJourneys *collection.IdentifiedCollection[*entity.VehicleJourney]
	StopAreas       *collection.IdentifiedCollection[*entity.StopArea]
	StopPoints      *collection.IdentifiedCollection[*entity.StopPoint]
	Calendars       *collection.IdentifiedCollection[*entity.Calendar]
	Comments        *collection.IdentifiedCollection[*entity.Comment]
	Equipments      *collection.IdentifiedCollection[*entity.Equipment]
	TripProperties  *collection.IdentifiedCollection[*entity.TripProperty]
	Geometries      *collection.IdentifiedCollection[*entity.Geometry]
	AdminStations   *collection.IdentifiedCollection[*entity.AdminStation]
	Tickets         *collection.IdentifiedCollection[*entity.Ticket]
	TicketUses      *collection.IdentifiedCollection[*entity.TicketUse]
	Fares           *collection.IdentifiedCollection[*entity.Fare]

	DegenerateGeometries *collection.PlainCollection[entity.Geometry]
	Transfers            *collection.PlainCollection[entity.Transfer]
	Frequencies           *collection.PlainCollection[entity.Frequency]
	ObjectCodes           *collection.PlainCollection[entity.ObjectCode]
	ObjectProperties      *collection.PlainCollection[entity.ObjectProperty]

	// StopTimeHeadsigns overrides a VehicleJourney's headsign for one
	// stop. StopTimeComments attaches Comment ids to one stop. Both are
	// keyed by current VehicleJourneys slot, so transform.Merge and any
	// transformation that retains VehicleJourneys must rebuild them.
	StopTimeHeadsigns map[StopTimeKey]string
	StopTimeComments  map[StopTimeKey][]string
}

// New returns an empty Bag with every collection initialized and ready for
// a codec to append into.
func New() *Bag {
	return &Bag{
		Contributors:    collection.New[*entity.Contributor]("Contributor"),
		Datasets:        collection.New[*entity.Dataset]("Dataset"),
		Networks:        collection.New[*entity.Network]("Network"),
		Companies:       collection.New[*entity.Company]("Company"),
		CommercialModes: collection.New[*entity.CommercialMode]("CommercialMode"),
		PhysicalModes:   collection.New[*entity.PhysicalMode]("PhysicalMode"),
		Lines:           collection.New[*entity.Line]("Line"),
		Routes:          collection.New[*entity.Route]("Route"),
		VehicleJourneys: collection.New[*entity.VehicleJourney]("VehicleJourney"),
		StopAreas:       collection.New[*entity.StopArea]("StopArea"),
		StopPoints:      collection.New[*entity.StopPoint]("StopPoint"),
		Calendars:       collection.New[*entity.Calendar]("Calendar"),
		Comments:        collection.New[*entity.Comment]("Comment"),
		Equipments:      collection.New[*entity.Equipment]("Equipment"),
		TripProperties:  collection.New[*entity.TripProperty]("TripProperty"),
		Geometries:      collection.New[*entity.Geometry]("Geometry"),
		AdminStations:   collection.New[*entity.AdminStation]("AdminStation"),
		Tickets:         collection.New[*entity.Ticket]("Ticket"),
		TicketUses:      collection.New[*entity.TicketUse]("TicketUse"),
		Fares:           collection.New[*entity.Fare]("Fare"),

		DegenerateGeometries: collection.NewPlain[entity.Geometry](),
		Transfers:            collection.NewPlain[entity.Transfer](),
		Frequencies:          collection.NewPlain[entity.Frequency](),
		ObjectCodes:          collection.NewPlain[entity.ObjectCode](),
		ObjectProperties:     collection.NewPlain[entity.ObjectProperty](),

		StopTimeHeadsigns: make(map[StopTimeKey]string),
		StopTimeComments:  make(map[StopTimeKey][]string),
	}
}
