// Package entity defines the ~25 domain entity kinds of the transit object
// graph (spec.md section 3). Each identified kind implements
// collection.HasID so it can live in an IdentifiedCollection; foreign keys
// are plain string ids during the Bag phase and are resolved into
// RelationIndex entries once at Model assembly (spec.md section 9: "Model
// assembly turns ids into indices once; subsequent traversal is
// pointer-chasing through arrays").
package entity

import "time"

// Kind is a closed tagged variant over the entity kinds the Relation
// Fabric knows how to route between. Modeling "object kind" as an enum
// rather than a free string (spec.md's Design Notes flags the source's
// string-tag dispatch as something to replace) gives every switch over Kind
// a closed set of cases; exhaustiveness is checked by code review, not by
// the compiler or `go vet`.
type Kind int

const (
	KindContributor Kind = iota
	KindDataset
	KindNetwork
	KindCompany
	KindCommercialMode
	KindPhysicalMode
	KindLine
	KindRoute
	KindVehicleJourney
	KindStopArea
	KindStopPoint
	KindCalendar
	KindComment
	KindEquipment
	KindTripProperty
	KindGeometry
	KindAdminStation
	KindObjectCode
	KindObjectProperty
	KindTicket
	KindTicketUse
	KindFare
	kindCount
)

// String renders the kind the way log lines and error messages want it.
func (k Kind) String() string {
	names := [kindCount]string{
		"Contributor", "Dataset", "Network", "Company", "CommercialMode",
		"PhysicalMode", "Line", "Route", "VehicleJourney", "StopArea",
		"StopPoint", "Calendar", "Comment", "Equipment", "TripProperty",
		"Geometry", "AdminStation", "ObjectCode", "ObjectProperty",
		"Ticket", "TicketUse", "Fare",
	}
	if k < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// AllKinds lists every entity kind in a fixed, deterministic order used by
// Fabric construction and by diagnostics that enumerate "every collection".
func AllKinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Coord is a WGS84 latitude/longitude pair.
type Coord struct {
	Lon float64
	Lat float64
}

// Contributor describes who produced a Dataset.
type Contributor struct {
	ID      string
	Name    string
	License string
	Website string
}

func (c *Contributor) GetID() string { return c.ID }

// Dataset is a contributor's single publication of a schedule, valid over
// a date range that must cover every Calendar reachable from it (I5).
type Dataset struct {
	ID            string
	StartDate     time.Time
	EndDate       time.Time
	ContributorID string
}

func (d *Dataset) GetID() string { return d.ID }

// Network groups Lines under a single operator-facing brand.
type Network struct {
	ID       string
	Name     string
	Timezone string
}

func (n *Network) GetID() string { return n.ID }

// Company operates VehicleJourneys.
type Company struct {
	ID      string
	Name    string
	Contact string
}

func (c *Company) GetID() string { return c.ID }

// CommercialMode is the rider-facing mode label of a Line (e.g. "Tram").
type CommercialMode struct {
	ID   string
	Name string
}

func (c *CommercialMode) GetID() string { return c.ID }

// PhysicalMode is the vehicle-facing mode label of a VehicleJourney (e.g.
// "Bus"), optionally carrying a CO2 emission factor (grams per km).
type PhysicalMode struct {
	ID          string
	Name        string
	CO2Emission *float64
}

func (p *PhysicalMode) GetID() string { return p.ID }

// Line belongs to a Network and a CommercialMode.
type Line struct {
	ID               string
	Name             string
	Code             *string
	ForwardName      *string
	BackwardName     *string
	NetworkID        string
	CommercialModeID string
}

func (l *Line) GetID() string { return l.ID }

// DirectionType enumerates the handful of values NTFS/NeTEx profiles use
// to describe a Route's travel direction.
type DirectionType string

const (
	DirectionForward  DirectionType = "forward"
	DirectionBackward DirectionType = "backward"
	DirectionInbound  DirectionType = "inbound"
	DirectionOutbound DirectionType = "outbound"
)

// Route belongs to a Line.
type Route struct {
	ID         string
	Name       string
	Direction  *DirectionType
	LineID     string
	GeometryID *string
}

func (r *Route) GetID() string { return r.ID }

// PickupDropoff enumerates the NTFS pickup/dropoff policy codes.
type PickupDropoff int

const (
	PickupDropoffRegular PickupDropoff = iota
	PickupDropoffNone
	PickupDropoffPhoneAgency
	PickupDropoffCoordinateWithDriver
)

// StopTime is embedded in a VehicleJourney rather than owned by its own
// IdentifiedCollection: it has no identifier of its own and is only ever
// addressed as (VehicleJourney id, Sequence).
type StopTime struct {
	Sequence          int
	Arrival           time.Duration // offset from service midnight
	Departure         time.Duration
	StopPointID       string
	Pickup            PickupDropoff
	Dropoff           PickupDropoff
	BoardingDuration  time.Duration
	AlightingDuration time.Duration
}

// VehicleJourney is a single scheduled trip: an ordered list of StopTimes
// running a Route on the dates of a Calendar.
type VehicleJourney struct {
	ID             string
	Headsign       *string
	ShortName      *string
	RouteID        string
	PhysicalModeID string
	DatasetID      string
	CompanyID      string
	ServiceID      string // Calendar id
	TripPropertyID *string
	StopTimes      []StopTime
}

func (v *VehicleJourney) GetID() string { return v.ID }

// StopArea is the parent of one or more StopPoints (I7: synthesized at
// read time for any StopPoint that arrives without one).
type StopArea struct {
	ID       string
	Name     string
	Coord    Coord
	Timezone *string
}

func (s *StopArea) GetID() string { return s.ID }

// StopPoint is a single boarding location, always parented to a StopArea.
type StopPoint struct {
	ID          string
	Name        string
	Coord       Coord
	FareZone    *string
	StopAreaID  string
	EquipmentID *string
}

func (s *StopPoint) GetID() string { return s.ID }

// Calendar is a named set of active service dates (I4: must be
// non-empty while referenced by any VehicleJourney).
type Calendar struct {
	ID    string
	Dates map[time.Time]struct{}
}

func (c *Calendar) GetID() string { return c.ID }

// SortedDates returns the calendar's active dates in ascending order.
func (c *Calendar) SortedDates() []time.Time {
	out := make([]time.Time, 0, len(c.Dates))
	for d := range c.Dates {
		out = append(out, d)
	}
	sortTimes(out)
	return out
}

func sortTimes(ts []time.Time) {
	for i := 1; i < len(ts); i++ {
		for j := i; j > 0 && ts[j].Before(ts[j-1]); j-- {
			ts[j], ts[j-1] = ts[j-1], ts[j]
		}
	}
}

// Transfer is a pedestrian connection between two StopPoints. It has no
// identifier of its own and lives in a PlainCollection keyed implicitly by
// (FromStopID, ToStopID).
type Transfer struct {
	FromStopID          string
	ToStopID            string
	MinTransferTime     *time.Duration
	RealMinTransferTime *time.Duration
}

// Frequency describes a headway-based service window for a VehicleJourney
// (spec.md section 3; expanded into explicit StopTimes by
// transform.ExpandFrequencies per SPEC_FULL.md section 4).
type Frequency struct {
	VehicleJourneyID string
	StartTime        time.Duration
	EndTime          time.Duration
	HeadwaySecs      int
	ExactTimes       bool
}

// Comment is free text. The only attachment table in the Bag is
// bag.Bag.StopTimeComments, which links Comment ids to single stops.
type Comment struct {
	ID   string
	Text string
}

func (c *Comment) GetID() string { return c.ID }

// Equipment describes rider-facing accessibility features attachable to a
// StopPoint (wheelchair boarding, visual/audio announcements, ...).
type Equipment struct {
	ID               string
	WheelchairAccess Availability
	VisualAnnounce   Availability
	AudioAnnounce    Availability
}

func (e *Equipment) GetID() string { return e.ID }

// Availability is a tri-state yes/no/unknown flag used throughout NTFS.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityAvailable
	AvailabilityUnavailable
)

// TripProperty augments a VehicleJourney with wheelchair/bike accessibility
// and on-demand-transport metadata.
type TripProperty struct {
	ID                       string
	WheelchairAccessible     Availability
	BikeAccepted             Availability
	OnDemandTransport        bool
	OnDemandTransportComment *string
}

func (t *TripProperty) GetID() string { return t.ID }

// Geometry is a polyline or polygon shape. It is a first-class identified
// entity when referenced directly by a Route; "degenerate"
// geometries (referenced only through an ObjectCode-style indirection
// table, per SPEC_FULL.md section 4) are stored in a PlainCollection
// instead and carry no ID of their own.
type Geometry struct {
	ID  string
	WKT string
}

func (g *Geometry) GetID() string { return g.ID }

// AdminStation links a StopArea to an administrative area code (INSEE,
// ISO-3166-2, ...).
type AdminStation struct {
	ID         string
	StopAreaID string
	AdminCode  string
}

func (a *AdminStation) GetID() string { return a.ID }

// ObjectCode is a (object_kind, object_id, code_system, code_value) tuple
// recording an external identifier for any entity kind. It has no id of
// its own; set semantics on (CodeSystem, CodeValue) within one
// (ObjectKind, ObjectID) are enforced by transform.ApplyRules when it
// applies complementary-code rules.
type ObjectCode struct {
	ObjectKind Kind
	ObjectID   string
	CodeSystem string
	CodeValue  string
}

// ObjectProperty is a (object_kind, object_id, property_name, value)
// tuple, the general-purpose sibling of ObjectCode for free-form metadata.
type ObjectProperty struct {
	ObjectKind    Kind
	ObjectID      string
	PropertyName  string
	PropertyValue string
}

// Ticket is a fare product.
type Ticket struct {
	ID   string
	Name string
}

func (t *Ticket) GetID() string { return t.ID }

// TicketUse scopes a Ticket to a perimeter of Networks/Lines/modes it is
// valid on; network-consolidation repoints the perimeter's network
// references (spec.md section 4.9(d)).
type TicketUse struct {
	ID         string
	TicketID   string
	NetworkIDs []string
}

func (t *TicketUse) GetID() string { return t.ID }

// Fare is a priced transition between two TicketUse perimeters.
type Fare struct {
	ID          string
	TicketUseID string
	Price       float64
	Currency    string
}

func (f *Fare) GetID() string { return f.ID }
