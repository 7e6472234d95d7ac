package transform

import (
	"time"

	"github.com/transitmodel/core/internal/bag"
	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/geo"
	"github.com/transitmodel/core/internal/model"
)

// TransferOptions parameterizes generate-transfers (spec.md section 4.10).
type TransferOptions struct {
	MaxDistanceMeters float64
	WalkingSpeedMPS   float64
	WaitingTime       time.Duration

	// Overrides lists rule-file rows that take precedence over any
	// computed Transfer for the same ordered (from, to) pair.
	Overrides []entity.Transfer
}

// pairKey addresses an ordered (from, to) StopPoint pair.
type pairKey struct{ from, to string }

// GenerateTransfers synthesizes a walking Transfer for every pair of
// StopPoints (including a stop paired with itself) within MaxDistanceMeters
// of each other, skipping pairs that already carry an explicit Transfer,
// then layers rule-file Overrides on top (those take precedence over both
// computed and pre-existing transfers for the same ordered pair).
func GenerateTransfers(m *model.Model, opts TransferOptions) (*model.Model, error) {
	b := m.Decompose()

	existing := make(map[pairKey]bool, b.Transfers.Len())
	for _, t := range b.Transfers.Slice() {
		existing[pairKey{t.FromStopID, t.ToStopID}] = true
	}

	type stop struct {
		id    string
		point geo.Point
	}
	stops := make([]stop, 0, b.StopPoints.Len())
	for _, id := range b.StopPoints.IDs() {
		sp, _ := b.StopPoints.ByID(id)
		stops = append(stops, stop{id: sp.ID, point: geo.Point{Lon: sp.Coord.Lon, Lat: sp.Coord.Lat}})
	}

	for _, from := range stops {
		for _, to := range stops {
			key := pairKey{from.id, to.id}
			if existing[key] {
				continue
			}
			d := geo.DistanceMeters(from.point, to.point)
			if d > opts.MaxDistanceMeters {
				continue
			}
			minT := time.Duration(d/opts.WalkingSpeedMPS) * time.Second
			realT := minT + opts.WaitingTime
			b.Transfers.Append(entity.Transfer{
				FromStopID:          from.id,
				ToStopID:            to.id,
				MinTransferTime:     &minT,
				RealMinTransferTime: &realT,
			})
			existing[key] = true
		}
	}

	applyOverrides(b, opts.Overrides)

	return model.Assemble(b)
}

// applyOverrides replaces any Transfer sharing an override's ordered
// (from, to) pair, then appends overrides for pairs not already present.
func applyOverrides(b *bag.Bag, overrides []entity.Transfer) {
	if len(overrides) == 0 {
		return
	}
	byKey := make(map[pairKey]entity.Transfer, len(overrides))
	for _, o := range overrides {
		byKey[pairKey{o.FromStopID, o.ToStopID}] = o
	}
	kept := make([]entity.Transfer, 0, b.Transfers.Len())
	for _, t := range b.Transfers.Slice() {
		key := pairKey{t.FromStopID, t.ToStopID}
		if _, overridden := byKey[key]; overridden {
			continue
		}
		kept = append(kept, t)
	}
	for _, o := range overrides {
		kept = append(kept, o)
	}
	b.Transfers.Retain(func(entity.Transfer) bool { return false })
	for _, t := range kept {
		b.Transfers.Append(t)
	}
}
