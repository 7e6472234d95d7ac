package transform

import (
	"fmt"
	"sort"
	"time"

	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/model"
)

// AdjustLinesNames fills in every blank Line.Name with the name of the
// lexicographically smallest (by id) forward Route belonging to that
// Line, if one exists (spec.md section 4.11(a)).
func AdjustLinesNames(m *model.Model) (*model.Model, error) {
	b := m.Decompose()

	type best struct{ id, name string }
	bestForward := make(map[string]best)
	for _, id := range b.Routes.IDs() {
		r, _ := b.Routes.ByID(id)
		if r.Direction == nil || *r.Direction != entity.DirectionForward {
			continue
		}
		cur, ok := bestForward[r.LineID]
		if !ok || r.ID < cur.id {
			bestForward[r.LineID] = best{id: r.ID, name: r.Name}
		}
	}

	for h, l := range b.Lines.All() {
		if l.Name != "" {
			continue
		}
		if bst, ok := bestForward[l.ID]; ok {
			cp := *l
			cp.Name = bst.name
			b.Lines.Set(h, &cp)
		}
	}

	return model.Assemble(b)
}

// defaultCO2GramsPerKm is the fixed table of CO2 emission defaults keyed
// by physical-mode id, used by FillCO2 (spec.md section 4.11(b)). Values
// are representative grams-CO2-per-passenger-km figures for the fixed set
// of NTFS physical mode codes.
var defaultCO2GramsPerKm = map[string]float64{
	"Tramway":           4.4,
	"Metro":             3.9,
	"RapidTransit":      6.2,
	"Train":             5.6,
	"LongDistanceTrain":  5.6,
	"LocalTrain":        30.1,
	"RailShuttle":       5.6,
	"Bus":               103.0,
	"Coach":             28.8,
	"Shuttle":           103.0,
	"Ferry":             280.0,
	"Funicular":         3.0,
	"SuspendedCableCar":  3.0,
	"Taxi":              184.0,
	"Bike":              0.0,
	"BikeSharing":       0.0,
	"Car":               184.0,
}

// injectedPhysicalModes are added to the Bag when absent, per spec.md
// section 4.11(b)'s "also inject default Bike, BikeSharing, Car modes".
var injectedPhysicalModes = []string{"Bike", "BikeSharing", "Car"}

// FillCO2 substitutes the fixed default for every PhysicalMode missing a
// CO2 emission value and injects the Bike/BikeSharing/Car modes if the
// dataset doesn't already define them (spec.md section 4.11(b)).
func FillCO2(m *model.Model) (*model.Model, error) {
	b := m.Decompose()

	for h, p := range b.PhysicalModes.All() {
		if p.CO2Emission != nil {
			continue
		}
		if v, ok := defaultCO2GramsPerKm[p.ID]; ok {
			cp := *p
			vv := v
			cp.CO2Emission = &vv
			b.PhysicalModes.Set(h, &cp)
		}
	}

	for _, id := range injectedPhysicalModes {
		if _, ok := b.PhysicalModes.ByID(id); ok {
			continue
		}
		v := defaultCO2GramsPerKm[id]
		b.PhysicalModes.Append(&entity.PhysicalMode{ID: id, Name: id, CO2Emission: &v})
	}

	return model.Assemble(b)
}

// ExpandFrequencies materializes every headway-based Frequency into a run
// of explicit, StopTime-bearing VehicleJourneys cloned from the Frequency's
// template journey and shifted by each departure's offset from the
// template's first stop, then discards the template and the Frequency
// records (SPEC_FULL.md section 4; needed before generate-transfers or
// validity-pattern compression can treat a frequency-based service like
// any other).
func ExpandFrequencies(m *model.Model) (*model.Model, error) {
	b := m.Decompose()

	freqs := b.Frequencies.Slice()
	if len(freqs) == 0 {
		return model.Assemble(b)
	}

	byTemplate := make(map[string][]entity.Frequency)
	for _, f := range freqs {
		byTemplate[f.VehicleJourneyID] = append(byTemplate[f.VehicleJourneyID], f)
	}

	templateIDs := make([]string, 0, len(byTemplate))
	for id := range byTemplate {
		templateIDs = append(templateIDs, id)
	}
	sort.Strings(templateIDs)

	for _, templateID := range templateIDs {
		fs := byTemplate[templateID]
		tmpl, ok := b.VehicleJourneys.ByID(templateID)
		if !ok || len(tmpl.StopTimes) == 0 {
			continue
		}
		base := tmpl.StopTimes[0].Departure

		for fi, f := range fs {
			n := 0
			headway := time.Duration(f.HeadwaySecs) * time.Second
			for t := f.StartTime; t < f.EndTime; t += headway {
				shift := t - base
				sts := make([]entity.StopTime, len(tmpl.StopTimes))
				for i, st := range tmpl.StopTimes {
					st.Arrival += shift
					st.Departure += shift
					sts[i] = st
				}
				nv := *tmpl
				nv.ID = fmt.Sprintf("%s:freq%d:%d", tmpl.ID, fi, n)
				nv.StopTimes = sts
				b.VehicleJourneys.Append(&nv)
				n++
			}
		}

		b.VehicleJourneys.Retain(func(v *entity.VehicleJourney) bool { return v.ID != templateID })
	}

	b.Frequencies.Retain(func(entity.Frequency) bool { return false })

	return model.Assemble(b)
}
