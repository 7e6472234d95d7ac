package transform

import (
	"math/bits"
	"sort"
	"time"

	"github.com/transitmodel/core/internal/modelerr"
)

// ValidityPattern is the compressed weekly-repeating representation of a
// Calendar's active-date set, for export to profiles that encode validity
// as a reference week plus exception dates (spec.md section 4.12).
type ValidityPattern struct {
	// Reference is a 7-bit weekday mask, Monday at bit 6 down to Sunday
	// at bit 0.
	Reference byte
	Start     time.Time
	End       time.Time
	Additions []time.Time
	Removals  []time.Time
}

func weekdayBit(t time.Time) byte {
	offset := (int(t.Weekday()) + 6) % 7 // Mon=0 ... Sun=6
	return 1 << uint(6-offset)
}

func mondayOnOrBefore(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// CompressValidityPattern computes the weekly reference mask minimizing
// total Hamming distance to every week's weekday mask (ties broken by the
// smaller popcount), plus the additions/removals needed to reconstruct
// the input exactly (spec.md section 4.12, P6). dates need not be sorted
// or deduplicated.
func CompressValidityPattern(dates []time.Time) (ValidityPattern, error) {
	if len(dates) == 0 {
		return ValidityPattern{}, &modelerr.EmptyResult{Reason: "validity-pattern compression of an empty date set"}
	}

	sorted := append([]time.Time(nil), dates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	present := make(map[time.Time]bool, len(sorted))
	for _, d := range sorted {
		present[d] = true
	}

	minD, maxD := sorted[0], sorted[len(sorted)-1]
	// alignedStart is used only to align the week-mask computation to
	// Monday boundaries; the period this function reports is [min(D),
	// max(D)] per spec.md section 4.12 step 1, not the Monday-padded range.
	alignedStart := mondayOnOrBefore(minD)
	weeks := int(maxD.Sub(alignedStart).Hours()/24)/7 + 1

	weekMasks := make([]byte, weeks)
	for i := 0; i < weeks; i++ {
		weekStart := alignedStart.AddDate(0, 0, 7*i)
		for day := 0; day < 7; day++ {
			d := weekStart.AddDate(0, 0, day)
			if present[d] {
				weekMasks[i] |= 1 << uint(6-day)
			}
		}
	}

	var (
		reference byte
		bestCost  = -1
		bestPop   = 8
	)
	for r := 0; r < 128; r++ {
		cost := 0
		for _, wm := range weekMasks {
			cost += bits.OnesCount8(wm ^ byte(r))
		}
		pop := bits.OnesCount8(byte(r))
		if bestCost == -1 || cost < bestCost || (cost == bestCost && pop < bestPop) {
			bestCost, bestPop, reference = cost, pop, byte(r)
		}
	}

	// additions/removals are computed over the full Monday-aligned weeks
	// (so every weekday's bit is checked against the reference mask) but
	// clipped to [min(D), max(D)] before being reported, per spec.md
	// section 4.12 step 4.
	var additions, removals []time.Time
	for i := 0; i < weeks; i++ {
		weekStart := alignedStart.AddDate(0, 0, 7*i)
		for day := 0; day < 7; day++ {
			d := weekStart.AddDate(0, 0, day)
			if d.Before(minD) || d.After(maxD) {
				continue
			}
			bit := byte(1) << uint(6-day)
			inWeek := weekMasks[i]&bit != 0
			inRef := reference&bit != 0
			switch {
			case inWeek && !inRef:
				additions = append(additions, d)
			case !inWeek && inRef:
				removals = append(removals, d)
			}
		}
	}

	return ValidityPattern{
		Reference: reference,
		Start:     minD,
		End:       maxD,
		Additions: additions,
		Removals:  removals,
	}, nil
}

// Decompress reconstructs the original date set from a ValidityPattern.
// It is the exact inverse of CompressValidityPattern: applying the
// reference mask across every week of [Start, End] and then toggling
// Additions/Removals reproduces the input date set bit for bit (P6).
func Decompress(vp ValidityPattern) []time.Time {
	additions := make(map[time.Time]bool, len(vp.Additions))
	for _, d := range vp.Additions {
		additions[d] = true
	}
	removals := make(map[time.Time]bool, len(vp.Removals))
	for _, d := range vp.Removals {
		removals[d] = true
	}

	var out []time.Time
	for d := vp.Start; !d.After(vp.End); d = d.AddDate(0, 0, 1) {
		present := vp.Reference&weekdayBit(d) != 0
		switch {
		case additions[d]:
			present = true
		case removals[d]:
			present = false
		}
		if present {
			out = append(out, d)
		}
	}
	return out
}
