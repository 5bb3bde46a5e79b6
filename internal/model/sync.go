package model

import (
	"slices"

	"github.com/bayneri/crossmix/internal/dataset"
)

// SyncPoint is an operating point of the sync line, either read from the
// scenario table or interpolated between two rows.
type SyncPoint struct {
	Spend        float64 `json:"spend"`
	ATC          float64 `json:"atc"`
	CostPerATC   float64 `json:"costPerATC"`
	PlatformAATC float64 `json:"platformAATC"`
	PlatformBATC float64 `json:"platformBATC"`
}

func pointOf(s dataset.SyncScenario) SyncPoint {
	return SyncPoint{
		Spend:        s.Spend,
		ATC:          s.ATC,
		CostPerATC:   s.CostPerATC,
		PlatformAATC: s.PlatformAATC,
		PlatformBATC: s.PlatformBATC,
	}
}

// InterpolateSync looks spend up in table. The table is sorted on a copy.
// Spends at or beyond either end clamp to that row; a spend of zero or
// less returns zero sync output with the fallback platform ATC values.
func InterpolateSync(spend float64, table []dataset.SyncScenario, fallbackA, fallbackB float64) SyncPoint {
	if spend <= 0 || len(table) == 0 {
		return SyncPoint{PlatformAATC: fallbackA, PlatformBATC: fallbackB}
	}

	sorted := slices.Clone(table)
	slices.SortFunc(sorted, func(a, b dataset.SyncScenario) int {
		switch {
		case a.Spend < b.Spend:
			return -1
		case a.Spend > b.Spend:
			return 1
		}
		return 0
	})

	first, last := sorted[0], sorted[len(sorted)-1]
	if spend <= first.Spend {
		return pointOf(first)
	}
	if spend >= last.Spend {
		return pointOf(last)
	}

	for i := 0; i < len(sorted)-1; i++ {
		lo, hi := sorted[i], sorted[i+1]
		if spend < lo.Spend || spend > hi.Spend {
			continue
		}
		ratio := (spend - lo.Spend) / (hi.Spend - lo.Spend)
		lerp := func(a, b float64) float64 { return Round(a + ratio*(b-a)) }
		return SyncPoint{
			Spend:        spend,
			ATC:          lerp(lo.ATC, hi.ATC),
			CostPerATC:   lerp(lo.CostPerATC, hi.CostPerATC),
			PlatformAATC: lerp(lo.PlatformAATC, hi.PlatformAATC),
			PlatformBATC: lerp(lo.PlatformBATC, hi.PlatformBATC),
		}
	}
	return pointOf(last)
}
