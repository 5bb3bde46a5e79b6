package compare

import (
	"math"

	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/model"
)

// ReachCap bounds a matched channel's reach at this multiple of its
// baseline reach.
const ReachCap = 1.2

type ResolvedChannel struct {
	dataset.Channel
	Matched bool `json:"matched"`
}

type Resolution struct {
	Channels   []ResolvedChannel `json:"channels"`
	Dropped    []string          `json:"dropped"`
	TotalSpend float64           `json:"totalSpend"`
	TotalATC   float64           `json:"totalATC"`
}

// Resolve turns client plan rows into channels with ATC estimates.
// Rows matching a baseline channel (after normalization and aliasing)
// take that channel's efficiency; other rows take the mean efficiency of
// baseline channels sharing their genre and region, and are dropped when
// there are none. Rows with no spend are skipped.
func Resolve(plan []dataset.ClientPlanChannel, data dataset.Provider) Resolution {
	aliases := data.Aliases()
	channels := data.Channels()
	byName := make(map[string]dataset.Channel, len(channels))
	for _, ch := range channels {
		byName[dataset.ResolveName(ch.Name, aliases)] = ch
	}

	var res Resolution
	for _, row := range plan {
		if row.Spend <= 0 {
			continue
		}
		region := dataset.MapRegionCode(row.Region)

		if b, ok := byName[dataset.ResolveName(row.Name, aliases)]; ok {
			reach := b.ReachPct * model.SafeRatio(row.Spend, b.Spend)
			res.add(ResolvedChannel{
				Channel: dataset.Channel{
					Name:        b.Name,
					Region:      region,
					Genre:       row.Genre,
					Spend:       row.Spend,
					ReachPct:    math.Min(reach, b.ReachPct*ReachCap),
					ATC:         model.Round(row.Spend * model.SafeRatio(b.ATC, b.Spend)),
					ImpactScore: b.ImpactScore,
				},
				Matched: true,
			})
			continue
		}

		var effSum, impactSum float64
		var peers int
		for _, ch := range channels {
			if ch.Genre != row.Genre || ch.Region != region {
				continue
			}
			effSum += model.SafeRatio(ch.ATC, ch.Spend)
			impactSum += float64(ch.ImpactScore)
			peers++
		}
		if peers == 0 {
			res.Dropped = append(res.Dropped, row.Name)
			continue
		}
		n := float64(peers)
		res.add(ResolvedChannel{Channel: dataset.Channel{
			Name:        row.Name,
			Region:      region,
			Genre:       row.Genre,
			Spend:       row.Spend,
			ATC:         model.Round(row.Spend * effSum / n),
			ImpactScore: int(model.Round(impactSum / n)),
		}})
	}
	return res
}

func (r *Resolution) add(ch ResolvedChannel) {
	r.Channels = append(r.Channels, ch)
	r.TotalSpend += ch.Spend
	r.TotalATC += ch.ATC
}
