// Package planner builds the recommended "optimal" allocation: platform A
// is topped up to its target share of digital and TV absorbs the cost.
package planner

import (
	"math"
	"sort"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/model"
)

const (
	PlatformASplitPct      = 81
	PlatformBSplitPct      = 19
	IntensityPct           = 15
	ProtectionThresholdPct = 70
	ChannelWeight          = 0.85
	DefaultSyncBudget      = 3700000
	StatusTolerance        = 0.01
)

type Options struct {
	SyncEnabled bool
	SyncBudget  float64
	Policy      model.SaturationPolicy
}

func DefaultOptions() Options {
	return Options{SyncBudget: DefaultSyncBudget, Policy: model.DefaultPolicy()}
}

type Settings struct {
	PlatformASplitPct      float64 `json:"platformASplitPct"`
	IntensityPct           float64 `json:"intensityPct"`
	ProtectionThresholdPct float64 `json:"protectionThresholdPct"`
}

type BaselineView struct {
	TV        baseline.Totals `json:"tv"`
	Digital   baseline.Totals `json:"digital"`
	PlatformA baseline.Totals `json:"platformA"`
	PlatformB baseline.Totals `json:"platformB"`
	Total     baseline.Totals `json:"total"`
}

type SyncView struct {
	Spend      float64 `json:"spend"`
	ATC        float64 `json:"atc"`
	CostPerATC float64 `json:"costPerATC"`
}

type TotalView struct {
	Spend float64 `json:"spend"`
	ATC   float64 `json:"atc"`
	Lift  float64 `json:"lift"`
	Gain  float64 `json:"gain"`
}

type OptimalView struct {
	TV        model.Change `json:"tv"`
	Digital   model.Change `json:"digital"`
	PlatformA model.Change `json:"platformA"`
	PlatformB model.Change `json:"platformB"`
	Total     TotalView    `json:"total"`
	Sync      *SyncView    `json:"sync"`
}

type Reallocation struct {
	AdditionalPlatformA float64 `json:"additionalPlatformA"`
	TVReduction         float64 `json:"tvReduction"`
	SyncReduction       float64 `json:"syncReduction"`
}

type Channel struct {
	dataset.Channel
	RecommendedSpend float64         `json:"recommendedSpend"`
	RecommendedATC   float64         `json:"recommendedATC"`
	Efficiency       float64         `json:"efficiency"`
	SpendChange      float64         `json:"spendChange"`
	ATCChange        float64         `json:"atcChange"`
	Status           model.Status    `json:"status"`
	Threshold        model.Threshold `json:"threshold"`
}

// RegionRollup sums the recommended channels of one region. Channels are
// ordered by recommended spend, largest first.
type RegionRollup struct {
	Region        dataset.Region `json:"region"`
	Spend         float64        `json:"spend"`
	ATC           float64        `json:"atc"`
	ChannelCount  int            `json:"channels"`
	BaselineSpend float64        `json:"baselineSpend"`
	SpendChange   float64        `json:"spendChange"`
	ShareOfTVPct  float64        `json:"shareOfTVPct"`
	Channels      []Channel      `json:"channelList"`
}

type Plan struct {
	TotalBudget  float64        `json:"totalBudget"`
	Baseline     BaselineView   `json:"baseline"`
	Optimal      OptimalView    `json:"optimal"`
	Reallocation Reallocation   `json:"reallocation"`
	Channels     []Channel      `json:"channels"`
	Regions      []RegionRollup `json:"regions"`
	Settings     Settings       `json:"settings"`
}

func Build(base baseline.Metrics, data dataset.Provider, opts Options) Plan {
	sync := 0.0
	if opts.SyncEnabled {
		sync = opts.SyncBudget
	}

	targetA := base.Digital.Spend * PlatformASplitPct / 100
	targetB := base.Digital.Spend * PlatformBSplitPct / 100
	additional := math.Max(0, targetA-base.PlatformA.Spend)

	tvBudget := base.TV.Spend - additional - sync
	aBudget := base.PlatformA.Spend + additional
	bBudget := targetB
	digitalBudget := aBudget + bBudget + sync

	aATC := model.ProjectATC(base.PlatformA.ATC, model.SafeRatio(aBudget, base.PlatformA.Spend), opts.Policy.OptimalPlatformA)
	bATC := model.ProjectATC(base.PlatformB.ATC, model.SafeRatio(bBudget, base.PlatformB.Spend), opts.Policy.OptimalPlatformB)

	var syncView *SyncView
	var syncATC float64
	if opts.SyncEnabled {
		point := model.InterpolateSync(opts.SyncBudget, data.SyncScenarios(), base.PlatformA.ATC, base.PlatformB.ATC)
		syncATC = point.ATC
		syncView = &SyncView{Spend: opts.SyncBudget, ATC: point.ATC, CostPerATC: point.CostPerATC}
	}

	tvMult := model.SafeRatio(tvBudget, base.TV.Spend)
	channels := buildChannels(data.Channels(), tvMult, opts.Policy.OptimalChannel)
	var tvATC float64
	for _, ch := range channels {
		tvATC += ch.RecommendedATC
	}
	digitalATC := aATC + bATC + syncATC
	totalATC := tvATC + digitalATC

	return Plan{
		TotalBudget: base.Total.Spend,
		Baseline: BaselineView{
			TV:        base.TV,
			Digital:   base.Digital,
			PlatformA: baseline.Totals{Spend: base.PlatformA.Spend, ATC: base.PlatformA.ATC},
			PlatformB: baseline.Totals{Spend: base.PlatformB.Spend, ATC: base.PlatformB.ATC},
			Total:     base.Total,
		},
		Optimal: OptimalView{
			TV:        model.NewChange(tvBudget, tvATC, base.TV.Spend, base.TV.ATC),
			Digital:   model.NewChange(digitalBudget, digitalATC, base.Digital.Spend, base.Digital.ATC),
			PlatformA: model.NewChange(aBudget, aATC, base.PlatformA.Spend, base.PlatformA.ATC),
			PlatformB: model.NewChange(bBudget, bATC, base.PlatformB.Spend, base.PlatformB.ATC),
			Total: TotalView{
				Spend: base.Total.Spend,
				ATC:   totalATC,
				Lift:  model.PercentChange(totalATC, base.Total.ATC),
				Gain:  totalATC - base.Total.ATC,
			},
			Sync: syncView,
		},
		Reallocation: Reallocation{
			AdditionalPlatformA: additional,
			TVReduction:         additional + sync,
			SyncReduction:       sync,
		},
		Channels: channels,
		Regions:  rollup(channels, dataset.RegionIndex(data), tvBudget),
		Settings: Settings{
			PlatformASplitPct:      PlatformASplitPct,
			IntensityPct:           IntensityPct,
			ProtectionThresholdPct: ProtectionThresholdPct,
		},
	}
}

// buildChannels applies the uniform TV multiplier and the impact
// reallocation to every channel. No channel is dropped or snapped.
func buildChannels(channels []dataset.Channel, tvMult, exponent float64) []Channel {
	out := make([]Channel, 0, len(channels))
	for _, ch := range channels {
		mult := tvMult * model.ReallocationFactor(ch.ImpactScore, IntensityPct/100.0, ChannelWeight)
		spend := ch.Spend * mult
		atc := model.ProjectATC(ch.ATC, mult, exponent)
		out = append(out, Channel{
			Channel:          ch,
			RecommendedSpend: spend,
			RecommendedATC:   atc,
			Efficiency:       model.SafeRatio(atc, spend) * 1e6,
			SpendChange:      model.PercentChange(spend, ch.Spend),
			ATCChange:        model.PercentChange(atc, ch.ATC),
			Status:           model.ClassifySpend(spend, ch.Spend, StatusTolerance),
			Threshold:        model.ThresholdFor(ch.ImpactScore, ProtectionThresholdPct),
		})
	}
	return out
}

func rollup(channels []Channel, regions map[dataset.Region]dataset.RegionAggregate, tvBudget float64) []RegionRollup {
	index := map[dataset.Region]int{}
	var out []RegionRollup
	for _, ch := range channels {
		i, ok := index[ch.Region]
		if !ok {
			i = len(out)
			index[ch.Region] = i
			out = append(out, RegionRollup{Region: ch.Region})
		}
		out[i].Spend += ch.RecommendedSpend
		out[i].ATC += ch.RecommendedATC
		out[i].ChannelCount++
		out[i].Channels = append(out[i].Channels, ch)
	}
	for i := range out {
		r := &out[i]
		r.BaselineSpend = regions[r.Region].Spend
		r.SpendChange = model.PercentChange(r.Spend, r.BaselineSpend)
		r.ShareOfTVPct = model.SafeRatio(r.Spend, tvBudget) * 100
		sort.SliceStable(r.Channels, func(a, b int) bool {
			return r.Channels[a].RecommendedSpend > r.Channels[b].RecommendedSpend
		})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return dataset.RegionRank(out[a].Region) < dataset.RegionRank(out[b].Region)
	})
	return out
}
