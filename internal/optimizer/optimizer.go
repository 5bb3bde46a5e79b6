// Package optimizer redistributes the baseline budget across TV regions,
// TV channels, the two digital platforms and the sync line for one set of
// control parameters.
package optimizer

import (
	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/model"
)

type SyncResult struct {
	Spend      float64 `json:"spend"`
	ATC        float64 `json:"atc"`
	CostPerATC float64 `json:"costPerATC"`
	SharePct   float64 `json:"sharePct"`
}

type RegionResult struct {
	dataset.RegionAggregate
	NewSpend    float64 `json:"newSpend"`
	NewATC      float64 `json:"newATC"`
	SpendChange float64 `json:"spendChange"`
	ATCChange   float64 `json:"atcChange"`
}

type ChannelResult struct {
	dataset.Channel
	NewSpend    float64         `json:"newSpend"`
	NewATC      float64         `json:"newATC"`
	SpendChange float64         `json:"spendChange"`
	ATCChange   float64         `json:"atcChange"`
	Status      model.Status    `json:"status"`
	Threshold   model.Threshold `json:"threshold"`
}

type TotalResult struct {
	Spend   float64 `json:"spend"`
	ATC     float64 `json:"atc"`
	ATCLift float64 `json:"atcLift"`
	ATCGain float64 `json:"atcGain"`
}

type Result struct {
	Parameters Parameters      `json:"parameters"`
	TV         model.Change    `json:"tv"`
	Digital    model.Change    `json:"digital"`
	PlatformA  model.Change    `json:"platformA"`
	PlatformB  model.Change    `json:"platformB"`
	Sync       *SyncResult     `json:"sync"`
	Regions    []RegionResult  `json:"regions"`
	Channels   []ChannelResult `json:"channels"`
	Total      TotalResult     `json:"total"`
}

// Compute derives a full result tree from the baseline and params. It
// never fails; zero denominators yield zero changes.
func Compute(base baseline.Metrics, data dataset.Provider, params Parameters, opts Options) Result {
	total := base.Total.Spend
	sync := params.ActiveSyncBudget()

	tvBudget := total*(params.TVDigitalSplitPct/100) - sync
	digitalBudget := total * ((100 - params.TVDigitalSplitPct) / 100)
	aBudget := digitalBudget * (params.PlatformASplitPct / 100)
	bBudget := digitalBudget * ((100 - params.PlatformASplitPct) / 100)

	point := model.InterpolateSync(sync, data.SyncScenarios(), base.PlatformA.ATC, base.PlatformB.ATC)
	aMult := model.SafeRatio(aBudget, base.PlatformA.Spend)
	bMult := model.SafeRatio(bBudget, base.PlatformB.Spend)
	penalty := opts.Penalty.Factor(params.PlatformASplitPct)

	var aATC, bATC, syncATC float64
	if params.SyncEnabled {
		aATC = model.Round(model.Round(point.PlatformAATC*aMult) * penalty)
		bATC = model.Round(point.PlatformBATC * bMult)
		syncATC = point.ATC
	} else {
		aATC = model.Round(model.ProjectATC(base.PlatformA.ATC, aMult, opts.Policy.PlatformA) * penalty)
		bATC = model.ProjectATC(base.PlatformB.ATC, bMult, opts.Policy.PlatformB)
	}
	digitalATC := aATC + bATC + syncATC

	tvMult := model.SafeRatio(tvBudget, base.TV.Spend)
	regions := data.Regions()
	regionResults := make([]RegionResult, 0, len(regions))
	byRegion := make(map[dataset.Region]RegionResult, len(regions))
	var tvATC float64
	for _, r := range regions {
		newSpend := r.Spend * tvMult
		newATC := model.ProjectATC(r.ATC, tvMult, opts.Policy.Region)
		rr := RegionResult{
			RegionAggregate: r,
			NewSpend:        newSpend,
			NewATC:          newATC,
			SpendChange:     model.PercentChange(newSpend, r.Spend),
			ATCChange:       model.PercentChange(newATC, r.ATC),
		}
		regionResults = append(regionResults, rr)
		byRegion[r.Region] = rr
		tvATC += newATC
	}

	channels := data.Channels()
	intensity := params.IntensityPct / 100
	var scale map[dataset.Region]float64
	if params.Renormalize {
		scale = renormalization(channels, intensity, opts.ChannelWeight)
	}
	channelResults := make([]ChannelResult, 0, len(channels))
	for _, ch := range channels {
		region, ok := byRegion[ch.Region]
		if !ok {
			channelResults = append(channelResults, maintained(ch, params.ProtectionThresholdPct))
			continue
		}
		baseMult := tvMult
		if region.Spend != 0 {
			baseMult = region.NewSpend / region.Spend
		}
		mult := baseMult * model.ReallocationFactor(ch.ImpactScore, intensity, opts.ChannelWeight)
		if s, ok := scale[ch.Region]; ok {
			mult *= s
		}

		newSpend := ch.Spend * mult
		newATC := model.ProjectATC(ch.ATC, mult, opts.Policy.Channel)
		spendChange := model.PercentChange(newSpend, ch.Spend)
		status := model.ClassifyChange(spendChange, opts.MaintainBandPct)
		if status == model.StatusMaintain {
			channelResults = append(channelResults, maintained(ch, params.ProtectionThresholdPct))
			continue
		}
		channelResults = append(channelResults, ChannelResult{
			Channel:     ch,
			NewSpend:    newSpend,
			NewATC:      newATC,
			SpendChange: spendChange,
			ATCChange:   model.PercentChange(newATC, ch.ATC),
			Status:      status,
			Threshold:   model.ThresholdFor(ch.ImpactScore, params.ProtectionThresholdPct),
		})
	}

	var syncResult *SyncResult
	if params.SyncEnabled {
		syncResult = &SyncResult{
			Spend:      sync,
			ATC:        point.ATC,
			CostPerATC: point.CostPerATC,
			SharePct:   model.SafeRatio(point.ATC, digitalATC) * 100,
		}
	}

	totalATC := tvATC + digitalATC
	return Result{
		Parameters: params,
		TV:         model.NewChange(tvBudget, tvATC, base.TV.Spend, base.TV.ATC),
		Digital:    model.NewChange(digitalBudget+sync, digitalATC, base.Digital.Spend, base.Digital.ATC),
		PlatformA:  model.NewChange(aBudget, aATC, base.PlatformA.Spend, base.PlatformA.ATC),
		PlatformB:  model.NewChange(bBudget, bATC, base.PlatformB.Spend, base.PlatformB.ATC),
		Sync:       syncResult,
		Regions:    regionResults,
		Channels:   channelResults,
		Total: TotalResult{
			Spend:   total,
			ATC:     totalATC,
			ATCLift: model.PercentChange(totalATC, base.Total.ATC),
			ATCGain: totalATC - base.Total.ATC,
		},
	}
}

func maintained(ch dataset.Channel, protectionPct float64) ChannelResult {
	return ChannelResult{
		Channel:   ch,
		NewSpend:  ch.Spend,
		NewATC:    ch.ATC,
		Status:    model.StatusMaintain,
		Threshold: model.ThresholdFor(ch.ImpactScore, protectionPct),
	}
}

// renormalization returns, per region, the factor that makes the weighted
// channel spends sum back to the unweighted channel spends.
func renormalization(channels []dataset.Channel, intensity, weight float64) map[dataset.Region]float64 {
	plain := map[dataset.Region]float64{}
	weighted := map[dataset.Region]float64{}
	for _, ch := range channels {
		plain[ch.Region] += ch.Spend
		weighted[ch.Region] += ch.Spend * model.ReallocationFactor(ch.ImpactScore, intensity, weight)
	}
	out := make(map[dataset.Region]float64, len(plain))
	for region, sum := range plain {
		if weighted[region] != 0 {
			out[region] = sum / weighted[region]
		}
	}
	return out
}
