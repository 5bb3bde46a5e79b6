// Package compare evaluates an alternate channel plan against the
// baseline at equal total TV spend.
package compare

import (
	"sort"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/model"
	"github.com/bayneri/crossmix/internal/planner"
)

// Options tunes a comparison. PlatformASplitPct is the digital split of
// the optimal side, fixed at the optimal plan's split by default.
type Options struct {
	Jitter            Jitter
	Policy            model.SaturationPolicy
	PlatformASplitPct float64
}

func DefaultOptions() Options {
	return Options{
		Jitter:            DefaultJitter(),
		Policy:            model.DefaultPolicy(),
		PlatformASplitPct: planner.PlatformASplitPct,
	}
}

func Compare(base baseline.Metrics, data dataset.Provider, name string, plan []dataset.ClientPlanChannel, opts Options) Result {
	jitter := opts.Jitter
	if jitter == nil {
		jitter = NoJitter{}
	}
	resolved := Resolve(plan, data)
	ratio := model.SafeRatio(resolved.TotalSpend, base.TV.Spend)

	byName := map[string]dataset.Channel{}
	for _, ch := range data.Channels() {
		byName[dataset.NormalizeName(ch.Name)] = ch
	}

	result := Result{
		SchemaVersion: SchemaVersion,
		Plan:          name,
		Status:        StatusOK,
		Jitter:        jitter.Enabled(),
		Dropped:       resolved.Dropped,
	}
	if len(resolved.Dropped) > 0 {
		result.Status = StatusPartial
	}

	var newATC float64
	impactSum := 0
	for _, client := range resolved.Channels {
		key := dataset.NormalizeName(client.Name)
		b, ok := byName[key]
		if !ok {
			result.NewChannels = append(result.NewChannels, client.Channel)
			newATC += client.ATC
			continue
		}
		c := compareChannel(b, client.Channel, key, ratio, jitter)
		result.Common = append(result.Common, c)
		impactSum += b.ImpactScore
	}

	var t Totals
	for _, c := range result.Common {
		t.BaselineSpend += c.BaselineSpend
		t.ClientSpend += c.ClientSpend
		t.BaselineATC += c.BaselineATC
		t.ClientATC += c.ClientATC
	}
	t.SpendChange = model.PercentChange(t.ClientSpend, t.BaselineSpend)
	t.ATCChange = model.PercentChange(t.ClientATC, t.BaselineATC)
	result.CommonTotals = t

	savings := t.BaselineSpend - t.ClientSpend
	result.TVTotals = TVTotals{
		Totals:     t,
		Savings:    savings,
		SavingsPct: model.SafeRatio(savings, t.BaselineSpend) * 100,
		Ratio:      ratio,
	}
	result.ClientTVATC = t.ClientATC + newATC

	result.Digital = digitalLayer(base, opts)

	optimal := result.ClientTVATC + result.Digital.OptimalATC
	baseTotal := t.BaselineATC + base.Digital.ATC
	variation := jitter.Variation(impactSum, len(result.Common))
	result.Total = TotalComparison{
		BaselineATC:    baseTotal,
		OptimalATC:     optimal,
		ImprovementPct: model.PercentChange(optimal, baseTotal) + variation,
		Variation:      variation,
		Gain:           optimal - baseTotal,
	}
	result.Regions = groupRegions(result.Common)
	return result
}

func compareChannel(b, client dataset.Channel, key string, ratio float64, jitter Jitter) ChannelComparison {
	baseSpend := b.Spend * ratio
	baseATC := model.Round(b.ATC * ratio)
	clientATC := model.Round(client.ATC * jitter.ChannelFactor(key, b.ImpactScore))

	baseEff := model.SafeRatio(baseATC, baseSpend)
	clientEff := model.SafeRatio(clientATC, client.Spend)
	return ChannelComparison{
		Channel:               b,
		BaselineSpend:         baseSpend,
		BaselineATC:           baseATC,
		ClientSpend:           client.Spend,
		ClientATC:             clientATC,
		SpendChange:           model.PercentChange(client.Spend, baseSpend),
		ATCChange:             model.PercentChange(clientATC, baseATC),
		EfficiencyImprovement: model.PercentChange(clientEff, baseEff),
		EfficiencyIndex:       model.SafeRatio(clientEff, baseEff),
	}
}

// digitalLayer re-splits the unchanged baseline digital budget at the
// target platform A share.
func digitalLayer(base baseline.Metrics, opts Options) DigitalComparison {
	budget := base.Digital.Spend
	aSpend := budget * opts.PlatformASplitPct / 100
	bSpend := budget * (100 - opts.PlatformASplitPct) / 100
	aATC := model.ProjectATC(base.PlatformA.ATC, model.SafeRatio(aSpend, base.PlatformA.Spend), opts.Policy.PlatformA)
	bATC := model.ProjectATC(base.PlatformB.ATC, model.SafeRatio(bSpend, base.PlatformB.Spend), opts.Policy.PlatformB)

	return DigitalComparison{
		PlatformComparison: PlatformComparison{
			BaselineSpend: budget,
			OptimalSpend:  budget,
			BaselineATC:   base.Digital.ATC,
			OptimalATC:    aATC + bATC,
		},
		PlatformA: PlatformComparison{
			BaselineSpend: base.PlatformA.Spend,
			OptimalSpend:  aSpend,
			BaselineATC:   base.PlatformA.ATC,
			OptimalATC:    aATC,
		},
		PlatformB: PlatformComparison{
			BaselineSpend: base.PlatformB.Spend,
			OptimalSpend:  bSpend,
			BaselineATC:   base.PlatformB.ATC,
			OptimalATC:    bATC,
		},
	}
}

func groupRegions(common []ChannelComparison) []RegionComparison {
	index := map[dataset.Region]int{}
	var out []RegionComparison
	for _, c := range common {
		i, ok := index[c.Region]
		if !ok {
			i = len(out)
			index[c.Region] = i
			out = append(out, RegionComparison{Region: c.Region})
		}
		r := &out[i]
		r.BaselineSpend += c.BaselineSpend
		r.ClientSpend += c.ClientSpend
		r.BaselineATC += c.BaselineATC
		r.ClientATC += c.ClientATC
		r.Channels = append(r.Channels, c)
	}
	for i := range out {
		r := &out[i]
		r.EfficiencyIndex = model.SafeRatio(
			model.SafeRatio(r.ClientATC, r.ClientSpend),
			model.SafeRatio(r.BaselineATC, r.BaselineSpend),
		)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return dataset.RegionRank(out[a].Region) < dataset.RegionRank(out[b].Region)
	})
	return out
}
