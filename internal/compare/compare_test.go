package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/dataset"
)

func clientPlan(t *testing.T) (dataset.Dataset, baseline.Metrics, []dataset.ClientPlanChannel) {
	t.Helper()
	d, err := dataset.Default()
	require.NoError(t, err)
	plan, ok := d.ClientPlan("client")
	require.True(t, ok)
	return d, baseline.Aggregate(d), plan
}

func TestCompareClientPlan(t *testing.T) {
	d, base, plan := clientPlan(t)
	res := Compare(base, d, "client", plan, DefaultOptions())

	assert.Equal(t, SchemaVersion, res.SchemaVersion)
	assert.Equal(t, StatusOK, res.Status)
	assert.True(t, res.Jitter)
	assert.Empty(t, res.Dropped)
	require.Len(t, res.Common, 43)
	require.Len(t, res.NewChannels, 1)
	assert.Equal(t, "sony max", res.NewChannels[0].Name)

	assert.InDelta(t, 0.366364860201699, res.TVTotals.Ratio, 1e-12)
	assert.Equal(t, 2369.0, res.CommonTotals.BaselineATC)
	assert.Equal(t, 3247.0, res.CommonTotals.ClientATC)
	assert.Equal(t, 14777900.0, res.CommonTotals.ClientSpend)
	assert.InDelta(t, 11167027.7188, res.CommonTotals.BaselineSpend, 1e-3)
	assert.Equal(t, 3367.0, res.ClientTVATC)

	assert.Equal(t, 13602.0, res.Digital.PlatformA.OptimalATC)
	assert.Equal(t, 805.0, res.Digital.PlatformB.OptimalATC)
	assert.Equal(t, 14407.0, res.Digital.OptimalATC)
	assert.Equal(t, base.Digital.Spend, res.Digital.OptimalSpend)

	assert.Equal(t, 17774.0, res.Total.OptimalATC)
	assert.Equal(t, 14812.0, res.Total.BaselineATC)
	assert.Equal(t, 2962.0, res.Total.Gain)
	assert.InDelta(t, 0.35, res.Total.Variation, 1e-12)
	assert.InDelta(t, 20.3473, res.Total.ImprovementPct, 1e-4)

	first := res.Common[0]
	assert.Equal(t, "star plus", first.Name)
	assert.Equal(t, 119.0, first.BaselineATC)
	assert.Equal(t, 200.0, first.ClientATC)
	assert.InDelta(t, (200/902730.0)/(119/first.BaselineSpend), first.EfficiencyIndex, 1e-12)
}

func TestCompareWithoutJitter(t *testing.T) {
	d, base, plan := clientPlan(t)
	opts := DefaultOptions()
	opts.Jitter = NoJitter{}
	res := Compare(base, d, "client", plan, opts)

	assert.False(t, res.Jitter)
	assert.Equal(t, 3140.0, res.CommonTotals.ClientATC)
	assert.Equal(t, 3260.0, res.ClientTVATC)
	assert.Zero(t, res.Total.Variation)
	assert.InDelta(t, 19.2749, res.Total.ImprovementPct, 1e-4)
}

func TestCompareSavingsAndRegions(t *testing.T) {
	d, base, plan := clientPlan(t)
	res := Compare(base, d, "client", plan, DefaultOptions())

	tv := res.TVTotals
	assert.InDelta(t, tv.BaselineSpend-tv.ClientSpend, tv.Savings, 1e-9)
	assert.InDelta(t, tv.Savings/tv.BaselineSpend*100, tv.SavingsPct, 1e-9)

	var spend, atc float64
	count := 0
	for i, r := range res.Regions {
		if i > 0 {
			assert.Less(t, dataset.RegionRank(res.Regions[i-1].Region), dataset.RegionRank(r.Region))
		}
		spend += r.ClientSpend
		atc += r.ClientATC
		count += len(r.Channels)
		want := (r.ClientATC / r.ClientSpend) / (r.BaselineATC / r.BaselineSpend)
		assert.InDelta(t, want, r.EfficiencyIndex, 1e-12, r.Region)
	}
	assert.Equal(t, len(res.Common), count)
	assert.InDelta(t, res.CommonTotals.ClientSpend, spend, 1e-6)
	assert.Equal(t, res.CommonTotals.ClientATC, atc)
}

func TestJitterFactors(t *testing.T) {
	j := DefaultJitter()
	cases := []struct {
		name   string
		impact int
		want   float64
	}{
		{"sony pal", 71, 0.95},
		{"star utsav", 68, 0.95},
		{"goldmines", 57, 0.93},
		{"star plus", 92, 1.04},
		{"zee tv", 87, 1.06},
		{"colors", 84, 1.03},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, j.ChannelFactor(tc.name, tc.impact), 1e-12, tc.name)
	}
	assert.InDelta(t, 0.12+float64((100+2*7)%37)/100, j.Variation(100, 2), 1e-12)
	assert.Equal(t, 1.0, NoJitter{}.ChannelFactor("sony pal", 71))
}

func resolveData() dataset.Dataset {
	return dataset.Dataset{
		RegionTable: []dataset.RegionAggregate{{Region: dataset.RegionKar, Spend: 3000, ATC: 30}},
		ChannelTable: []dataset.Channel{
			{Name: "zee kannada", Region: dataset.RegionKar, Genre: "entertainment", Spend: 1000, ReachPct: 4, ATC: 10, ImpactScore: 80},
			{Name: "udaya tv", Region: dataset.RegionKar, Genre: "entertainment", Spend: 2000, ReachPct: 3, ATC: 30, ImpactScore: 75},
		},
		AliasTable: map[string]string{"zee kannada hd": "zee kannada"},
	}
}

func TestResolve(t *testing.T) {
	plan := []dataset.ClientPlanChannel{
		{Name: "Zee  Kannada HD", Region: "KAR", Spend: 2000, Genre: "entertainment"},
		{Name: "udaya tv", Region: "KAR", Spend: 1000, Genre: "entertainment"},
		{Name: "public tv", Region: "KAR", Spend: 500, Genre: "entertainment"},
		{Name: "nobody", Region: "KER", Spend: 500, Genre: "entertainment"},
		{Name: "zero", Region: "KAR", Spend: 0, Genre: "entertainment"},
	}
	res := Resolve(plan, resolveData())

	require.Len(t, res.Channels, 3)
	assert.Equal(t, []string{"nobody"}, res.Dropped)

	zee := res.Channels[0]
	assert.True(t, zee.Matched)
	assert.Equal(t, "zee kannada", zee.Name)
	assert.Equal(t, dataset.RegionKar, zee.Region)
	assert.Equal(t, 20.0, zee.ATC)
	assert.InDelta(t, 4.8, zee.ReachPct, 1e-12, "reach capped at 1.2x")
	assert.Equal(t, 80, zee.ImpactScore)

	udaya := res.Channels[1]
	assert.InDelta(t, 1.5, udaya.ReachPct, 1e-12)
	assert.Equal(t, 15.0, udaya.ATC)

	public := res.Channels[2]
	assert.False(t, public.Matched)
	assert.Equal(t, 6.0, public.ATC, "mean efficiency (0.01+0.015)/2 * 500")
	assert.Equal(t, 78, public.ImpactScore)
	assert.Zero(t, public.ReachPct)

	assert.Equal(t, 3500.0, res.TotalSpend)
	assert.Equal(t, 41.0, res.TotalATC)
}

func TestComparePartialWhenDropped(t *testing.T) {
	d := resolveData()
	plan := []dataset.ClientPlanChannel{
		{Name: "udaya tv", Region: "KAR", Spend: 1500, Genre: "entertainment"},
		{Name: "nobody", Region: "WB", Spend: 500, Genre: "news"},
	}
	res := Compare(baseline.Aggregate(d), d, "q3", plan, DefaultOptions())
	assert.Equal(t, StatusPartial, res.Status)
	assert.Equal(t, []string{"nobody"}, res.Dropped)
	require.Len(t, res.Common, 1)
	assert.InDelta(t, 0.5, res.TVTotals.Ratio, 1e-12)
	assert.Equal(t, 1000.0, res.Common[0].BaselineSpend)
}
