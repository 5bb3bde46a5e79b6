package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/compare"
	"github.com/bayneri/crossmix/internal/model"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/planner"
)

type Options struct {
	// Channels includes the per-channel tables.
	Channels bool
	// PlatformA and PlatformB label the digital platforms.
	PlatformA string
	PlatformB string
}

func (o Options) labels() (string, string) {
	a, b := o.PlatformA, o.PlatformB
	if a == "" {
		a = "Platform A"
	}
	if b == "" {
		b = "Platform B"
	}
	return a, b
}

func WriteMarkdown(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func BaselineMarkdown(m baseline.Metrics, opts Options) string {
	a, b := opts.labels()
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Baseline\n\n")
	fmt.Fprintf(&sb, "| Layer | Spend | ATC | Share |\n")
	fmt.Fprintf(&sb, "| --- | --- | --- | --- |\n")
	fmt.Fprintf(&sb, "| TV | %s | %s | %s |\n", Currency(m.TV.Spend), Number(m.TV.ATC), Pct(m.TVPct, 1))
	fmt.Fprintf(&sb, "| Digital | %s | %s | %s |\n", Currency(m.Digital.Spend), Number(m.Digital.ATC), Pct(m.DigitalPct, 1))
	fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", a, Currency(m.PlatformA.Spend), Number(m.PlatformA.ATC), Pct(m.PlatformAPct, 1))
	fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", b, Currency(m.PlatformB.Spend), Number(m.PlatformB.ATC), Pct(100-m.PlatformAPct, 1))
	fmt.Fprintf(&sb, "| Total | %s | %s | 100.0%% |\n", Currency(m.Total.Spend), Number(m.Total.ATC))
	return sb.String()
}

func OptimizeMarkdown(res optimizer.Result, opts Options) string {
	a, b := opts.labels()
	p := res.Parameters
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Optimized allocation\n\n")
	fmt.Fprintf(&sb, "- TV/Digital split: %.0f/%.0f\n", p.TVDigitalSplitPct, 100-p.TVDigitalSplitPct)
	fmt.Fprintf(&sb, "- %s share of digital: %s\n", a, Pct(p.PlatformASplitPct, 0))
	fmt.Fprintf(&sb, "- Intensity: %s, protection threshold: %s\n", Pct(p.IntensityPct, 0), Pct(p.ProtectionThresholdPct, 0))
	if res.Sync != nil {
		fmt.Fprintf(&sb, "- Sync: %s (%s ATC, %s per ATC, %s of digital ATC)\n",
			Currency(res.Sync.Spend), Number(res.Sync.ATC), Currency(res.Sync.CostPerATC), Pct(res.Sync.SharePct, 1))
	}
	fmt.Fprintf(&sb, "- Total ATC: %s (%s, %+.0f)\n\n", Number(res.Total.ATC), SignedPct(res.Total.ATCLift, 1), res.Total.ATCGain)

	fmt.Fprintf(&sb, "| Layer | Spend | Spend change | ATC | ATC change |\n")
	fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- |\n")
	for _, row := range []struct {
		name string
		c    model.Change
	}{{"TV", res.TV}, {"Digital", res.Digital}, {a, res.PlatformA}, {b, res.PlatformB}} {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			row.name, Currency(row.c.Spend), SignedPct(row.c.SpendChange, 1), Number(row.c.ATC), SignedPct(row.c.ATCChange, 1))
	}

	fmt.Fprintf(&sb, "\n## Regions\n\n")
	fmt.Fprintf(&sb, "| Region | Spend | New spend | Change | ATC | New ATC |\n")
	fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range res.Regions {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %.0f | %.0f |\n",
			r.Region, Currency(r.Spend), Currency(r.NewSpend), SignedPct(r.SpendChange, 1), r.ATC, r.NewATC)
	}

	if opts.Channels {
		fmt.Fprintf(&sb, "\n## Channels\n\n")
		fmt.Fprintf(&sb, "| Channel | Region | Impact | Spend | New spend | Change | Status | Threshold |\n")
		fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, ch := range res.Channels {
			fmt.Fprintf(&sb, "| %s | %s | %d | %s | %s | %s | %s | %s |\n",
				ch.Name, ch.Region, ch.ImpactScore, Currency(ch.Spend), Currency(ch.NewSpend), SignedPct(ch.SpendChange, 1), ch.Status, ch.Threshold)
		}
	}
	return sb.String()
}

func OptimalMarkdown(plan planner.Plan, opts Options) string {
	a, b := opts.labels()
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Optimal plan\n\n")
	fmt.Fprintf(&sb, "- %s target share: %s, intensity %s, threshold %s\n", a,
		Pct(plan.Settings.PlatformASplitPct, 0), Pct(plan.Settings.IntensityPct, 0), Pct(plan.Settings.ProtectionThresholdPct, 0))
	fmt.Fprintf(&sb, "- Additional %s budget: %s\n", a, Currency(plan.Reallocation.AdditionalPlatformA))
	fmt.Fprintf(&sb, "- TV reduction: %s (sync %s)\n", Currency(plan.Reallocation.TVReduction), Currency(plan.Reallocation.SyncReduction))
	fmt.Fprintf(&sb, "- Total ATC: %s -> %s (%s)\n\n",
		Number(plan.Baseline.Total.ATC), Number(plan.Optimal.Total.ATC), SignedPct(plan.Optimal.Total.Lift, 1))

	fmt.Fprintf(&sb, "| Layer | Baseline spend | Optimal spend | Baseline ATC | Optimal ATC |\n")
	fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- |\n")
	rows := []struct {
		name string
		base baseline.Totals
		opt  model.Change
	}{
		{"TV", plan.Baseline.TV, plan.Optimal.TV},
		{"Digital", plan.Baseline.Digital, plan.Optimal.Digital},
		{a, plan.Baseline.PlatformA, plan.Optimal.PlatformA},
		{b, plan.Baseline.PlatformB, plan.Optimal.PlatformB},
	}
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %s | %s | %s | %.0f | %.0f |\n", r.name, Currency(r.base.Spend), Currency(r.opt.Spend), r.base.ATC, r.opt.ATC)
	}
	if s := plan.Optimal.Sync; s != nil {
		fmt.Fprintf(&sb, "| Sync | - | %s | - | %.0f |\n", Currency(s.Spend), s.ATC)
	}

	fmt.Fprintf(&sb, "\n## Regions\n\n")
	fmt.Fprintf(&sb, "| Region | Spend | Change | Share of TV | ATC | Channels |\n")
	fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range plan.Regions {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %.0f | %d |\n",
			r.Region, Currency(r.Spend), SignedPct(r.SpendChange, 1), Pct(r.ShareOfTVPct, 1), r.ATC, r.ChannelCount)
	}

	if opts.Channels {
		for _, r := range plan.Regions {
			fmt.Fprintf(&sb, "\n### %s\n\n", r.Region)
			fmt.Fprintf(&sb, "| Channel | Impact | Spend | Recommended | ATC | Efficiency | Status |\n")
			fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- | --- | --- |\n")
			for _, ch := range r.Channels {
				fmt.Fprintf(&sb, "| %s | %d | %s | %s | %.0f | %.1f | %s |\n",
					ch.Name, ch.ImpactScore, Currency(ch.Spend), Currency(ch.RecommendedSpend), ch.RecommendedATC, ch.Efficiency, ch.Status)
			}
		}
	}
	return sb.String()
}

func ComparisonMarkdown(res compare.Result, opts Options) string {
	a, b := opts.labels()
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Plan comparison: %s\n\n", res.Plan)
	fmt.Fprintf(&sb, "- Status: %s\n", res.Status)
	fmt.Fprintf(&sb, "- Spend ratio (plan / baseline TV): %.4f\n", res.TVTotals.Ratio)
	fmt.Fprintf(&sb, "- Common channels: %d, new channels: %d\n", len(res.Common), len(res.NewChannels))
	fmt.Fprintf(&sb, "- TV savings: %s (%s)\n", Currency(res.TVTotals.Savings), Pct(res.TVTotals.SavingsPct, 1))
	fmt.Fprintf(&sb, "- Total ATC: %s -> %s (%s, %+.0f)\n\n",
		Number(res.Total.BaselineATC), Number(res.Total.OptimalATC), SignedPct(res.Total.ImprovementPct, 2), res.Total.Gain)

	fmt.Fprintf(&sb, "| Layer | Baseline spend | Plan spend | Baseline ATC | Plan ATC |\n")
	fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- |\n")
	fmt.Fprintf(&sb, "| TV (common) | %s | %s | %.0f | %.0f |\n",
		Currency(res.TVTotals.BaselineSpend), Currency(res.TVTotals.ClientSpend), res.TVTotals.BaselineATC, res.TVTotals.ClientATC)
	fmt.Fprintf(&sb, "| %s | %s | %s | %.0f | %.0f |\n", a,
		Currency(res.Digital.PlatformA.BaselineSpend), Currency(res.Digital.PlatformA.OptimalSpend), res.Digital.PlatformA.BaselineATC, res.Digital.PlatformA.OptimalATC)
	fmt.Fprintf(&sb, "| %s | %s | %s | %.0f | %.0f |\n", b,
		Currency(res.Digital.PlatformB.BaselineSpend), Currency(res.Digital.PlatformB.OptimalSpend), res.Digital.PlatformB.BaselineATC, res.Digital.PlatformB.OptimalATC)

	fmt.Fprintf(&sb, "\n## Regions\n\n")
	fmt.Fprintf(&sb, "| Region | Baseline spend | Plan spend | Baseline ATC | Plan ATC | Efficiency index |\n")
	fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range res.Regions {
		fmt.Fprintf(&sb, "| %s | %s | %s | %.0f | %.0f | %.2f |\n",
			r.Region, Currency(r.BaselineSpend), Currency(r.ClientSpend), r.BaselineATC, r.ClientATC, r.EfficiencyIndex)
	}

	if opts.Channels {
		fmt.Fprintf(&sb, "\n## Channels\n\n")
		fmt.Fprintf(&sb, "| Channel | Region | Baseline spend | Plan spend | Baseline ATC | Plan ATC | Efficiency index |\n")
		fmt.Fprintf(&sb, "| --- | --- | --- | --- | --- | --- | --- |\n")
		for _, c := range res.Common {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %.0f | %.0f | %.2f |\n",
				c.Name, c.Region, Currency(c.BaselineSpend), Currency(c.ClientSpend), c.BaselineATC, c.ClientATC, c.EfficiencyIndex)
		}
	}

	if len(res.NewChannels) > 0 {
		fmt.Fprintf(&sb, "\n## New channels\n\n")
		for _, ch := range res.NewChannels {
			fmt.Fprintf(&sb, "- %s (%s, %s): %s, est. %.0f ATC\n", ch.Name, ch.Region, ch.Genre, Currency(ch.Spend), ch.ATC)
		}
	}
	if len(res.Dropped) > 0 {
		fmt.Fprintf(&sb, "\n## Dropped\n\n")
		for _, name := range res.Dropped {
			fmt.Fprintf(&sb, "- %s: no baseline peers share its genre and region\n", name)
		}
	}
	return sb.String()
}
