package output

import (
	"fmt"

	"github.com/bayneri/crossmix/internal/baseline"
	"github.com/bayneri/crossmix/internal/compare"
	"github.com/bayneri/crossmix/internal/model"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/planner"
	"github.com/bayneri/crossmix/internal/report"
)

func (p *Printer) Baseline(m baseline.Metrics) error {
	p.Header("Baseline")
	t := p.NewTable([]string{"Layer", "Spend", "ATC", "Share"})
	t.AddRow("TV", report.Currency(m.TV.Spend), report.Number(m.TV.ATC), report.Pct(m.TVPct, 1))
	t.AddRow("Digital", report.Currency(m.Digital.Spend), report.Number(m.Digital.ATC), report.Pct(m.DigitalPct, 1))
	t.AddRow(p.platformA, report.Currency(m.PlatformA.Spend), report.Number(m.PlatformA.ATC), report.Pct(m.PlatformAPct, 1))
	t.AddRow(p.platformB, report.Currency(m.PlatformB.Spend), report.Number(m.PlatformB.ATC), report.Pct(100-m.PlatformAPct, 1))
	t.AddRow("Total", report.Currency(m.Total.Spend), report.Number(m.Total.ATC), "100.0%")
	return t.Render()
}

func (p *Printer) changeRow(t *Table, name string, c model.Change) {
	t.AddRow(name,
		report.Currency(c.Spend),
		p.Delta(c.SpendChange, report.SignedPct(c.SpendChange, 1)),
		report.Number(c.ATC),
		p.Delta(c.ATCChange, report.SignedPct(c.ATCChange, 1)),
	)
}

// Optimize prints layers and regions; channels only when withChannels.
func (p *Printer) Optimize(res optimizer.Result, withChannels bool) error {
	p.Header("Allocation")
	t := p.NewTable([]string{"Layer", "Spend", "Change", "ATC", "Change"})
	p.changeRow(t, "TV", res.TV)
	p.changeRow(t, "Digital", res.Digital)
	p.changeRow(t, p.platformA, res.PlatformA)
	p.changeRow(t, p.platformB, res.PlatformB)
	if s := res.Sync; s != nil {
		t.AddRow("Sync", report.Currency(s.Spend), "", report.Number(s.ATC), report.Pct(s.SharePct, 1)+" of digital")
	}
	if err := t.Render(); err != nil {
		return err
	}

	p.Header("Regions")
	t = p.NewTable([]string{"Region", "Spend", "New spend", "Change", "ATC", "New ATC"})
	for _, r := range res.Regions {
		t.AddRow(string(r.Region), report.Currency(r.Spend), report.Currency(r.NewSpend),
			p.Delta(r.SpendChange, report.SignedPct(r.SpendChange, 1)), report.Number(r.ATC), report.Number(r.NewATC))
	}
	if err := t.Render(); err != nil {
		return err
	}

	if withChannels {
		p.Header("Channels")
		t = p.NewTable([]string{"Channel", "Region", "Impact", "Spend", "New spend", "Change", "Status"})
		for _, ch := range res.Channels {
			t.AddRow(ch.Name, string(ch.Region), fmt.Sprint(ch.ImpactScore), report.Currency(ch.Spend),
				report.Currency(ch.NewSpend), report.SignedPct(ch.SpendChange, 1), p.StatusBadge(string(ch.Status)))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	p.Print("")
	p.Print("Total ATC %s (%s, %+.0f)", p.Bold(report.Number(res.Total.ATC)),
		p.Delta(res.Total.ATCLift, report.SignedPct(res.Total.ATCLift, 2)), res.Total.ATCGain)
	return nil
}

func (p *Printer) Optimal(plan planner.Plan, withChannels bool) error {
	p.Header("Optimal plan")
	t := p.NewTable([]string{"Layer", "Spend", "Change", "ATC", "Change"})
	p.changeRow(t, "TV", plan.Optimal.TV)
	p.changeRow(t, "Digital", plan.Optimal.Digital)
	p.changeRow(t, p.platformA, plan.Optimal.PlatformA)
	p.changeRow(t, p.platformB, plan.Optimal.PlatformB)
	if s := plan.Optimal.Sync; s != nil {
		t.AddRow("Sync", report.Currency(s.Spend), "", report.Number(s.ATC), "")
	}
	if err := t.Render(); err != nil {
		return err
	}

	p.Header("Regions")
	t = p.NewTable([]string{"Region", "Spend", "Change", "Share of TV", "ATC", "Channels"})
	for _, r := range plan.Regions {
		t.AddRow(string(r.Region), report.Currency(r.Spend), p.Delta(r.SpendChange, report.SignedPct(r.SpendChange, 1)),
			report.Pct(r.ShareOfTVPct, 1), report.Number(r.ATC), fmt.Sprint(r.ChannelCount))
	}
	if err := t.Render(); err != nil {
		return err
	}

	if withChannels {
		p.Header("Channels")
		t = p.NewTable([]string{"Channel", "Region", "Spend", "Recommended", "ATC", "Efficiency", "Status"})
		for _, r := range plan.Regions {
			for _, ch := range r.Channels {
				t.AddRow(ch.Name, string(ch.Region), report.Currency(ch.Spend), report.Currency(ch.RecommendedSpend),
					report.Number(ch.RecommendedATC), fmt.Sprintf("%.1f", ch.Efficiency), p.StatusBadge(string(ch.Status)))
			}
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	p.Print("")
	p.Print("%s moves %s from TV (%s to sync)", p.platformA,
		report.Currency(plan.Reallocation.TVReduction), report.Currency(plan.Reallocation.SyncReduction))
	p.Print("Total ATC %s -> %s (%s)", report.Number(plan.Baseline.Total.ATC), p.Bold(report.Number(plan.Optimal.Total.ATC)),
		p.Delta(plan.Optimal.Total.Lift, report.SignedPct(plan.Optimal.Total.Lift, 2)))
	return nil
}

func (p *Printer) Comparison(res compare.Result, withChannels bool) error {
	p.Header(fmt.Sprintf("Plan comparison: %s", res.Plan))
	t := p.NewTable([]string{"Layer", "Baseline spend", "Plan spend", "Baseline ATC", "Plan ATC"})
	tv := res.TVTotals
	t.AddRow("TV (common)", report.Currency(tv.BaselineSpend), report.Currency(tv.ClientSpend), report.Number(tv.BaselineATC), report.Number(tv.ClientATC))
	a, b := res.Digital.PlatformA, res.Digital.PlatformB
	t.AddRow(p.platformA, report.Currency(a.BaselineSpend), report.Currency(a.OptimalSpend), report.Number(a.BaselineATC), report.Number(a.OptimalATC))
	t.AddRow(p.platformB, report.Currency(b.BaselineSpend), report.Currency(b.OptimalSpend), report.Number(b.BaselineATC), report.Number(b.OptimalATC))
	t.AddRow("Total", "", "", report.Number(res.Total.BaselineATC), report.Number(res.Total.OptimalATC))
	if err := t.Render(); err != nil {
		return err
	}

	p.Header("Regions")
	t = p.NewTable([]string{"Region", "Baseline spend", "Plan spend", "Baseline ATC", "Plan ATC", "Efficiency"})
	for _, r := range res.Regions {
		t.AddRow(string(r.Region), report.Currency(r.BaselineSpend), report.Currency(r.ClientSpend),
			report.Number(r.BaselineATC), report.Number(r.ClientATC), fmt.Sprintf("%.2fx", r.EfficiencyIndex))
	}
	if err := t.Render(); err != nil {
		return err
	}

	if withChannels {
		p.Header("Channels")
		t = p.NewTable([]string{"Channel", "Region", "Baseline spend", "Plan spend", "Baseline ATC", "Plan ATC", "Efficiency"})
		for _, c := range res.Common {
			t.AddRow(c.Name, string(c.Region), report.Currency(c.BaselineSpend), report.Currency(c.ClientSpend),
				report.Number(c.BaselineATC), report.Number(c.ClientATC), fmt.Sprintf("%.2fx", c.EfficiencyIndex))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	for _, ch := range res.NewChannels {
		p.Info("New channel %s (%s, %s): %s, est. %s ATC", ch.Name, ch.Region, ch.Genre, report.Currency(ch.Spend), report.Number(ch.ATC))
	}
	for _, name := range res.Dropped {
		p.Warning("dropped %s: no baseline channel shares its genre and region", name)
	}
	p.Print("")
	p.Print("TV savings %s (%s), improvement %s, gain %+.0f ATC",
		report.Currency(tv.Savings), report.Pct(tv.SavingsPct, 1),
		p.Delta(res.Total.ImprovementPct, report.SignedPct(res.Total.ImprovementPct, 2)), res.Total.Gain)
	return nil
}

func (p *Printer) Scenarios(rows []report.ScenarioRow) error {
	t := p.NewTable([]string{"Rank", "TV/Digital", p.platformA, "Intensity", "Threshold", "Sync", "Total ATC", "Lift"})
	for _, row := range rows {
		params := row.Parameters
		sync := "off"
		if params.SyncEnabled {
			sync = report.Currency(params.SyncBudget)
		}
		t.AddRow(fmt.Sprint(row.Rank),
			fmt.Sprintf("%.0f/%.0f", params.TVDigitalSplitPct, 100-params.TVDigitalSplitPct),
			report.Pct(params.PlatformASplitPct, 0),
			report.Pct(params.IntensityPct, 0),
			report.Pct(params.ProtectionThresholdPct, 0),
			sync,
			report.Number(row.ATC),
			p.Delta(row.Lift, report.SignedPct(row.Lift, 2)))
	}
	return t.Render()
}
