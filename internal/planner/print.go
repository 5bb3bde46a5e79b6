package planner

import (
	"fmt"
	"io"
)

func Render(w io.Writer, plan Plan) {
	fmt.Fprintf(w, "Total budget: %.0f\n", plan.TotalBudget)
	fmt.Fprintf(w, "Settings: platform A %.0f%%, intensity %.0f%%, threshold %.0f%%\n",
		plan.Settings.PlatformASplitPct, plan.Settings.IntensityPct, plan.Settings.ProtectionThresholdPct)
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "Allocation:")
	rows := []struct {
		name string
		base float64
		opt  float64
		atc  float64
		chg  float64
	}{
		{"tv", plan.Baseline.TV.Spend, plan.Optimal.TV.Spend, plan.Optimal.TV.ATC, plan.Optimal.TV.ATCChange},
		{"platformA", plan.Baseline.PlatformA.Spend, plan.Optimal.PlatformA.Spend, plan.Optimal.PlatformA.ATC, plan.Optimal.PlatformA.ATCChange},
		{"platformB", plan.Baseline.PlatformB.Spend, plan.Optimal.PlatformB.Spend, plan.Optimal.PlatformB.ATC, plan.Optimal.PlatformB.ATCChange},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "- %s: %.0f -> %.0f (atc %.0f, %+.1f%%)\n", r.name, r.base, r.opt, r.atc, r.chg)
	}
	if plan.Optimal.Sync != nil {
		fmt.Fprintf(w, "- sync: %.0f (atc %.0f, cost/atc %.0f)\n", plan.Optimal.Sync.Spend, plan.Optimal.Sync.ATC, plan.Optimal.Sync.CostPerATC)
	}
	fmt.Fprintf(w, "Total ATC: %.0f (%+.1f%%, %+.0f)\n", plan.Optimal.Total.ATC, plan.Optimal.Total.Lift, plan.Optimal.Total.Gain)

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Reallocation:")
	fmt.Fprintf(w, "- additional platform A: %.0f\n", plan.Reallocation.AdditionalPlatformA)
	fmt.Fprintf(w, "- tv reduction: %.0f (sync %.0f)\n", plan.Reallocation.TVReduction, plan.Reallocation.SyncReduction)

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Regions:")
	for _, r := range plan.Regions {
		fmt.Fprintf(w, "- %s: %.0f (%+.1f%%, %.1f%% of tv), atc %.0f, %d channels\n",
			r.Region, r.Spend, r.SpendChange, r.ShareOfTVPct, r.ATC, r.ChannelCount)
	}
}
