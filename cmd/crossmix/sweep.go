package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/metrics"
	"github.com/bayneri/crossmix/internal/report"
	"github.com/bayneri/crossmix/internal/sweep"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		opts      renderOptions
		tvSplit   string
		aSplit    string
		intensity string
		threshold string
		syncModes []bool
		top       int
		workers   int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate a grid of control positions and rank them by total ATC",
		Long: `sweep runs the optimizer for every combination of the given ranges and
ranks the scenarios by total ATC. Ranges are v, min:max or min:max:step;
unset controls stay at their configured value.

  crossmix sweep --tv-split 60:90:5 --platform-a-split 60:90:3 --top 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, base, err := a.loadDataset()
			if err != nil {
				return err
			}
			p := a.cfg.Parameters
			grid := sweep.Grid{
				TVDigitalSplit:      sweep.Fixed(p.TVDigitalSplitPct),
				PlatformASplit:      sweep.Fixed(p.PlatformASplitPct),
				Intensity:           sweep.Fixed(p.IntensityPct),
				ProtectionThreshold: sweep.Fixed(p.ProtectionThresholdPct),
				Sync:                []bool{p.SyncEnabled},
				SyncBudget:          p.SyncBudget,
				Renormalize:         p.Renormalize,
			}
			if cmd.Flags().Changed("sync-modes") {
				grid.Sync = syncModes
			}
			for _, r := range []struct {
				raw string
				dst *sweep.Range
			}{
				{tvSplit, &grid.TVDigitalSplit},
				{aSplit, &grid.PlatformASplit},
				{intensity, &grid.Intensity},
				{threshold, &grid.ProtectionThreshold},
			} {
				if r.raw == "" {
					continue
				}
				rng, err := sweep.ParseRange(r.raw)
				if err != nil {
					return err
				}
				*r.dst = rng
			}

			start := time.Now()
			rows, err := sweep.Run(cmd.Context(), base, d, grid, sweep.Options{
				Optimizer: a.cfg.OptimizerOptions(),
				Workers:   workers,
				Top:       top,
			})
			if err != nil {
				metrics.RecordError("sweep", "validation")
				return err
			}
			a.logger.Debug("sweep finished", "scenarios", len(rows), "duration_ms", time.Since(start).Milliseconds())

			return a.render(d, opts, rendering{
				kind:   report.KindSweep,
				result: rows,
				table:  func() error { return a.printer.Scenarios(rows) },
				markdown: func() string {
					return report.AggregateMarkdown(report.AggregateResult{
						SchemaVersion: report.SchemaVersion,
						Inputs:        []string{d.Name},
						Status:        report.StatusOK,
						Scenarios:     rows,
					})
				},
			})
		},
	}
	addRenderFlags(cmd, &opts, "table, json, markdown")
	cmd.Flags().StringVar(&tvSplit, "tv-split", "", "TV share range, e.g. 60:90:5")
	cmd.Flags().StringVar(&aSplit, "platform-a-split", "", "platform A share range")
	cmd.Flags().StringVar(&intensity, "intensity", "", "intensity range")
	cmd.Flags().StringVar(&threshold, "threshold", "", "protection threshold range")
	cmd.Flags().BoolSliceVar(&syncModes, "sync-modes", nil, "sync positions to try, e.g. false,true")
	cmd.Flags().IntVar(&top, "top", 10, "keep the best N scenarios, 0 for all")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent evaluations (default GOMAXPROCS)")
	return cmd
}
