package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/compare"
	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/optimizer"
	"github.com/bayneri/crossmix/internal/planner"
	"github.com/bayneri/crossmix/internal/report"
)

type renderOptions struct {
	format   string
	out      string
	channels bool
}

func addRenderFlags(cmd *cobra.Command, opts *renderOptions, formats string) {
	cmd.Flags().StringVarP(&opts.format, "format", "o", "", "output format: "+formats+" (default from output.format)")
	cmd.Flags().StringVar(&opts.out, "out", "", "write json or markdown output to this file")
	cmd.Flags().BoolVar(&opts.channels, "channels", false, "include per-channel rows")
}

// rendering holds the three renderings of one result.
type rendering struct {
	kind     string
	result   any
	table    func() error
	markdown func() string
	text     func() error
}

func (a *app) render(d dataset.Dataset, opts renderOptions, r rendering) error {
	format := opts.format
	if format == "" {
		format = a.cfg.Output.Format
	}
	switch format {
	case "table":
		return r.table()
	case "json":
		env := report.NewEnvelope(r.kind, d.Name, r.result, time.Now())
		if opts.out != "" {
			if err := report.WriteJSON(opts.out, env); err != nil {
				return err
			}
			a.printer.Success("Wrote %s", opts.out)
			return nil
		}
		data, err := report.MarshalJSON(env)
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	case "markdown":
		md := r.markdown()
		if opts.out != "" {
			if err := report.WriteMarkdown(opts.out, md); err != nil {
				return err
			}
			a.printer.Success("Wrote %s", opts.out)
			return nil
		}
		_, err := fmt.Fprint(a.stdout, md)
		return err
	case "text":
		if r.text != nil {
			return r.text()
		}
	}
	return fmt.Errorf("unsupported format %q", format)
}

func newBaselineCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Show the aggregated current allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, base, err := a.loadDataset()
			if err != nil {
				return err
			}
			return a.render(d, opts, rendering{
				kind:     report.KindBaseline,
				result:   base,
				table:    func() error { return a.printer.Baseline(base) },
				markdown: func() string { return report.BaselineMarkdown(base, a.reportOptions(d, opts.channels)) },
			})
		},
	}
	addRenderFlags(cmd, &opts, "table, json, markdown")
	return cmd
}

func newOptimizeCmd(a *app) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Project the outcome of one position of the allocation controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, base, err := a.loadDataset()
			if err != nil {
				return err
			}
			params, err := a.parameters()
			if err != nil {
				return err
			}
			res := optimizer.Compute(base, d, params, a.cfg.OptimizerOptions())
			return a.render(d, opts, rendering{
				kind:     report.KindOptimize,
				result:   res,
				table:    func() error { return a.printer.Optimize(res, opts.channels) },
				markdown: func() string { return report.OptimizeMarkdown(res, a.reportOptions(d, opts.channels)) },
			})
		},
	}
	addRenderFlags(cmd, &opts, "table, json, markdown")
	addParameterFlags(cmd)
	return cmd
}

func newOptimalCmd(a *app) *cobra.Command {
	var (
		opts       renderOptions
		sync       bool
		syncBudget float64
	)
	cmd := &cobra.Command{
		Use:   "optimal",
		Short: "Build the recommended plan at the saturation optimum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, base, err := a.loadDataset()
			if err != nil {
				return err
			}
			plannerOpts := a.cfg.PlannerOptions(sync)
			if cmd.Flags().Changed("sync-budget") {
				if syncBudget <= 0 {
					return errors.New("--sync-budget must be positive")
				}
				plannerOpts.SyncBudget = syncBudget
			}
			plan := planner.Build(base, d, plannerOpts)
			return a.render(d, opts, rendering{
				kind:     report.KindOptimal,
				result:   plan,
				table:    func() error { return a.printer.Optimal(plan, opts.channels) },
				markdown: func() string { return report.OptimalMarkdown(plan, a.reportOptions(d, opts.channels)) },
				text: func() error {
					planner.Render(a.stdout, plan)
					return nil
				},
			})
		},
	}
	addRenderFlags(cmd, &opts, "table, json, markdown, text")
	cmd.Flags().BoolVar(&sync, "sync", false, "include sync spend funded from TV")
	cmd.Flags().Float64Var(&syncBudget, "sync-budget", planner.DefaultSyncBudget, "sync spend (default from optimal.sync_budget)")
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	var (
		opts          renderOptions
		planName      string
		noJitter      bool
		failOnPartial bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare an alternate channel plan against the baseline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, base, err := a.loadDataset()
			if err != nil {
				return err
			}
			if planName == "" {
				planName = a.cfg.Comparison.Plan
			}
			plan, ok := d.ClientPlan(planName)
			if !ok {
				return fmt.Errorf("plan %q not found (available: %s)", planName, strings.Join(d.PlanNames(), ", "))
			}

			compareOpts := compare.DefaultOptions()
			compareOpts.Policy = a.cfg.Saturation
			if noJitter || !a.cfg.Comparison.Jitter {
				compareOpts.Jitter = compare.NoJitter{}
			}
			res := compare.Compare(base, d, planName, plan, compareOpts)

			err = a.render(d, opts, rendering{
				kind:     report.KindComparison,
				result:   res,
				table:    func() error { return a.printer.Comparison(res, opts.channels) },
				markdown: func() string { return report.ComparisonMarkdown(res, a.reportOptions(d, opts.channels)) },
			})
			if err != nil {
				return err
			}
			if len(res.Dropped) > 0 {
				a.printer.Warning("%d channel(s) have no peers and were left out: %s", len(res.Dropped), strings.Join(res.Dropped, ", "))
				if failOnPartial {
					return partial(fmt.Errorf("plan %q is partial: %d channel(s) dropped", planName, len(res.Dropped)))
				}
			}
			return nil
		},
	}
	addRenderFlags(cmd, &opts, "table, json, markdown")
	cmd.Flags().StringVar(&planName, "plan", "", "plan name (default from comparison.plan)")
	cmd.Flags().BoolVar(&noJitter, "no-jitter", false, "disable the presentation jitter")
	cmd.Flags().BoolVar(&failOnPartial, "fail-on-partial", false, "exit 2 when channels were dropped")
	return cmd
}
