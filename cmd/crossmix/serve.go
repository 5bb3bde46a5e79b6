package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/compare"
	"github.com/bayneri/crossmix/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `serve exposes the computations as JSON:

  GET  /healthz
  GET  /v1/baseline
  POST /v1/optimize                     body: parameters, absent fields use config
  GET  /v1/optimal-plan?sync=true
  GET  /v1/comparison?plan=client&jitter=false
  GET  /v1/plans
  POST /v1/sweep                        body: {"tvDigitalSplit": "60:90:5", "top": 10}
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := a.loadDataset()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			settings := server.DefaultSettings()
			settings.Parameters = a.cfg.Parameters
			settings.Optimizer = a.cfg.OptimizerOptions()
			settings.Planner = a.cfg.PlannerOptions(false)
			settings.Comparison.Policy = a.cfg.Saturation
			if !a.cfg.Comparison.Jitter {
				settings.Comparison.Jitter = compare.NoJitter{}
			}
			settings.ComparisonPlan = a.cfg.Comparison.Plan
			settings.SweepWorkers = workers
			settings.ReadTimeout = a.cfg.Server.ReadTimeout
			settings.WriteTimeout = a.cfg.Server.WriteTimeout

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
			defer stop()
			return server.ListenAndServe(ctx, addr, server.NewHandler(d, settings))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	cmd.Flags().IntVar(&workers, "sweep-workers", 0, "concurrent evaluations per sweep request")
	return cmd
}
