package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/export/csvexport"
	"github.com/bayneri/crossmix/internal/export/monitoringjson"
	"github.com/bayneri/crossmix/internal/export/terraform"
	"github.com/bayneri/crossmix/internal/monitoring"
	"github.com/bayneri/crossmix/internal/optimizer"
)

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export channel tables or monitoring resources",
	}
	cmd.AddCommand(newExportCSVCmd(a), newExportDashboardCmd(a), newExportTerraformCmd(a))
	return cmd
}

func newExportCSVCmd(a *app) *cobra.Command {
	var (
		optimized bool
		outDir    string
	)
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Export the channel table as CSV",
		Long: `csv writes every channel with its current spend and ATC, or with
--optimized the spend recommended for the current control position.
Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, base, err := a.loadDataset()
			if err != nil {
				return err
			}
			var res optimizer.Result
			if optimized {
				params, err := a.parameters()
				if err != nil {
					return err
				}
				res = optimizer.Compute(base, d, params, a.cfg.OptimizerOptions())
			}

			write := func(w io.Writer) error {
				if optimized {
					return csvexport.WriteOptimized(w, res.Channels)
				}
				return csvexport.WriteBaseline(w, d.Channels())
			}
			if outDir == "-" {
				return write(a.stdout)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}
			path := filepath.Join(outDir, csvexport.FileName(optimized, time.Now()))
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := write(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.printer.Success("Wrote CSV export to %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&optimized, "optimized", false, "export recommended spends instead of the baseline")
	cmd.Flags().StringVar(&outDir, "out", filepath.Join("out", "csv"), "output directory, or - for stdout")
	addParameterFlags(cmd)
	return cmd
}

func newExportDashboardCmd(a *app) *cobra.Command {
	var (
		outDir   string
		scenario string
		labels   string
	)
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Write the KPI dashboard and time series as Monitoring JSON",
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
			extra, err := monitoring.ParseLabels(labels)
			if err != nil {
				return err
			}
			res := optimizer.Compute(base, d, params, a.cfg.OptimizerOptions())
			path, err := monitoringjson.Write(res, monitoringjson.Request{
				Project:      a.cfg.GCP.Project,
				MetricPrefix: a.cfg.GCP.MetricPrefix,
				Scenario:     scenario,
				Labels:       extra,
				At:           time.Now(),
			}, outDir)
			if err != nil {
				return err
			}
			a.printer.Success("Wrote Monitoring JSON export to %s", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", filepath.Join("out", "monitoring-json"), "output directory")
	cmd.Flags().StringVar(&scenario, "scenario", "default", "scenario label on the exported points")
	cmd.Flags().StringVar(&labels, "labels", "", "extra labels in key=value,key=value format")
	addParameterFlags(cmd)
	return cmd
}

func newExportTerraformCmd(a *app) *cobra.Command {
	var (
		outDir string
		labels string
	)
	cmd := &cobra.Command{
		Use:   "terraform",
		Short: "Write Terraform JSON for the KPI metric descriptors and dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.GCP.Project == "" {
				return errors.New("gcp.project is required (set CROSSMIX_GCP_PROJECT or gcp.project)")
			}
			extra, err := monitoring.ParseLabels(labels)
			if err != nil {
				return err
			}
			path, err := terraform.Write(terraform.Request{
				Project:      a.cfg.GCP.Project,
				MetricPrefix: a.cfg.GCP.MetricPrefix,
				Labels:       extra,
			}, outDir)
			if err != nil {
				return err
			}
			a.printer.Success("Wrote Terraform export to %s", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", filepath.Join("out", "terraform"), "output directory")
	cmd.Flags().StringVar(&labels, "labels", "", "extra labels in key=value,key=value format")
	return cmd
}
