package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/monitoring"
	"github.com/bayneri/crossmix/internal/optimizer"
)

type monitoringClient interface {
	monitoring.Client
	monitoring.Reader
	Close() error
}

var errMissingProject = errors.New("project is required via --project or gcp.project")

// newMonitoringClient is replaced in tests.
var newMonitoringClient = func(ctx context.Context, credentialsFile string) (monitoringClient, error) {
	client, err := monitoring.NewGCPClient(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newPublishCmd(a *app) *cobra.Command {
	var (
		project   string
		scenario  string
		labels    string
		dashboard bool
		remove    bool
		dryRun    bool
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the scenario KPIs to Cloud Monitoring",
		Long: `publish computes the current control position and writes total ATC, lift,
gain and per-layer spend and ATC as custom metric points. --dashboard
also creates or updates the KPI dashboard; --delete removes dashboards
managed by crossmix instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if project == "" {
				project = a.cfg.GCP.Project
			}
			if strings.TrimSpace(project) == "" {
				return errMissingProject
			}
			extra, err := monitoring.ParseLabels(labels)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if remove {
				if dryRun {
					a.printer.Info("Delete would remove crossmix dashboards in project %s", project)
					return nil
				}
				client, err := newMonitoringClient(ctx, a.cfg.GCP.CredentialsFile)
				if err != nil {
					return err
				}
				defer client.Close()
				if err := client.DeleteManagedDashboards(ctx, monitoring.DeleteRequest{
					Project: project,
					Labels:  monitoring.ManagedLabels(extra),
				}); err != nil {
					return err
				}
				a.printer.Success("Deleted managed dashboards in project %s", project)
				return nil
			}

			d, base, err := a.loadDataset()
			if err != nil {
				return err
			}
			params, err := a.parameters()
			if err != nil {
				return err
			}
			res := optimizer.Compute(base, d, params, a.cfg.OptimizerOptions())
			points := monitoring.KPIsFromResult(res)
			if dryRun {
				a.printer.Info("Publish would write %d points to project %s", len(points), project)
				return nil
			}

			client, err := newMonitoringClient(ctx, a.cfg.GCP.CredentialsFile)
			if err != nil {
				return err
			}
			defer client.Close()
			err = monitoring.Publish(ctx, client, res, monitoring.PublishRequest{
				Project:      project,
				MetricPrefix: a.cfg.GCP.MetricPrefix,
				Scenario:     scenario,
				Labels:       extra,
				Dashboard:    dashboard,
				At:           time.Now(),
			})
			if err != nil {
				return err
			}
			a.printer.Success("Published %d KPI points for scenario %q to project %s", len(points), scenario, project)
			if dashboard {
				a.printer.Info("Cloud Console: https://console.cloud.google.com/monitoring/dashboards?project=%s", project)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "GCP project ID (default from gcp.project)")
	cmd.Flags().StringVar(&scenario, "scenario", "default", "scenario label on the points")
	cmd.Flags().StringVar(&labels, "labels", "", "extra labels in key=value,key=value format")
	cmd.Flags().BoolVar(&dashboard, "dashboard", false, "also apply the KPI dashboard")
	cmd.Flags().BoolVar(&remove, "delete", false, "delete managed dashboards instead of publishing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be written without calling the API")
	addParameterFlags(cmd)
	return cmd
}
