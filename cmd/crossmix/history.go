package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/monitoring"
	"github.com/bayneri/crossmix/internal/report"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		project    string
		start      string
		end        string
		last       string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the latest published KPIs per scenario",
		Long: `history reads back the points written by publish and shows the most
recent total ATC and lift of every scenario in the window.

  crossmix history --project my-project --last 24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if project == "" {
				project = a.cfg.GCP.Project
			}
			if strings.TrimSpace(project) == "" {
				return errMissingProject
			}
			flags := cmd.Flags()
			if (flags.Changed("start") || flags.Changed("end")) && !flags.Changed("last") {
				last = ""
			}
			window, err := monitoring.ParseWindow(monitoring.WindowOptions{
				Start: start,
				End:   end,
				Last:  last,
				Now:   time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			client, err := newMonitoringClient(cmd.Context(), a.cfg.GCP.CredentialsFile)
			if err != nil {
				return err
			}
			defer client.Close()
			res, err := monitoring.History(cmd.Context(), client, monitoring.HistoryRequest{
				Project:      project,
				MetricPrefix: a.cfg.GCP.MetricPrefix,
				Start:        window.Start,
				End:          window.End,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				data, err := report.MarshalJSON(res)
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(data)
				return err
			}
			if len(res.Items) == 0 {
				a.printer.Info("No KPIs published to %s between %s and %s", project,
					window.Start.Format(time.RFC3339), window.End.Format(time.RFC3339))
				return nil
			}
			t := a.printer.NewTable([]string{"Scenario", "Total ATC", "Lift", "Published"})
			for _, item := range res.Items {
				t.AddRow(item.Scenario, report.Number(item.TotalATC),
					a.printer.Delta(item.LiftPct, report.SignedPct(item.LiftPct, 2)),
					item.Published.Format(time.RFC3339))
			}
			return t.Render()
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "GCP project ID (default from gcp.project)")
	cmd.Flags().StringVar(&start, "start", "", "window start (RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "window end (RFC 3339)")
	cmd.Flags().StringVar(&last, "last", "24h", "window ending now, e.g. 90m or 168h")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
