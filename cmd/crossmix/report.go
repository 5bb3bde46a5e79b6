package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		inputs []string
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rank saved optimize results against each other",
		Long: `report reads optimize results written with --format json and writes a
ranked summary.json and summary.md.

  crossmix optimize -o json --out out/a.json --tv-split 75
  crossmix optimize -o json --out out/b.json --tv-split 85
  crossmix report --inputs out/a.json,out/b.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := splitCSV(strings.Join(inputs, ","))
			if len(paths) == 0 {
				return errors.New("--inputs is required")
			}
			runs, err := report.ReadOptimizeResults(paths)
			if err != nil {
				return err
			}
			agg, err := report.Aggregate(runs)
			if err != nil {
				return err
			}

			if err := report.WriteAggregateJSON(filepath.Join(outDir, "summary.json"), agg); err != nil {
				return err
			}
			if err := report.WriteAggregateMarkdown(filepath.Join(outDir, "summary.md"), agg); err != nil {
				return err
			}
			if err := a.printer.Scenarios(agg.Scenarios); err != nil {
				return err
			}
			a.printer.Success("Wrote report to %s", outDir)
			for _, warn := range agg.Errors {
				a.printer.Warning("%s", warn)
			}
			if len(agg.Errors) > 0 {
				return partial(errors.New("partial report"))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&inputs, "inputs", nil, "comma-separated optimize JSON results")
	cmd.Flags().StringVar(&outDir, "out", filepath.Join("out", "report"), "output directory")
	return cmd
}

func splitCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
