package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/dataset"
	"github.com/bayneri/crossmix/internal/importer"
	"github.com/bayneri/crossmix/internal/report"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		csvPath      string
		name         string
		outPath      string
		warningsPath string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Convert a client plan CSV into a plans file",
		Long: `import reads a CSV with channel, region, spend and genre columns and stores
it as a named plan. Existing plans in the output file are kept.

  crossmix import --csv plan.csv --name q3 --out plans.yaml
  crossmix compare --plans plans.yaml --plan q3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(csvPath) == "" {
				return errors.New("--csv is required")
			}
			d, err := dataset.LoadOrDefault(a.cfg.Dataset.Path)
			if err != nil {
				return err
			}
			res, err := importer.ImportFile(csvPath, importer.Options{Name: name, Aliases: d.Aliases()})
			if err != nil {
				return err
			}

			path := outPath
			if strings.TrimSpace(path) == "" {
				path = filepath.Join("out", "import", "plans.yaml")
			}
			if err := importer.Write(path, res); err != nil {
				return err
			}
			a.printer.Success("Wrote plan %q (%d channels) to %s", res.Name, len(res.Plan), path)

			for _, warn := range res.Warnings {
				a.printer.Warning("%s", warn)
			}
			if len(res.Warnings) == 0 {
				return nil
			}
			if warningsPath != "" {
				if err := report.WriteWarningsMarkdown(warningsPath, "Import warnings", res.Warnings); err != nil {
					return err
				}
			}
			return partial(errors.New("partial import"))
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "plan CSV with channel,region,spend,genre columns")
	cmd.Flags().StringVar(&name, "name", "", "name to store the plan under")
	cmd.Flags().StringVar(&outPath, "out", "", "plans file to write (default out/import/plans.yaml)")
	cmd.Flags().StringVar(&warningsPath, "warnings", "", "also write skipped rows to this markdown file")
	return cmd
}
