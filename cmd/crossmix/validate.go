package main

import (
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the dataset, plans and parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := a.loadDataset()
			if err != nil {
				return err
			}
			if _, err := a.parameters(); err != nil {
				return err
			}
			a.printer.Success("Dataset %s is valid: %d regions, %d channels, %d plans.",
				d.Name, len(d.RegionTable), len(d.ChannelTable), len(d.Plans))
			return nil
		},
	}
}
