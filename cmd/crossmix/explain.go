package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bayneri/crossmix/internal/explain"
)

func newExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "explain <topic>",
		Short:     "Explain how a part of the model works",
		Long:      "Topics: " + strings.Join(explain.Topics(), ", "),
		ValidArgs: explain.Topics(),
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := explain.Topic(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, text)
			return err
		},
	}
}
