package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intga/pkg/intga"
)

func newProblemsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "List the registered problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := intga.Problems()
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, items)
			}
			for _, item := range items {
				fmt.Fprintf(out, "name=%s default_size=%d description=%q\n", item.Name, item.DefaultSize, item.Description)
			}
			return nil
		},
	}
}
