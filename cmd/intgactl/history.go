package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intga/pkg/intga"
)

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var (
		latest bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Print the best fitness of every generation of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var runID string
			if len(args) == 1 {
				runID = args[0]
			}
			client, err := opts.newClient(cmd.Context(), "", "")
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			history, err := client.FitnessHistory(cmd.Context(), intga.FitnessHistoryRequest{RunID: runID, Latest: latest, Limit: limit})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, history)
			}
			for gen, best := range history {
				fmt.Fprintf(out, "%d\t%.8f\n", gen, best)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "use the most recent run")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many generations")
	return cmd
}
