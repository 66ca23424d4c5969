package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"intga/pkg/intga"
)

func newRunsCmd(opts *globalOptions) *cobra.Command {
	var (
		limit         int
		fromArtifacts bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := opts.newClient(cmd.Context(), "", "")
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			items, err := client.Runs(cmd.Context(), intga.RunsRequest{Limit: limit, FromArtifacts: fromArtifacts})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}
			for _, item := range items {
				fmt.Fprintf(out, "run_id=%s created=%q problem=%s size=%d seed=%d pop=%d gens=%s final_best_fitness=%.6f target_reached=%t\n",
					item.RunID,
					humanize.Time(item.CreatedAt),
					item.Problem,
					item.Size,
					item.Seed,
					item.Population,
					humanize.Comma(int64(item.Generations)),
					item.FinalBestFitness,
					item.TargetReached,
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	cmd.Flags().BoolVar(&fromArtifacts, "from-artifacts", false, "list the artifact run index instead of the store")
	return cmd
}
