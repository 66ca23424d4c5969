package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intga/pkg/intga"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print the config, best individuals and improvements of a run",
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

			detail, err := client.Describe(cmd.Context(), intga.DescribeRequest{RunID: runID, Latest: latest})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, detail)
			}
			cfg := detail.Config
			fmt.Fprintf(out, "run_id=%s problem=%s size=%d pop=%d crossover=%s mutation=%s rate=%g seed=%d\n",
				detail.RunID, cfg.Problem, cfg.Size, cfg.PopulationSize, cfg.Crossover, cfg.Mutation, cfg.MutationRate, cfg.Seed)
			fmt.Fprintf(out, "final_best_fitness=%.8f\n", detail.FinalBestFitness)
			for _, best := range detail.BestIndividuals {
				fmt.Fprintf(out, "best=%v\n", best)
			}
			for _, imp := range detail.Improvements {
				fmt.Fprintf(out, "improvement generation=%d fitness=%.8f\n", imp.Generation, imp.Fitness)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "show the most recent run")
	return cmd
}
