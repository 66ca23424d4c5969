package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intga/pkg/intga"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		latest bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Copy the artifacts of a run to the exports directory",
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

			exported, err := client.Export(cmd.Context(), intga.ExportRequest{RunID: runID, Latest: latest, OutDir: outDir})
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return printJSON(cmd.OutOrStdout(), exported)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported run_id=%s dir=%s\n", exported.RunID, exported.Directory)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "export the most recent run")
	cmd.Flags().StringVar(&outDir, "out", "", "destination directory (default --exports-dir)")
	return cmd
}
