package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/pkg/kbopt"
)

func newExportCommand() *cobra.Command {
	var (
		runID  string
		latest bool
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy a run's artifacts into an export directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()
			if err := client.Init(cmd.Context()); err != nil {
				return err
			}

			summary, err := client.Export(cmd.Context(), kbopt.ExportRequest{
				RunID:  runID,
				Latest: latest,
				OutDir: outDir,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported run %s to %s\n", summary.RunID, summary.Directory)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run id")
	cmd.Flags().BoolVar(&latest, "latest", false, "export the most recent run")
	cmd.Flags().StringVar(&outDir, "out", "exports", "export directory")
	return cmd
}
