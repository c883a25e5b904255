package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/report"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/pkg/kbopt"
)

func newFitnessCommand() *cobra.Command {
	var (
		runID  string
		latest bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "fitness",
		Short: "Show the best-fitness trajectory of a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()
			if err := client.Init(cmd.Context()); err != nil {
				return err
			}

			history, err := client.FitnessHistory(cmd.Context(), kbopt.FitnessHistoryRequest{
				RunID:  runID,
				Latest: latest,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s (%d generations)\n", history.RunID, len(history.Series))
			fmt.Fprintf(out, "%s\n", report.Sparkline(history.Series, 60))
			if len(history.Series) > 0 {
				fmt.Fprintf(out, "first %.6g  last %.6g\n", history.Series[0], history.Series[len(history.Series)-1])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "run id")
	cmd.Flags().BoolVar(&latest, "latest", false, "use the most recent run")
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the last N generations")
	return cmd
}
