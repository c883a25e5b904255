package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/corpus"
)

func newCorpusStatsCommand() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "corpus-stats <corpus file>",
		Short: "Report character frequencies of a text corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			counts, err := corpus.CharacterStats(file)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if err := corpus.WriteStatsReport(out, counts); err != nil {
				return err
			}

			var total int64
			for _, c := range counts {
				total += int64(c.Count)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s distinct characters, %s total\n",
				humanize.Comma(int64(len(counts))), humanize.Comma(total))
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the report to a file instead of stdout")
	return cmd
}
