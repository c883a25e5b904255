package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/typingdata"
)

func newMergeTimingsCommand() *cobra.Command {
	var (
		outPath    string
		jsonColumn string
	)

	cmd := &cobra.Command{
		Use:   "merge-timings <csv file>...",
		Short: "Merge several typing data CSVs into one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]*os.File, 0, len(args))
			defer func() {
				for _, f := range files {
					_ = f.Close()
				}
			}()
			readers := make([]io.Reader, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				files = append(files, f)
				readers = append(readers, f)
			}

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer out.Close()

			merged, err := typingdata.MergeCSVs(out, jsonColumn, readers...)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "merged %s records into %s\n",
				humanize.Comma(int64(merged)), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "merged_typing_data.csv", "output CSV path")
	cmd.Flags().StringVar(&jsonColumn, "json-column", "", "CSV column holding the JSON payload (default typing_data)")
	return cmd
}
