package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/layout"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/observability"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/report"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/pkg/kbopt"
)

func newOptimizeCommand() *cobra.Command {
	var req kbopt.OptimizeRequest

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Evolve a layout from a text corpus and measured typing data",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			defer client.Close()
			if err := client.Init(cmd.Context()); err != nil {
				return err
			}

			logger := observability.GetLogger()
			logger.Info("starting optimization",
				zap.String("corpus", req.CorpusPath),
				zap.String("typing_data", req.TypingCSVPath),
				zap.Int("population", req.Population),
				zap.Int("generations", req.Generations),
				zap.Int64("seed", req.Seed),
			)

			summary, err := client.Optimize(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s\n", summary.RunID)
			if summary.SkippedRecords > 0 {
				fmt.Fprintf(out, "skipped %s malformed typing records\n", humanize.Comma(int64(summary.SkippedRecords)))
			}
			fmt.Fprintf(out, "generations: %s  evaluations: %s\n",
				humanize.Comma(int64(len(summary.BestByGeneration))),
				humanize.Comma(int64((len(summary.BestByGeneration)+1)*req.Population)),
			)
			fmt.Fprintf(out, "fitness  %s\n", report.Sparkline(summary.BestByGeneration, 60))
			fmt.Fprintf(out, "baseline cost %.3f -> best cost %.3f (%.2f%% improvement)\n",
				summary.BaselineCost, summary.BestCost, summary.ImprovementPct)
			fmt.Fprintln(out)
			fmt.Fprintln(out, layout.Canonical().FormatASCII(summary.BestLayout))
			fmt.Fprintf(out, "\nartifacts: %s\n", summary.ArtifactsDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CorpusPath, "corpus", "", "path to the text corpus (required)")
	cmd.Flags().StringVar(&req.TypingCSVPath, "typing-data", "", "path to the typing data CSV (required)")
	cmd.Flags().StringVar(&req.JSONColumn, "json-column", "", "CSV column holding the JSON payload (default typing_data)")
	cmd.Flags().IntVar(&req.Population, "population", 200, "population size")
	cmd.Flags().IntVar(&req.Generations, "generations", 300, "number of generations")
	cmd.Flags().Float64Var(&req.MutationRate, "mutation-rate", 0.1, "per-offspring swap mutation probability")
	cmd.Flags().Float64Var(&req.CrossoverRate, "crossover-rate", 0.7, "parent pair recombination probability")
	cmd.Flags().IntVar(&req.EliteCount, "elite", 5, "elites copied unchanged each generation")
	cmd.Flags().IntVar(&req.TournamentSize, "tournament", 3, "tournament selection sample size")
	cmd.Flags().IntVar(&req.Workers, "workers", 4, "parallel fitness evaluation workers")
	cmd.Flags().Int64Var(&req.Seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&req.CostOrder, "order", "bi", "cost n-gram order: uni, bi, or tri")
	cmd.Flags().BoolVar(&req.UseTrigrams, "use-trigrams", false, "enable trigram cost contributions")
	cmd.Flags().BoolVar(&req.FallbackToUnigrams, "fallback-unigrams", true, "back off missing n-gram timings to unigram sums")
	cmd.Flags().StringVar(&req.Subset, "subset", "", "restrict evolution to letters, digits, or symbols")
	_ = cmd.MarkFlagRequired("corpus")
	_ = cmd.MarkFlagRequired("typing-data")

	return cmd
}
