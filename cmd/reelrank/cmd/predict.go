package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/app"
	"github.com/reelrank/reelrank/internal/output"
	"github.com/reelrank/reelrank/internal/predict"
)

func newPredictCmd() *cobra.Command {
	var (
		budget     float64
		popularity float64
		runtime    float64
		year       int
		numGenres  int
		numCast    int
		weights    bool
		statsOut   bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a movie rating from its attributes",
		Long: `Estimate a rating (0-10) from numeric movie attributes using a
model fit on the catalog.

Examples:
  reelrank predict --budget 60000000 --popularity 80 --runtime 136 --year 1999 --genres 2 --cast 4
  reelrank predict --weights
  reelrank predict --stats`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.New(cmd.OutOrStdout())

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.Load(cmd.Context(), cfg, app.Options{})
			if err != nil {
				return err
			}

			if weights {
				return renderWeights(cmd, a)
			}
			if statsOut {
				return renderFeatureStats(cmd, a)
			}

			if errs := predict.ValidateRanges(budget, popularity, runtime, year, numGenres, numCast); len(errs) > 0 {
				for _, msg := range errs {
					out.Error(msg)
				}
				return fmt.Errorf("%d input value(s) out of range", len(errs))
			}

			rating, err := a.Predictor.Predict(budget, popularity, runtime, year, numGenres, numCast)
			if err != nil {
				return err
			}
			out.Successf("predicted rating: %.2f / 10", rating)
			return nil
		},
	}

	cmd.Flags().Float64Var(&budget, "budget", 0, "Production budget in dollars")
	cmd.Flags().Float64Var(&popularity, "popularity", 0, "Popularity score (0-1000)")
	cmd.Flags().Float64Var(&runtime, "runtime", 90, "Runtime in minutes (1-500)")
	cmd.Flags().IntVar(&year, "year", 2000, "Release year (1900-2030)")
	cmd.Flags().IntVar(&numGenres, "genres", 1, "Number of genres (1-10)")
	cmd.Flags().IntVar(&numCast, "cast", 1, "Number of credited cast members (1-50)")
	cmd.Flags().BoolVar(&weights, "weights", false, "Show per-feature model weights instead of predicting")
	cmd.Flags().BoolVar(&statsOut, "stats", false, "Show per-feature dataset statistics instead of predicting")
	return cmd
}

func renderWeights(cmd *cobra.Command, a *app.App) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(a.Predictor.FeatureWeights())
}

func renderFeatureStats(cmd *cobra.Command, a *app.App) error {
	stats := a.Predictor.Statistics()
	out := output.New(cmd.OutOrStdout())
	for _, name := range predict.FeatureNames() {
		s := stats[name]
		out.Statusf("", "%-13s min %.1f  max %.1f  mean %.1f  median %.1f",
			name, s.Min, s.Max, s.Mean, s.Median)
	}
	return nil
}
