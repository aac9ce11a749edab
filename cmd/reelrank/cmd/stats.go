package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/app"
	"github.com/reelrank/reelrank/internal/output"
)

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long:  `Display catalog and index dimensions: movies, vocabulary, entities.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.Load(cmd.Context(), cfg, app.Options{})
			if err != nil {
				return err
			}

			stats := a.Engine.Stats()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			out := output.New(cmd.OutOrStdout())
			out.Statusf("", "movies:      %d", stats.Movies)
			out.Statusf("", "vocabulary:  %d terms", stats.Vocabulary)
			out.Statusf("", "actors:      %d", stats.Actors)
			out.Statusf("", "directors:   %d", stats.Directors)
			out.Statusf("", "companies:   %d", stats.Companies)
			out.Statusf("", "precomputed: %t", stats.Precomputed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
