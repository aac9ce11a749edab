package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/app"
	"github.com/reelrank/reelrank/internal/output"
)

func newIndexCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the catalog cache and indexes",
		Long: `Parse the dataset, cache the catalog, and build every index.

Later commands load the cached catalog instead of re-parsing the CSV.
Use --force to rebuild even when the cache matches the dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.New(cmd.OutOrStdout())

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out.Statusf("*", "Indexing %s", cfg.Dataset.Path)
			start := time.Now()

			a, err := app.Load(cmd.Context(), cfg, app.Options{ForceRebuild: force})
			if err != nil {
				out.Errorf("indexing failed: %v", err)
				return err
			}

			stats := a.Engine.Stats()
			out.Successf("Indexed %d movies in %s", stats.Movies, time.Since(start).Round(time.Millisecond))
			out.Statusf("", "vocabulary: %d terms", stats.Vocabulary)
			out.Statusf("", "entities: %d actors, %d directors, %d companies",
				stats.Actors, stats.Directors, stats.Companies)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rebuild the cache even if fresh")
	return cmd
}
