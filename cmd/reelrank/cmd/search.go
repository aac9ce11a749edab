package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/app"
)

func newSearchCmd() *cobra.Command {
	var opts resultOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Free-text semantic search with typo correction",
		Long: `Search the catalog by free text.

The query is fuzzy-corrected against known titles first; if the
corrected query exactly matches a title, that movie ranks first.
Otherwise results are ranked purely by semantic similarity.

Examples:
  reelrank search "the matrx"
  reelrank search "space exploration drama" --limit 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.Load(cmd.Context(), cfg, app.Options{})
			if err != nil {
				return err
			}

			results, err := a.Engine.Search(query, opts.limit)
			if err != nil {
				return err
			}
			return opts.render(cmd, results)
		},
	}

	opts.register(cmd)
	return cmd
}
