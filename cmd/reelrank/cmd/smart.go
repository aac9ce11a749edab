package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/app"
)

func newSmartCmd() *cobra.Command {
	var (
		opts      resultOptions
		actors    string
		directors string
	)

	cmd := &cobra.Command{
		Use:   "smart [title]",
		Short: "Entity-filtered search by actors and directors",
		Long: `Search restricted to movies matching every given actor and director.

Names are comma-separated and typo-corrected individually. Filters that
match nothing fall back to plain semantic search instead of returning
an empty list. The title may be omitted to browse by entities alone.

Examples:
  reelrank smart "sci-fi heist" --actors "Leonardo DiCaprio"
  reelrank smart --actors "keanu reves" --directors "chad stahelski"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.Load(cmd.Context(), cfg, app.Options{})
			if err != nil {
				return err
			}

			results, err := a.Engine.SearchFiltered(title, actors, directors, opts.limit)
			if err != nil {
				return err
			}
			return opts.render(cmd, results)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&actors, "actors", "a", "", "Comma-separated actor names (all must match)")
	cmd.Flags().StringVarP(&directors, "directors", "d", "", "Comma-separated director names (all must match)")
	return cmd
}
