package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reelrank/reelrank/internal/app"
	reelerrors "github.com/reelrank/reelrank/internal/errors"
	"github.com/reelrank/reelrank/internal/output"
	"github.com/reelrank/reelrank/internal/search"
)

// resultOptions holds flags shared by the retrieval commands.
type resultOptions struct {
	limit  int
	format string // "text", "json"
}

func (o *resultOptions) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&o.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().StringVarP(&o.format, "format", "f", "text", "Output format: text, json")
}

// render writes results in the requested format.
func (o *resultOptions) render(cmd *cobra.Command, results []search.Result) error {
	if o.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	output.New(cmd.OutOrStdout()).Results(results)
	return nil
}

func newRecommendCmd() *cobra.Command {
	var opts resultOptions

	cmd := &cobra.Command{
		Use:   "recommend <title>",
		Short: "Recommend movies similar to a known title",
		Long: `Rank every other movie by content similarity to the given title.

The lookup is exact (case-insensitive): unknown titles fail rather than
being fuzzy-corrected. Use 'reelrank search' for typo-tolerant queries.

Examples:
  reelrank recommend "The Matrix"
  reelrank recommend "heat" --limit 5 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			out := output.New(cmd.OutOrStdout())

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := app.Load(cmd.Context(), cfg, app.Options{})
			if err != nil {
				return err
			}

			results, err := a.Engine.Recommend(title, opts.limit)
			if err != nil {
				if reelerrors.IsNotFound(err) {
					out.Errorf("no movie titled %q in the catalog", title)
				}
				return err
			}
			return opts.render(cmd, results)
		},
	}

	opts.register(cmd)
	return cmd
}
