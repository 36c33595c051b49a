package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/stacks/internal/api"
)

var (
	searchLimit  int
	searchDomain string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over stored memories",
	Long: `Search runs an FTS5 full-text query over memory content, summaries,
paths, and tags, returning the most relevant nodes first.

Examples:
  stacks search "introduction"
  stacks search "neural networks" --limit 5
  stacks search history --domain research_notes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, svcs, err := setupServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svcs.Store.Close()

		results, err := svcs.Store.SearchMemories(ctx, args[0], searchLimit, searchDomain)
		if err != nil {
			return err
		}
		return api.Output(results)
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchDomain, "domain", "", "Restrict search to a domain (default: configured domain)")

	rootCmd.AddCommand(searchCmd)
}
