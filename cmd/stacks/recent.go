package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/stacks/internal/api"
)

var (
	recentLimit  int
	recentDomain string
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently stored memories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, svcs, err := setupServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svcs.Store.Close()

		nodes, err := svcs.Store.RecentMemories(ctx, recentLimit, recentDomain)
		if err != nil {
			return err
		}
		return api.Output(nodes)
	},
}

func init() {
	recentCmd.Flags().IntVar(&recentLimit, "limit", 10, "Maximum number of results")
	recentCmd.Flags().StringVar(&recentDomain, "domain", "", "Restrict listing to a domain (default: configured domain)")

	rootCmd.AddCommand(recentCmd)
}
