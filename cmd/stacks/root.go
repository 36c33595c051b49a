package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/stacks/internal/api"
	"github.com/jackzampolin/stacks/internal/config"
	"github.com/jackzampolin/stacks/internal/home"
	"github.com/jackzampolin/stacks/internal/memory"
	"github.com/jackzampolin/stacks/internal/svcctx"
	"github.com/jackzampolin/stacks/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "stacks",
	Short: "Document knowledge-graph builder from PDF tables of contents",
	Long: `Stacks turns extracted document pages into a searchable knowledge graph.

It detects and parses the table of contents from page text, derives the
section hierarchy, and persists documents, pages, and sections as graph
nodes linked by part_of, precedes, and contains edges. Full-text search
runs over everything stored.

Typical flow:
  stacks init                       # create ~/.stacks and default config
  stacks process ./pages --pdf b.pdf
  stacks search "chapter three"`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.stacks/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "stacks home directory (default: ~/.stacks)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// setupServices builds the logger, home dir, config, and connected store,
// and attaches them to the command context. Callers must Close the returned
// store when done.
func setupServices(ctx context.Context) (context.Context, *svcctx.Services, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	h, err := home.New(homeDir)
	if err != nil {
		return ctx, nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return ctx, nil, err
	}

	cfgPath := cfgFile
	if cfgPath == "" && h.ConfigExists() {
		cfgPath = h.ConfigPath()
	}
	cm, err := config.NewManager(cfgPath)
	if err != nil {
		return ctx, nil, err
	}

	store := memory.NewStore(cm.Get().ToMemoryConfig(h.MemoryDBPath()))
	if err := store.Connect(ctx); err != nil {
		return ctx, nil, err
	}

	svcs := &svcctx.Services{
		Store:         store,
		ConfigManager: cm,
		Logger:        logger,
		Home:          h,
	}
	return svcctx.WithServices(ctx, svcs), svcs, nil
}
