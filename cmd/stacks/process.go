package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/stacks/internal/api"
	"github.com/jackzampolin/stacks/internal/ingest"
	"github.com/jackzampolin/stacks/internal/intelligence"
	"github.com/jackzampolin/stacks/internal/processor"
)

var (
	processPDF      string
	processAnalysis string
	processName     string
	processMeta     []string
)

var processCmd = &cobra.Command{
	Use:   "process <pages-dir>",
	Short: "Process a document's extracted pages into the knowledge graph",
	Long: `Process reads page text files (page_0000.txt, page_0001.txt, ...) from a
directory, detects and parses the table of contents, and persists the
document, its pages, and its sections as linked graph nodes.

An optional --analysis file supplies per-page semantic summaries and
ontology tags produced by an external analyzer. An optional --pdf points
at the original file to recover the true page count.

Examples:
  stacks process ./handbook-pages --pdf handbook.pdf
  stacks process ./pages --analysis analysis.json --meta author="J. Smith"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, svcs, err := setupServices(cmd.Context())
		if err != nil {
			return err
		}
		defer svcs.Store.Close()

		pages, err := ingest.LoadPages(args[0])
		if err != nil {
			return err
		}

		doc := processor.Document{
			Name:      processName,
			PageCount: len(pages),
			Pages:     pages,
			Info:      ingest.DeriveInfo(pages),
		}
		if doc.Name == "" {
			doc.Name = filepath.Base(args[0])
		}

		if processPDF != "" {
			count, err := ingest.PageCount(processPDF)
			if err != nil {
				return err
			}
			doc.PageCount = count
			if processName == "" {
				doc.Name = filepath.Base(processPDF)
			}
		}

		if processAnalysis != "" {
			analysis, err := ingest.LoadAnalysis(processAnalysis)
			if err != nil {
				return err
			}
			doc.Analysis = analysis
		}

		overrides, err := parseMetaFlags(processMeta)
		if err != nil {
			return err
		}

		intel, err := intelligence.FromConfig(svcs.ConfigManager.Get().ToIntelligenceConfig())
		if err != nil {
			return err
		}

		proc := processor.New(svcs.Store, intel, svcs.Logger)
		result, err := proc.Process(ctx, doc, overrides)
		if err != nil {
			return err
		}

		return api.Output(result)
	},
}

// parseMetaFlags turns repeated key=value flags into a metadata map.
func parseMetaFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --meta value %q (want key=value)", pair)
		}
		meta[key] = value
	}
	return meta, nil
}

func init() {
	processCmd.Flags().StringVar(&processPDF, "pdf", "", "Original PDF file (used for page count and name)")
	processCmd.Flags().StringVar(&processAnalysis, "analysis", "", "Per-page semantic analysis JSON file")
	processCmd.Flags().StringVar(&processName, "name", "", "Document name (default: pages dir or PDF basename)")
	processCmd.Flags().StringArrayVar(&processMeta, "meta", nil, "Metadata override key=value (repeatable)")

	rootCmd.AddCommand(processCmd)
}
