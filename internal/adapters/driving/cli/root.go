// Package cli implements the chpl command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/logger"
)

// Build information, set through SetVersionInfo from main.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootFlags holds the values bound to the root command's flags.
var rootFlags struct {
	query      string
	folder     string
	dataDir    string
	configPath string
	verbose    bool
	topK       int
	pairing    string
	fieldMode  string
	threshold  float64
	report     bool
}

var rootCmd = &cobra.Command{
	Use:   "chpl",
	Short: "Search medicinal product leaflets",
	Long: `chpl reads a folder of medicinal product leaflets (SmPC documents) and
either ranks them against an indication query or, for every leaflet in a second
folder, lists the most similar corpus products by composition and indications.

Examples:
  chpl -q "gorączka"
  chpl -f ./new-leaflets --data ./data
  chpl -f ./new-leaflets --pairing filename --field indications`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(rootFlags.verbose)
	},
	RunE: runRoot,
}

func init() {
	rootCmd.Flags().StringVarP(&rootFlags.query, "query", "q", "", "lexical search over the corpus")
	rootCmd.Flags().StringVarP(&rootFlags.folder, "file", "f", "", "folder of new documents for similarity ranking")
	rootCmd.Flags().BoolVar(&rootFlags.report, "report", false, "print the processing report on stderr")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.dataDir, "data", "", "corpus folder (default from config corpus.dir)")
	pf.StringVar(&rootFlags.configPath, "config", "", "config file path (default ~/.chpl/config.toml)")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug output on stderr")
	pf.IntVar(&rootFlags.topK, "top-k", domain.DefaultSettings().Search.TopK, "candidate over-fetch per field")
	pf.StringVar(&rootFlags.pairing, "pairing", "", "candidate pairing: positional or filename")
	pf.StringVar(&rootFlags.fieldMode, "field", "", "similarity fields: both, composition or indications")
	pf.Float64Var(&rootFlags.threshold, "threshold", 0, "lexical display threshold (strict >)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo records build information for the version command.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

func runRoot(cmd *cobra.Command, _ []string) error {
	if rootFlags.query == "" && rootFlags.folder == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Error")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// The query takes precedence when both modes are given.
	withEmbedding := rootFlags.query == ""
	a, err := newApp(cmd, withEmbedding)
	if err != nil {
		return err
	}
	defer a.Close()

	if rootFlags.query != "" {
		return runQuery(ctx, cmd, a)
	}
	return runSimilarity(ctx, cmd, a)
}

func runQuery(ctx context.Context, cmd *cobra.Command, a *app) error {
	logger.Section("Lexical search")

	results, err := a.catalog.Search(ctx, rootFlags.query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	corpus := a.catalog.Report()
	reportCorpus(cmd, corpus)

	printLexical(cmd.OutOrStdout(), results, a.settings.Search.Threshold)
	return nil
}

func runSimilarity(ctx context.Context, cmd *cobra.Command, a *app) error {
	logger.Section("Similarity search")

	docs, report, err := a.catalog.LoadDocuments(ctx, rootFlags.folder)
	if err != nil {
		return fmt.Errorf("load %s: %w", rootFlags.folder, err)
	}
	reportCorpus(cmd, report)
	if report.InvalidPath {
		return nil
	}

	groups, err := a.catalog.RankSimilar(ctx, docs)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return fmt.Errorf("similarity search needs an embedding provider: %w", err)
		}
		return fmt.Errorf("similarity search failed: %w", err)
	}
	reportCorpus(cmd, a.catalog.Report())

	printSimilarity(cmd.OutOrStdout(), groups)
	return nil
}

// reportCorpus prints the invalid path message on stdout and, with --report,
// the processing report on stderr.
func reportCorpus(cmd *cobra.Command, report *domain.ProcessingReport) {
	if report == nil {
		return
	}
	if report.InvalidPath {
		printInvalidPath(cmd.OutOrStdout())
	}
	if rootFlags.report {
		printReport(cmd.ErrOrStderr(), report, isTerminal(cmd.ErrOrStderr()))
	}
}
