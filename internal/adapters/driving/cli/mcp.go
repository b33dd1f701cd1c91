package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chpl-search/internal/adapters/driven/watcher"
	"github.com/custodia-labs/chpl-search/internal/adapters/driving/mcp"
	"github.com/custodia-labs/chpl-search/internal/core/domain"
	"github.com/custodia-labs/chpl-search/internal/core/ports/driven"
	"github.com/custodia-labs/chpl-search/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Tools:
  search_indication  rank corpus leaflets against an indication query
  find_similar       rank corpus leaflets against a folder of new leaflets

Use --http to serve streamable HTTP instead, and --watch to reload the
corpus whenever a leaflet in the corpus folder changes.

Examples:
  # Stdio mode (default)
  chpl mcp serve --data ./data

  # HTTP mode with live reload
  chpl mcp serve --http :8080 --watch`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().String("http", "", "HTTP listen address (empty = use stdio)")
	mcpServeCmd.Flags().Bool("watch", false, "reload the corpus when its folder changes")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return fmt.Errorf("getting watch flag: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := mcp.NewServer(&mcp.Ports{Catalog: a.catalog}, mcp.Options{
		Threshold: a.settings.Search.Threshold,
	})
	if err != nil {
		return err
	}

	if watch {
		var w driven.CorpusWatcher = watcher.New(a.settings.Corpus.Extensions, watcher.DefaultDebounce)
		defer w.Close()
		changes, err := w.Watch(ctx, a.settings.Corpus.Dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", a.settings.Corpus.Dir, err)
		}
		go reloadOnChange(ctx, changes, a.catalog)
	}

	if addr != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// reloader rebuilds the corpus.
type reloader interface {
	Reload(ctx context.Context) (*domain.ProcessingReport, error)
}

// reloadOnChange rebuilds the corpus once per batch of changed paths until
// changes is closed.
func reloadOnChange(ctx context.Context, changes <-chan string, r reloader) {
	for path := range changes {
		logger.Info("corpus changed: %s", path)
		drain(changes)

		report, err := r.Reload(ctx)
		if err != nil {
			logger.Warn("reload corpus: %v", err)
			continue
		}
		logger.Info("corpus reloaded: %d loaded, %d skipped", report.Loaded(), report.Skipped())
	}
}

// drain discards paths already queued so a burst triggers one reload.
func drain(changes <-chan string) {
	for {
		select {
		case path, ok := <-changes:
			if !ok {
				return
			}
			logger.Debug("corpus changed: %s", path)
		default:
			return
		}
	}
}
