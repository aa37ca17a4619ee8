package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raphaelgruber/dbmcp-go/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdio (default)",
	Long: `Serve MCP over stdio until the client disconnects or the process receives
SIGINT/SIGTERM.

Register it with an MCP client, for example:
  {"command": "dbmcp", "args": ["serve"]}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Warn("stdin is a terminal; serve expects an MCP client on stdio")
	}

	logger.Info("dbmcp starting",
		"version", Version,
		"log_file", cfg.LogFile,
		"config_file", cfg.ConfigFile,
		"sql_ready", deps.SQL.Ready(),
		"redis_ready", deps.KV.Ready(),
	)

	srv := server.New(Version, deps, logger)
	logger.Info("server ready, awaiting connections")

	// Run server (blocks until disconnect or context cancelled)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		return err
	}

	if ctx.Err() != nil {
		logger.Info("received shutdown signal")
	}
	logger.Info("shutdown complete")
	return nil
}
