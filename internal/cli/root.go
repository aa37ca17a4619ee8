// Package cli provides the command-line interface for dbmcp.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/dbmcp-go/internal/config"
	"github.com/raphaelgruber/dbmcp-go/internal/tools"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config, logger and tool dependencies
	cfg           config.Config
	logger        *slog.Logger
	deps          *tools.Dependencies
	cleanupLogger func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dbmcp",
	Short: "MCP server for relational databases and Redis",
	Long: `dbmcp exposes a relational database (MySQL, PostgreSQL, SQLite) and a Redis
server as MCP tools. Every tool answers with a JSON envelope:

  {"code": 200, "message": "success", "data": ...}

Connections are opened with the initDatabaseConnection and initRedisConnection
tools, or up front from the YAML file named by DBMCP_CONFIG.

Without a subcommand dbmcp serves MCP over stdio.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, cleanupLogger = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		deps = tools.NewDependencies(logger)

		if err := initConnections(cmd.Context(), cfg, deps, logger); err != nil {
			logger.Warn("configured connection failed, continuing without it", "error", err)
		}
		return nil
	},
	RunE: runServe,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cobra.OnFinalize(shutdown)

	// Add subcommands
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(toolsCmd)
}

// shutdown releases connections and the log file. It runs after every
// command, including failed ones.
func shutdown() {
	if deps != nil {
		if err := deps.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close connections: %v\n", err)
		}
		deps = nil
	}
	if cleanupLogger != nil {
		_ = cleanupLogger()
		cleanupLogger = nil
	}
}
