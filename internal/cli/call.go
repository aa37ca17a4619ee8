package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/dbmcp-go/internal/response"
	"github.com/raphaelgruber/dbmcp-go/internal/server"
)

// ErrToolFailed is returned when a tool answers with a non-success envelope.
var ErrToolFailed = errors.New("tool returned an error envelope")

var callCmd = &cobra.Command{
	Use:   "call <tool> [json-arguments]",
	Short: "Call one tool in-process and print its envelope",
	Long: `Call one tool through an in-memory MCP session and print the JSON envelope.

Connections declared in DBMCP_CONFIG are initialized first, so a config file
plus call is enough for one-off queries.

Examples:
  dbmcp call getServerStats
  dbmcp call initRedisConnection '{"host":"localhost","port":6379}'
  DBMCP_CONFIG=dbmcp.yaml dbmcp call executeSQL '{"sql":"SELECT 1"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCall,
}

func runCall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	arguments := map[string]any{}
	if len(args) == 2 && strings.TrimSpace(args[1]) != "" {
		if err := json.Unmarshal([]byte(args[1]), &arguments); err != nil {
			return fmt.Errorf("parse arguments: %w", err)
		}
	}

	session, err := server.New(Version, deps, logger).Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect in-memory session: %w", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: args[0], Arguments: arguments})
	if err != nil {
		return fmt.Errorf("call %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	for _, c := range result.Content {
		text, ok := c.(*mcp.TextContent)
		if !ok {
			continue
		}
		if isTerminal(out) {
			printEnvelope(cmd, text.Text)
			continue
		}
		fmt.Fprintln(out, text.Text)
	}

	if result.IsError {
		return ErrToolFailed
	}
	return nil
}

// printEnvelope pretty-prints an envelope with a colored status line.
func printEnvelope(cmd *cobra.Command, text string) {
	var env response.Envelope
	if err := json.Unmarshal([]byte(text), &env); err == nil {
		status := fmt.Sprintf("%d %s", env.Code, env.Message)
		if env.Code == response.Success {
			fmt.Fprintln(cmd.ErrOrStderr(), defaultTheme.successStyle().Render("✓ "+status))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), defaultTheme.errorStyle().Render("✗ "+status))
		}
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(text), "", "  "); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
}
