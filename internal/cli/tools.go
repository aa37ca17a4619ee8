package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/dbmcp-go/internal/server"
)

var toolsLong bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	Long: `List the tools the server registers.

Examples:
  dbmcp tools
  dbmcp tools --long`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().BoolVarP(&toolsLong, "long", "l", false, "include descriptions")
}

func runTools(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, err := server.New(Version, deps, logger).Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect in-memory session: %w", err)
	}
	defer session.Close()

	result, err := session.ListTools(ctx, nil)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	out := cmd.OutOrStdout()
	styled := isTerminal(out)
	for _, tool := range result.Tools {
		name := tool.Name
		if styled {
			name = defaultTheme.nameStyle().Render(name)
		}
		if !toolsLong {
			fmt.Fprintln(out, name)
			continue
		}
		desc := tool.Description
		if styled {
			desc = defaultTheme.hintStyle().Render(desc)
		}
		fmt.Fprintf(out, "%s\n  %s\n", name, desc)
	}
	return nil
}
