package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/clihub/clihub/internal/errors"
)

func init() {
	mcpCmd.AddCommand(mcpRemoveCmd)
}

var mcpRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an MCP server",
	Long: `Delete a server from the canonical store and remove it from every
client's live file.`,
	Args: cobra.ExactArgs(1),
	RunE: runMCPRemove,
}

func runMCPRemove(cmd *cobra.Command, args []string) error {
	id := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	existed, err := a.svc.Remove(id)
	if err != nil {
		return err
	}
	if !existed {
		return apperrors.NewUserError(
			fmt.Errorf("no server with id %q", id),
			"run 'clihub mcp list' to see configured servers")
	}

	if err := a.svc.SyncAllEnabled(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
	return nil
}
