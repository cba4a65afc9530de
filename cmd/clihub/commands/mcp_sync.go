package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/paths"
)

var syncClient string

func init() {
	mcpSyncCmd.Flags().StringVar(&syncClient, "client", "",
		"sync only this client (default: all)")
	mcpCmd.AddCommand(mcpSyncCmd)
}

var mcpSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Write enabled servers to the client live files",
	Long: `Replace each client's MCP server section with the servers enabled for
it, leaving all other file content untouched.`,
	Example: `  # Sync every client
  clihub mcp sync

  # Sync just codex
  clihub mcp sync --client codex`,
	RunE: runMCPSync,
}

func runMCPSync(cmd *cobra.Command, _ []string) error {
	if syncClient != "" && !paths.ValidClient(syncClient) {
		return apperrors.NewUserError(
			fmt.Errorf("invalid client %q", syncClient),
			fmt.Sprintf("valid clients: %s", strings.Join(paths.Clients(), ", ")))
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if syncClient != "" {
		if err := a.svc.SyncEnabled(syncClient); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %s\n", syncClient)
		return nil
	}

	if err := a.svc.SyncAllEnabled(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Synced %s\n", strings.Join(paths.Clients(), ", "))
	return nil
}
