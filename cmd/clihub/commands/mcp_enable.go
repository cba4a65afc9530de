package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/paths"
)

var (
	enableClient  string
	disableClient string
)

func init() {
	mcpEnableCmd.Flags().StringVar(&enableClient, "client", "",
		"client to enable the server for (required)")
	_ = mcpEnableCmd.MarkFlagRequired("client")
	mcpCmd.AddCommand(mcpEnableCmd)

	mcpDisableCmd.Flags().StringVar(&disableClient, "client", "",
		"client to disable the server for (required)")
	_ = mcpDisableCmd.MarkFlagRequired("client")
	mcpCmd.AddCommand(mcpDisableCmd)
}

var mcpEnableCmd = &cobra.Command{
	Use:   "enable <id>",
	Short: "Enable an MCP server for a client",
	Example: `  clihub mcp enable fs --client codex`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPToggle(cmd, args[0], enableClient, true)
	},
}

var mcpDisableCmd = &cobra.Command{
	Use:   "disable <id>",
	Short: "Disable an MCP server for a client",
	Example: `  clihub mcp disable fs --client codex`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPToggle(cmd, args[0], disableClient, false)
	},
}

func runMCPToggle(cmd *cobra.Command, id, client string, enabled bool) error {
	if !paths.ValidClient(client) {
		return apperrors.NewUserError(
			fmt.Errorf("invalid client %q", client),
			fmt.Sprintf("valid clients: %s", strings.Join(paths.Clients(), ", ")))
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	existed, err := a.svc.Toggle(id, client, enabled)
	if err != nil {
		return err
	}
	if !existed {
		return apperrors.NewUserError(
			fmt.Errorf("no server with id %q", id),
			"run 'clihub mcp list' to see configured servers")
	}

	if err := a.svc.SyncEnabled(client); err != nil {
		return err
	}

	state := "Disabled"
	if enabled {
		state = "Enabled"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s for %s\n", state, id, client)
	return nil
}
