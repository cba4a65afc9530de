package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Manage MCP server definitions",
	Long: `Manage the canonical MCP server definitions and keep them in sync
with the live client configuration files.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
