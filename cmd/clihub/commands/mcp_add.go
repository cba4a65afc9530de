package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/mcp"
)

var (
	addID      string
	addName    string
	addType    string
	addCommand string
	addArgs    []string
	addCwd     string
	addEnv     []string
	addURL     string
	addHeaders []string
	addClients []string
)

func init() {
	mcpAddCmd.Flags().StringVar(&addID, "id", "", "Server id (required)")
	mcpAddCmd.Flags().StringVar(&addName, "name", "", "Display name (default: id)")
	mcpAddCmd.Flags().StringVar(&addType, "type", "", "Transport: stdio, http, sse (default: stdio)")
	mcpAddCmd.Flags().StringVar(&addCommand, "command", "", "Executable for stdio servers")
	mcpAddCmd.Flags().StringArrayVar(&addArgs, "arg", nil, "Command argument (repeatable)")
	mcpAddCmd.Flags().StringVar(&addCwd, "cwd", "", "Working directory for the server process")
	mcpAddCmd.Flags().StringArrayVar(&addEnv, "env", nil, "Environment variable KEY=VALUE (repeatable)")
	mcpAddCmd.Flags().StringVar(&addURL, "url", "", "Endpoint for http/sse servers")
	mcpAddCmd.Flags().StringArrayVar(&addHeaders, "header", nil, "HTTP header KEY=VALUE (repeatable)")
	mcpAddCmd.Flags().StringSliceVar(&addClients, "client", nil, "Enable for client(s): claude, codex, gemini")
	_ = mcpAddCmd.MarkFlagRequired("id")
	mcpCmd.AddCommand(mcpAddCmd)
}

var mcpAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace an MCP server",
	Long: `Add a server to the canonical store, or fully replace one with the
same id. Enabled clients are synced immediately.`,
	Example: `  # Local stdio server
  clihub mcp add --id fs --command npx --arg -y --arg server-fs --client claude

  # Remote HTTP server
  clihub mcp add --id api --type http --url https://example.com/mcp`,
	RunE: runMCPAdd,
}

func runMCPAdd(cmd *cobra.Command, _ []string) error {
	env, err := parseKeyValues(addEnv)
	if err != nil {
		return err
	}
	headers, err := parseKeyValues(addHeaders)
	if err != nil {
		return err
	}

	srv := &mcp.Server{
		ID:   addID,
		Name: addName,
		Spec: &mcp.Spec{
			Type:    addType,
			Command: addCommand,
			Args:    addArgs,
			Cwd:     addCwd,
			Env:     env,
			URL:     addURL,
			Headers: headers,
		},
	}
	if srv.Name == "" {
		srv.Name = srv.ID
	}
	for _, client := range addClients {
		srv.Apps.SetEnabled(client, true)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.Upsert(srv); err != nil {
		return err
	}
	if err := a.svc.SyncAllEnabled(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", srv.ID)
	return nil
}

func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, apperrors.NewUserError(nil,
				fmt.Sprintf("expected KEY=VALUE, got %q", pair))
		}
		out[key] = value
	}
	return out, nil
}
