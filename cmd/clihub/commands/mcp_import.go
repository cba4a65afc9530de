package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/clihub/clihub/internal/errors"
	"github.com/clihub/clihub/internal/paths"
)

var (
	importClient string
	importAll    bool
)

func init() {
	mcpImportCmd.Flags().StringVar(&importClient, "client", "",
		"client to import from")
	mcpImportCmd.Flags().BoolVar(&importAll, "all", false,
		"import from every client")
	mcpCmd.AddCommand(mcpImportCmd)
}

var mcpImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Pull servers from client live files into the store",
	Long: `Read a client's live configuration and add its MCP servers to the
canonical store.

Servers already in the store only get their enablement flag turned on;
their definitions are never overwritten. Entries that fail validation
are skipped and logged.`,
	Example: `  # Import from one client
  clihub mcp import --client claude

  # Import from all clients
  clihub mcp import --all`,
	RunE: runMCPImport,
}

func runMCPImport(cmd *cobra.Command, _ []string) error {
	if importAll == (importClient != "") {
		return apperrors.NewUserError(nil, "specify exactly one of --client or --all")
	}
	if importClient != "" && !paths.ValidClient(importClient) {
		return apperrors.NewUserError(
			fmt.Errorf("invalid client %q", importClient),
			fmt.Sprintf("valid clients: %s", strings.Join(paths.Clients(), ", ")))
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if importAll {
		counts, err := a.svc.ImportAll()
		for _, client := range paths.Clients() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d imported\n", client, counts[client])
		}
		return err
	}

	n, err := a.svc.Import(importClient)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d imported\n", importClient, n)
	return nil
}
