package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/internal/paths"
)

var mcpListJSON bool

func init() {
	mcpListCmd.Flags().BoolVar(&mcpListJSON, "json", false, "Output in JSON format")
	mcpCmd.AddCommand(mcpListCmd)
}

var mcpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List MCP servers and their per-client state",
	Example: `  # List all servers
  clihub mcp list

  # Output as JSON
  clihub mcp list --json`,
	RunE: runMCPList,
}

func runMCPList(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	servers, err := a.store.ListServers()
	if err != nil {
		return err
	}

	sorted := make([]*mcp.Server, 0, len(servers))
	for _, srv := range servers {
		sorted = append(sorted, srv)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	if mcpListJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sorted)
	}

	if len(sorted) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No MCP servers configured.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTARGET\tCLIENTS")
	for _, srv := range sorted {
		target := srv.Spec.Command
		if srv.Spec.IsRemote() {
			target = srv.Spec.URL
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			srv.ID, srv.Spec.EffectiveType(), target, enabledClients(srv))
	}
	return w.Flush()
}

func enabledClients(srv *mcp.Server) string {
	out := ""
	for _, client := range paths.Clients() {
		if !srv.Apps.Enabled(client) {
			continue
		}
		if out != "" {
			out += ","
		}
		out += client
	}
	if out == "" {
		return "-"
	}
	return out
}
