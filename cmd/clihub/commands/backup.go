package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	backupCmd.AddCommand(backupListCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export, import and list database backups",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var backupExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export the database as portable SQL text",
	Example: `  clihub backup export dump.sql`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.ExportSQL(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Restore the database from an SQL text dump",
	Long: `Replace the database contents with a previously exported dump.

The dump is staged and checked before anything is replaced, and an
automatic snapshot of the current database is taken first so the
restore can be undone.`,
	Example: `  clihub backup import dump.sql`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		backupID, err := a.store.ImportSQL(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored from %s (previous state saved as %s)\n",
			args[0], backupID)
		return nil
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List automatic database snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.store.ListBackups()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No backups yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tSIZE")
		for _, b := range backups {
			fmt.Fprintf(w, "%s\t%s\t%d\n",
				b.ID, b.ModTime.UTC().Format("2006-01-02 15:04:05"), b.Size)
		}
		return w.Flush()
	},
}
