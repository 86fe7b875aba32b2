// Devinv is a terminal dashboard for a device inventory REST API.
//
// It lists, filters, sorts and pages the inventory, shows status and type
// statistics, and adds, edits and deletes devices. The same operations are
// available as scriptable subcommands.
//
// Usage:
//
//	devinv [command] [flags]
//
// Running without arguments launches the full-screen dashboard.
// See 'devinv --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/devinv/internal/logging"
	"github.com/muurk/devinv/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devinv",
	Short: "Device inventory dashboard",
	Long: `A terminal client for the device inventory API.

Shows the inventory as a paginated, filterable table with status and type
charts, and lets you add, edit and delete devices. Every operation is also
available as a subcommand for scripting.

If no command is specified, the interactive dashboard will launch automatically.`,
	Version:           version.Version,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the dashboard when no subcommand provided
		return runDashboard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "devinv %s (commit: %s)\n", version.Version, version.Commit)
	},
}
