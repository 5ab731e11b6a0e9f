// Package main provides the entrecon CLI, a reconciliation report generator
// for Google Workspace subscriptions.
package main

import (
	"fmt"
	"os"

	"github.com/entrecon/entrecon/cmd/entrecon/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "entrecon",
	Short: "Google Workspace entitlement reconciliation reports",
	Long: `entrecon reconciles Google Workspace subscriptions against the Google
entitlement service and renders the result as CSV or JSON.

Examples:
  entrecon generate --subscriptions subs.json --installations inst.json
  entrecon generate --subscriptions subs.json --installations inst.json \
      --format json --output report.json`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
