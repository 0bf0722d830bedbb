package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drinkstand",
	Short: "Drinkstand - order taking and shift reconciliation for a drink stand",
	Long: `Drinkstand records drink orders, splits each day's sales into the early
and late shifts, reconciles them against the cash drawer and keeps the
cup stock ledger.

Run it as a server for the order screens, or use the CLI commands to
prepare the database, close a day from cron and export monthly reports.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
