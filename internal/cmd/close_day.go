package cmd

import (
	"fmt"

	"github.com/matthieukhl/drinkstand/internal/client"
	"github.com/spf13/cobra"
)

var (
	closeDate   string
	closeServer string
)

var closeDayCmd = &cobra.Command{
	Use:   "close-day",
	Short: "Record the cups used on a day through the running server",
	Long: `Calls the auto-close endpoint of a running drinkstand server. Without
--date the server closes yesterday in the business time zone.

Closing is idempotent: running the command again for a closed day
reports success and changes nothing, so it is safe to schedule from cron.`,
	RunE: closeDay,
}

func init() {
	rootCmd.AddCommand(closeDayCmd)

	closeDayCmd.Flags().StringVar(&closeDate, "date", "", "Day to close (YYYY-MM-DD), defaults to yesterday")
	closeDayCmd.Flags().StringVar(&closeServer, "server", "", "Server base URL, defaults to client.base_url")
}

func closeDay(cmd *cobra.Command, args []string) error {
	day, err := parseDayFlag("date", closeDate)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	clientCfg := a.cfg.Client
	if closeServer != "" {
		clientCfg.BaseURL = closeServer
	}
	fmt.Printf("📡 Closing day via %s...\n", clientCfg.BaseURL)

	res, err := client.NewClient(clientCfg, a.logger).AutoClose(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("auto-close failed: %w", err)
	}

	if !res.Created {
		fmt.Printf("ℹ️  %s was already closed, nothing to do\n", res.Date)
		return nil
	}

	fmt.Printf("✅ Closed %s\n", res.Date)
	if c := res.Closing; c != nil {
		fmt.Printf("   🧊 Ice used: %d", c.IceUsed)
		if c.RemainingIce != nil {
			fmt.Printf(" (remaining %d)", *c.RemainingIce)
		}
		fmt.Println()
		fmt.Printf("   ☕ Hot used: %d", c.HotUsed)
		if c.RemainingHot != nil {
			fmt.Printf(" (remaining %d)", *c.RemainingHot)
		}
		fmt.Println()
	}
	return nil
}
