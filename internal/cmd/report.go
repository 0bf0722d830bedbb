package cmd

import (
	"fmt"
	"strings"

	"github.com/matthieukhl/drinkstand/internal/client"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"github.com/spf13/cobra"
)

var (
	reportDate   string
	reportServer string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a day's shift summaries and cash reconciliation",
	Long: `Fetches the reconciliation of one day from a running drinkstand server
and prints, per shift, the order counts, the breakdown per price tier and
payment method, the reported cash difference and the adjusted cash.`,
	RunE: printReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDate, "date", "", "Day to report (YYYY-MM-DD), defaults to today")
	reportCmd.Flags().StringVar(&reportServer, "server", "", "Server base URL, defaults to client.base_url")
}

func printReport(cmd *cobra.Command, args []string) error {
	day, err := parseDayFlag("date", reportDate)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if day.IsZero() {
		day = models.DayOf(nowFunc(), a.cfg.Business.Location())
	}

	clientCfg := a.cfg.Client
	if reportServer != "" {
		clientCfg.BaseURL = reportServer
	}

	rec, err := client.NewClient(clientCfg, a.logger).Reconciliation(cmd.Context(), day)
	if err != nil {
		return fmt.Errorf("failed to fetch reconciliation: %w", err)
	}

	fmt.Printf("📊 Sales report for %s\n", day)
	fmt.Println(strings.Repeat("=", 60))
	printShift("🌅 Early", rec.Early)
	printShift("🌙 Late", rec.Late)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("📦 Orders: %d (ice %d, hot %d)\n", rec.Total.Total, rec.Total.Ice, rec.Total.Hot)
	fmt.Printf("💴 Cash sales: ¥%d, diff %+d, adjusted ¥%d\n", rec.Total.Sales, rec.TotalDiff, rec.AdjustedCash)
	return nil
}

func printShift(title string, r sales.ShiftReconciliation) {
	s := r.Summary
	fmt.Printf("%s: %d orders (ice %d, hot %d)\n", title, s.Total, s.Ice, s.Hot)
	for _, tier := range s.Tiers {
		parts := make([]string, 0, len(sales.PaymentMethods))
		for _, m := range sales.PaymentMethods {
			if m == sales.PaymentOther {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %d", m, tier.Counts[m]))
		}
		fmt.Printf("   ¥%d: %s | cash ¥%d\n", tier.Price, strings.Join(parts, ", "), tier.CashSales)
	}

	if r.HasReport {
		staff := "-"
		if r.Report != nil && r.Report.Staff != nil {
			staff = *r.Report.Staff
		}
		fmt.Printf("   Reported by %s, diff %+d, adjusted ¥%d\n", staff, r.Diff, r.AdjustedCash)
	} else {
		fmt.Printf("   ⚠️  No report yet, cash ¥%d\n", r.AdjustedCash)
	}
	fmt.Println()
}
