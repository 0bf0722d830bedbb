package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/matthieukhl/drinkstand/internal/export"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/spf13/cobra"
)

var (
	exportMonth string
	exportOut   string
)

var nowFunc = time.Now

var exportCmd = &cobra.Command{
	Use:   "export-month",
	Short: "Export a month of reconciled sales to an Excel workbook",
	Long: `Reads a month of orders and sales reports straight from the store and
writes a workbook with two sheets: the daily reconciliation (orders per
shift, cash, reported difference, adjusted cash) and the menu ranking
with the busiest days.`,
	RunE: exportWorkbook,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Month to export (YYYY-MM), defaults to the current month")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file, defaults to sales-YYYY-MM.xlsx")
}

func exportWorkbook(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	month := models.Month{}
	if exportMonth != "" {
		if month, err = models.ParseMonth(exportMonth); err != nil {
			return fmt.Errorf("--month: %w", err)
		}
	} else {
		today := models.DayOf(nowFunc(), a.cfg.Business.Location())
		month = models.Month{Year: today.Year(), Month: today.Month()}
	}

	out := exportOut
	if out == "" {
		out = fmt.Sprintf("sales-%s.xlsx", month)
	}

	fmt.Printf("📤 Exporting %s to %s...\n", month, out)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}

	if err := export.WriteMonth(cmd.Context(), a.sales, month, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Println("✅ Export complete!")
	return nil
}
