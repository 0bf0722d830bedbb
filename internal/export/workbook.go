// Package export writes a month of reconciled sales to an Excel workbook.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"github.com/xuri/excelize/v2"
)

const (
	DailySheet   = "Daily"
	RankingSheet = "Ranking"
)

var dailyHeader = []any{
	"Date", "Early orders", "Late orders", "Total orders",
	"Early cash", "Early diff", "Late cash", "Late diff", "Adjusted cash",
}

type Source interface {
	Reconciliation(ctx context.Context, day models.Day) (sales.DayReconciliation, error)
	MonthRanking(ctx context.Context, month models.Month, limit int) (sales.Ranking, error)
}

// WriteMonth builds the workbook for month and writes it to w.
func WriteMonth(ctx context.Context, src Source, month models.Month, w io.Writer) error {
	days := make([]sales.DayReconciliation, 0, month.Days())
	for i := 0; i < month.Days(); i++ {
		rec, err := src.Reconciliation(ctx, month.FirstDay().AddDays(i))
		if err != nil {
			return fmt.Errorf("failed to reconcile day %d: %w", i+1, err)
		}
		days = append(days, rec)
	}

	ranking, err := src.MonthRanking(ctx, month, sales.DefaultRankingLimit)
	if err != nil {
		return fmt.Errorf("failed to rank menus: %w", err)
	}

	f, err := Build(days, ranking)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Build lays out the daily reconciliation and ranking sheets.
func Build(days []sales.DayReconciliation, ranking sales.Ranking) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DailySheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(RankingSheet); err != nil {
		f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeDaily(f, days, bold); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRanking(f, ranking, bold); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeDaily(f *excelize.File, days []sales.DayReconciliation, bold int) error {
	if err := f.SetSheetRow(DailySheet, "A1", &dailyHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(DailySheet, "A1", "I1", bold); err != nil {
		return err
	}

	var totalOrders, totalCash int
	for i, d := range days {
		row := []any{
			d.Date.String(),
			d.Early.Summary.Total,
			d.Late.Summary.Total,
			d.Total.Total,
			d.Early.Summary.Sales,
			d.Early.Diff,
			d.Late.Summary.Sales,
			d.Late.Diff,
			d.AdjustedCash,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DailySheet, cell, &row); err != nil {
			return err
		}
		totalOrders += d.Total.Total
		totalCash += d.AdjustedCash
	}

	footer := len(days) + 2
	for col, v := range map[string]any{"A": "Total", "D": totalOrders, "I": totalCash} {
		if err := f.SetCellValue(DailySheet, fmt.Sprintf("%s%d", col, footer), v); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(DailySheet, fmt.Sprintf("A%d", footer), fmt.Sprintf("I%d", footer), bold); err != nil {
		return err
	}
	return f.SetColWidth(DailySheet, "A", "I", 14)
}

func writeRanking(f *excelize.File, ranking sales.Ranking, bold int) error {
	row := 1
	put := func(values ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(RankingSheet, cell, &values)
	}
	heading := func(title string) error {
		if err := f.SetCellStyle(RankingSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), bold); err != nil {
			return err
		}
		return put(title)
	}

	if err := heading("Period " + ranking.Period); err != nil {
		return err
	}
	for _, section := range []struct {
		title string
		list  []sales.MenuCount
	}{
		{"All drinks", ranking.Total},
		{"Ice", ranking.Ice},
		{"Hot", ranking.Hot},
	} {
		row++
		if err := heading(section.title); err != nil {
			return err
		}
		if err := put("Rank", "Menu", "Count"); err != nil {
			return err
		}
		for i, mc := range section.list {
			if err := put(i+1, mc.Menu, mc.Count); err != nil {
				return err
			}
		}
	}

	if len(ranking.BusiestDays) > 0 {
		row++
		if err := heading("Busiest days"); err != nil {
			return err
		}
		if err := put("Date", "Orders", "Top menu"); err != nil {
			return err
		}
		for _, d := range ranking.BusiestDays {
			if err := put(d.Date.String(), d.Count, d.TopMenu); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(RankingSheet, "A", "C", 16)
}
