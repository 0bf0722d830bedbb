package sales

import "github.com/matthieukhl/drinkstand/internal/models"

type ShiftReconciliation struct {
	Shift        models.Shift        `json:"shift"`
	Summary      ShiftSummary        `json:"summary"`
	Report       *models.SalesReport `json:"report"`
	HasReport    bool                `json:"has_report"`
	Diff         int                 `json:"diff"`
	AdjustedCash int                 `json:"adjusted_cash"`
}

type DayReconciliation struct {
	Date         models.Day          `json:"date"`
	Early        ShiftReconciliation `json:"early"`
	Late         ShiftReconciliation `json:"late"`
	Total        ShiftSummary        `json:"total"`
	TotalDiff    int                 `json:"total_diff"`
	AdjustedCash int                 `json:"adjusted_cash"`
}

// ReconcileShift applies the shift's adjustment report, if any, to its cash sales.
func ReconcileShift(shift models.Shift, summary ShiftSummary, report *models.SalesReport) ShiftReconciliation {
	r := ShiftReconciliation{Shift: shift, Summary: summary, Report: report}
	if report != nil {
		r.HasReport = true
		r.Diff = report.Diff
	}
	r.AdjustedCash = summary.Sales + r.Diff
	return r
}

// Reconcile merges a day summary with the reports stored for that day.
func Reconcile(summary DaySummary, reports []models.SalesReport) DayReconciliation {
	var early, late *models.SalesReport
	for i := range reports {
		switch reports[i].Shift {
		case models.ShiftEarly:
			early = &reports[i]
		case models.ShiftLate:
			late = &reports[i]
		}
	}

	out := DayReconciliation{
		Date:  summary.Date,
		Early: ReconcileShift(models.ShiftEarly, summary.Early, early),
		Late:  ReconcileShift(models.ShiftLate, summary.Late, late),
		Total: summary.Total,
	}
	out.TotalDiff = out.Early.Diff + out.Late.Diff
	out.AdjustedCash = summary.Early.Sales + summary.Late.Sales + out.TotalDiff
	return out
}
