package sales

import (
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/shopspring/decimal"
)

type DailyStat struct {
	Date       models.Day `json:"date"`
	EarlyCount int        `json:"early_count"`
	LateCount  int        `json:"late_count"`
	TotalCount int        `json:"total_count"`
	CashTotal  int        `json:"cash_total"`
}

type MonthlyStat struct {
	Month      models.Month    `json:"-"`
	Name       string          `json:"name"`
	EarlyAvg   decimal.Decimal `json:"early_avg"`
	LateAvg    decimal.Decimal `json:"late_avg"`
	TotalAvg   decimal.Decimal `json:"total_avg"`
	CashTotal  int             `json:"cash_total"`
	CashDayAvg decimal.Decimal `json:"cash_day_avg"`
}

// DailyStats returns one row per calendar day of month from completed orders.
func (a Aggregator) DailyStats(month models.Month, orders []models.Order) []DailyStat {
	rows := make([]DailyStat, month.Days())
	for i := range rows {
		rows[i].Date = month.FirstDay().AddDays(i)
	}

	for _, o := range orders {
		if o.Status != models.StatusCompleted {
			continue
		}
		day, shift := a.ShiftOf(o.CreatedAt)
		if !month.Contains(day) {
			continue
		}
		row := &rows[day.DayOfMonth()-1]
		if shift == models.ShiftEarly {
			row.EarlyCount++
		} else {
			row.LateCount++
		}
		row.TotalCount++
		if NormalizePaymentMethod(o.PaymentMethod) == PaymentCash {
			row.CashTotal += o.Price
		}
	}
	return rows
}

type monthAccumulator struct {
	early, late, cash   int
	earlyDays, lateDays map[models.Day]struct{}
	totalDays, cashDays map[models.Day]struct{}
}

func newMonthAccumulator() *monthAccumulator {
	return &monthAccumulator{
		earlyDays: make(map[models.Day]struct{}),
		lateDays:  make(map[models.Day]struct{}),
		totalDays: make(map[models.Day]struct{}),
		cashDays:  make(map[models.Day]struct{}),
	}
}

// MonthlyStats returns twelve rows for year with per-active-day averages.
func (a Aggregator) MonthlyStats(year int, orders []models.Order) []MonthlyStat {
	acc := make([]*monthAccumulator, 12)
	for i := range acc {
		acc[i] = newMonthAccumulator()
	}

	for _, o := range orders {
		if o.Status != models.StatusCompleted {
			continue
		}
		day, shift := a.ShiftOf(o.CreatedAt)
		if day.Year() != year {
			continue
		}
		m := acc[day.Month()-1]
		if shift == models.ShiftEarly {
			m.early++
			m.earlyDays[day] = struct{}{}
		} else {
			m.late++
			m.lateDays[day] = struct{}{}
		}
		m.totalDays[day] = struct{}{}
		if NormalizePaymentMethod(o.PaymentMethod) == PaymentCash {
			m.cash += o.Price
			m.cashDays[day] = struct{}{}
		}
	}

	rows := make([]MonthlyStat, 0, 12)
	for i, m := range acc {
		month := models.Month{Year: year, Month: time.Month(i + 1)}
		rows = append(rows, MonthlyStat{
			Month:      month,
			Name:       month.String(),
			EarlyAvg:   average(m.early, len(m.earlyDays)),
			LateAvg:    average(m.late, len(m.lateDays)),
			TotalAvg:   average(m.early+m.late, len(m.totalDays)),
			CashTotal:  m.cash,
			CashDayAvg: average(m.cash, len(m.cashDays)),
		})
	}
	return rows
}

func average(sum, days int) decimal.Decimal {
	if days == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(days))).Round(2)
}
