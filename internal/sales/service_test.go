package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/matthieukhl/drinkstand/internal/memstore"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var jst = time.FixedZone("UTC+9", 9*3600)

func newService(t *testing.T) (*sales.Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	agg := sales.Aggregator{Cutoff: sales.Cutoff{Hour: 16, Minute: 50}, Location: jst, Prices: []int{300, 500}}
	return sales.NewService(store, store, agg, zap.NewNop()), store
}

func seed(t *testing.T, store *memstore.Store, at time.Time, menu string, drink models.DrinkType, price int, method string, status models.OrderStatus) {
	t.Helper()
	_, err := store.InsertOrder(context.Background(), models.Order{
		CreatedAt: at, Menu: menu, DrinkType: drink, Price: price, PaymentMethod: method, Status: status,
	})
	require.NoError(t, err)
}

func TestSubmitReportUpsertsAndReconciles(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	day := models.NewDay(2025, 7, 1)

	// ¥4500 of early cash sales
	for i := 0; i < 15; i++ {
		seed(t, store, time.Date(2025, 7, 1, 10, i, 0, 0, jst), "コーヒー", models.DrinkIce, 300, "cash", models.StatusCompleted)
	}

	rec, err := svc.Reconciliation(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 4500, rec.Early.AdjustedCash)
	assert.False(t, rec.Early.HasReport)

	diff := -100
	_, err = svc.SubmitReport(ctx, sales.ReportInput{Date: "2025-07-01", Shift: "early", Diff: &diff, Staff: "佐藤"})
	require.NoError(t, err)

	diff = -200
	stored, err := svc.SubmitReport(ctx, sales.ReportInput{Date: "2025-07-01", Shift: "early", Diff: &diff, Note: "釣銭ミス"})
	require.NoError(t, err)
	assert.Equal(t, 4300, stored.AdjustedSales)
	assert.Nil(t, stored.Staff)
	require.NotNil(t, stored.Note)
	assert.NotEmpty(t, stored.Summary)

	reports, err := svc.Reports(ctx, day)
	require.NoError(t, err)
	require.Len(t, reports, 1, "a resubmission replaces the earlier report")

	rec, err = svc.Reconciliation(ctx, day)
	require.NoError(t, err)
	assert.True(t, rec.Early.HasReport)
	assert.Equal(t, 4300, rec.Early.AdjustedCash)
	assert.Equal(t, 4300, rec.AdjustedCash)
}

func TestSubmitReportValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	diff := 0

	tests := []struct {
		name  string
		in    sales.ReportInput
		field string
	}{
		{"missing diff", sales.ReportInput{Date: "2025-07-01", Shift: "early"}, "diff"},
		{"bad shift", sales.ReportInput{Date: "2025-07-01", Shift: "night", Diff: &diff}, "shift"},
		{"bad date", sales.ReportInput{Date: "07/01", Shift: "late", Diff: &diff}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitReport(ctx, tt.in)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}
}

func TestRankings(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	at := func(day, hour int) time.Time { return time.Date(2025, 7, day, hour, 0, 0, 0, jst) }
	seed(t, store, at(1, 10), "ココア", models.DrinkHot, 300, "cash", models.StatusCompleted)
	seed(t, store, at(1, 11), "ココア", models.DrinkHot, 300, "cash", models.StatusCompleted)
	seed(t, store, at(1, 12), "紅茶", models.DrinkIce, 300, "cash", models.StatusCompleted)
	seed(t, store, at(1, 13), "オーレ", models.DrinkIce, 300, "cash", models.StatusCompleted)
	seed(t, store, at(1, 14), "プレミアム", models.DrinkHot, 500, "cash", models.StatusCancelled)
	seed(t, store, at(2, 10), "紅茶", models.DrinkIce, 300, "cash", models.StatusCompleted)

	r, err := svc.DayRanking(ctx, models.NewDay(2025, 7, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, []sales.MenuCount{{Menu: "ココア", Count: 2}, {Menu: "オーレ", Count: 1}, {Menu: "紅茶", Count: 1}}, r.Total)
	assert.Equal(t, []sales.MenuCount{{Menu: "ココア", Count: 2}}, r.Hot)
	assert.Empty(t, r.BusiestDays)

	m, err := svc.MonthRanking(ctx, models.Month{Year: 2025, Month: time.July}, 1)
	require.NoError(t, err)
	assert.Equal(t, []sales.MenuCount{{Menu: "紅茶", Count: 2}}, m.Ice)
	require.Len(t, m.BusiestDays, 2)
	assert.Equal(t, "2025-07-01", m.BusiestDays[0].Date.String())
	assert.Equal(t, "ココア", m.BusiestDays[0].TopMenu)
}

func TestDailyAndMonthlyStats(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	seed(t, store, time.Date(2025, 7, 1, 10, 0, 0, 0, jst), "a", models.DrinkIce, 300, "cash", models.StatusCompleted)
	seed(t, store, time.Date(2025, 7, 1, 18, 0, 0, 0, jst), "a", models.DrinkIce, 300, "4-yen", models.StatusCompleted)
	seed(t, store, time.Date(2025, 7, 2, 18, 0, 0, 0, jst), "a", models.DrinkIce, 500, "cash", models.StatusCompleted)
	seed(t, store, time.Date(2025, 7, 2, 19, 0, 0, 0, jst), "a", models.DrinkIce, 300, "cash", models.StatusPending)

	daily, err := svc.DailyStats(ctx, models.Month{Year: 2025, Month: time.July})
	require.NoError(t, err)
	require.Len(t, daily, 31)
	assert.Equal(t, sales.DailyStat{Date: models.NewDay(2025, 7, 1), EarlyCount: 1, LateCount: 1, TotalCount: 2, CashTotal: 300}, daily[0])
	assert.Equal(t, 1, daily[1].LateCount)
	assert.Equal(t, 500, daily[1].CashTotal)

	monthly, err := svc.MonthlyStats(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, monthly, 12)

	july := monthly[6]
	assert.Equal(t, "2025-07", july.Name)
	assert.True(t, july.EarlyAvg.Equal(decimal.NewFromInt(1)), july.EarlyAvg.String())
	assert.True(t, july.LateAvg.Equal(decimal.NewFromInt(1)), july.LateAvg.String())
	assert.True(t, july.TotalAvg.Equal(decimal.RequireFromString("1.5")), july.TotalAvg.String())
	assert.Equal(t, 800, july.CashTotal)
	assert.True(t, july.CashDayAvg.Equal(decimal.NewFromInt(400)))
	assert.True(t, monthly[0].TotalAvg.IsZero())
}
