package cups_test

import (
	"context"
	"testing"
	"time"

	"github.com/matthieukhl/drinkstand/internal/cups"
	"github.com/matthieukhl/drinkstand/internal/memstore"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var jst = time.FixedZone("UTC+9", 9*3600)

func newService(t *testing.T) (*cups.Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	agg := sales.Aggregator{Cutoff: sales.Cutoff{Hour: 16, Minute: 50}, Location: jst, Prices: []int{300, 500}}
	svc := cups.NewService(store, store, agg, 200, 7, zap.NewNop()).
		WithClock(func() time.Time { return time.Date(2025, 7, 11, 9, 0, 0, 0, jst) })
	return svc, store
}

func completed(t *testing.T, store *memstore.Store, at time.Time, drink models.DrinkType) {
	t.Helper()
	_, err := store.InsertOrder(context.Background(), models.Order{
		CreatedAt: at, DrinkType: drink, Menu: "コーヒー", Price: 300, PaymentMethod: "cash", Status: models.StatusCompleted,
	})
	require.NoError(t, err)
}

func intPtr(n int) *int { return &n }

func TestAutoCloseIsIdempotent(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	completed(t, store, time.Date(2025, 7, 10, 10, 0, 0, 0, jst), models.DrinkIce)
	completed(t, store, time.Date(2025, 7, 10, 18, 0, 0, 0, jst), models.DrinkIce)
	completed(t, store, time.Date(2025, 7, 10, 19, 0, 0, 0, jst), models.DrinkHot)
	_, err := store.InsertOrder(ctx, models.Order{
		CreatedAt: time.Date(2025, 7, 10, 12, 0, 0, 0, jst), DrinkType: models.DrinkHot, Status: models.StatusCancelled,
	})
	require.NoError(t, err)

	first, err := svc.AutoClose(ctx, models.Day{})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "2025-07-10", first.Date.String())
	require.NotNil(t, first.Closing)
	assert.Equal(t, 2, first.Closing.IceUsed)
	assert.Equal(t, 1, first.Closing.HotUsed)

	second, err := svc.AutoClose(ctx, models.Day{})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Nil(t, second.Closing)

	closings, err := store.ListClosings(ctx, models.NewDay(2025, 7, 1), models.NewDay(2025, 7, 31))
	require.NoError(t, err)
	assert.Len(t, closings, 1)
}

func TestAutoCloseRecordsRemaining(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	day := models.NewDay(2025, 7, 10)

	_, err := svc.SetPlan(ctx, cups.PlanInput{Date: "2025-07-10", PlannedIce: 100, PlannedHot: 50})
	require.NoError(t, err)
	_, err = svc.RecordMovement(ctx, cups.MovementInput{Date: "2025-07-10", Category: "ice", InStock: 20, OutStock: 5})
	require.NoError(t, err)
	completed(t, store, time.Date(2025, 7, 10, 11, 0, 0, 0, jst), models.DrinkIce)

	res, err := svc.AutoClose(ctx, day)
	require.NoError(t, err)
	require.True(t, res.Created)
	assert.Equal(t, 100+20-5-1, *res.Closing.RemainingIce)
	assert.Equal(t, 50, *res.Closing.RemainingHot)
}

func TestAvailableLooksBackSevenDays(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	target := models.NewDay(2025, 7, 10)

	_, err := svc.SetPlan(ctx, cups.PlanInput{Date: "2025-07-10", PlannedIce: 30, PlannedHot: 10})
	require.NoError(t, err)

	// nothing closed yet
	a, err := svc.Available(ctx, target)
	require.NoError(t, err)
	assert.Nil(t, a.BasisDate)
	assert.Equal(t, 30, a.Ice)
	assert.Equal(t, 10, a.Hot)

	// eight days back is outside the window
	require.NoError(t, store.InsertClosing(ctx, models.CupClosing{
		Date: target.AddDays(-8), RemainingIce: intPtr(500), RemainingHot: intPtr(500),
	}))
	a, err = svc.Available(ctx, target)
	require.NoError(t, err)
	assert.Nil(t, a.BasisDate)
	assert.Equal(t, 30, a.Ice)

	require.NoError(t, store.InsertClosing(ctx, models.CupClosing{
		Date: target.AddDays(-3), RemainingIce: intPtr(120), RemainingHot: intPtr(40),
	}))
	// a closing without a remaining balance is skipped
	require.NoError(t, store.InsertClosing(ctx, models.CupClosing{Date: target.AddDays(-1), IceUsed: 9}))

	a, err = svc.Available(ctx, target)
	require.NoError(t, err)
	require.NotNil(t, a.BasisDate)
	assert.Equal(t, "2025-07-07", a.BasisDate.String())
	assert.Equal(t, 150, a.Ice)
	assert.Equal(t, 50, a.Hot)
}

func TestDaySummary(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	day := models.NewDay(2025, 7, 10)

	require.NoError(t, store.InsertClosing(ctx, models.CupClosing{
		Date: day.AddDays(-1), RemainingIce: intPtr(80), RemainingHot: intPtr(20),
	}))
	_, err := svc.SetPlan(ctx, cups.PlanInput{Date: "2025-07-10", PlannedIce: 10})
	require.NoError(t, err)
	_, err = svc.RecordMovement(ctx, cups.MovementInput{Date: "2025-07-10", Category: "hot", InStock: 5})
	require.NoError(t, err)
	completed(t, store, time.Date(2025, 7, 10, 12, 0, 0, 0, jst), models.DrinkIce)
	completed(t, store, time.Date(2025, 7, 10, 12, 5, 0, 0, jst), models.DrinkIce)

	live, err := svc.DaySummary(ctx, day)
	require.NoError(t, err)
	assert.False(t, live.Closed)
	assert.Equal(t, cups.CategorySummary{Planned: 10, Used: 2, PreviousRemaining: 80, Remaining: 88}, live.Ice)
	assert.Equal(t, cups.CategorySummary{InStock: 5, PreviousRemaining: 20, Remaining: 25}, live.Hot)

	_, err = svc.AutoClose(ctx, day)
	require.NoError(t, err)
	// orders entered after closing do not change a closed day
	completed(t, store, time.Date(2025, 7, 10, 20, 0, 0, 0, jst), models.DrinkIce)

	closed, err := svc.DaySummary(ctx, day)
	require.NoError(t, err)
	assert.True(t, closed.Closed)
	assert.Equal(t, 2, closed.Ice.Used)
}

func TestRecordMovementValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    cups.MovementInput
		field string
	}{
		{"dated movement needs a date", cups.MovementInput{Category: "ice", InStock: 1}, "date"},
		{"bad category", cups.MovementInput{Date: "2025-07-01", Category: "cold"}, "category"},
		{"negative stock", cups.MovementInput{Date: "2025-07-01", Category: "hot", OutStock: -1}, "out_stock"},
		{"bad date", cups.MovementInput{Date: "2025/07/01", Category: "hot"}, "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordMovement(ctx, tt.in)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
		})
	}

	sentinel, err := svc.RecordMovement(ctx, cups.MovementInput{CarriedOver: true, Category: "ice"})
	require.NoError(t, err)
	assert.Nil(t, sentinel.Date)
}

func TestTableThroughService(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	empty, err := svc.Table(ctx, models.DrinkIce, models.Month{})
	require.NoError(t, err)
	require.Len(t, empty.Rows, 1)
	assert.Equal(t, 200, empty.Rows[0].Remaining)

	for _, in := range []cups.MovementInput{
		{CarriedOver: true, Category: "ice"},
		{Date: "2025-07-01", Category: "ice", InStock: 10, OutStock: 3},
		{Date: "2025-07-02", Category: "ice", InStock: 5},
		{Date: "2025-07-02", Category: "hot", InStock: 40},
	} {
		_, err := svc.RecordMovement(ctx, in)
		require.NoError(t, err)
	}

	table, err := svc.Table(ctx, models.DrinkIce, models.Month{Year: 2025, Month: time.July})
	require.NoError(t, err)
	assert.Equal(t, "2025-07", table.Month)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 207, table.Rows[1].Remaining)
	assert.Equal(t, 212, table.Rows[2].Remaining)
}

func TestStartCupsAndTally(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	day := models.NewDay(2025, 7, 10)

	none, err := svc.StartCup(ctx, day, models.ShiftEarly, models.DrinkIce)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = svc.SetStartCup(ctx, cups.StartCupInput{Date: "2025-07-10", Shift: "early", DrinkType: "ice", Count: intPtr(40)})
	require.NoError(t, err)
	_, err = svc.SetStartCup(ctx, cups.StartCupInput{Date: "2025-07-10", Shift: "early", DrinkType: "ice", Count: intPtr(45)})
	require.NoError(t, err)

	list, err := svc.StartCups(ctx, day)
	require.NoError(t, err)
	require.Len(t, list, 1, "same key is replaced")
	assert.Equal(t, 45, list[0].Count)

	completed(t, store, time.Date(2025, 7, 10, 16, 50, 0, 0, jst), models.DrinkIce)
	completed(t, store, time.Date(2025, 7, 10, 16, 50, 1, 0, jst), models.DrinkIce)

	rows, err := svc.Tally(ctx, day)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	earlyIce := rows[0]
	assert.Equal(t, models.ShiftEarly, earlyIce.Shift)
	assert.Equal(t, models.DrinkIce, earlyIce.DrinkType)
	assert.Equal(t, 1, earlyIce.Used)
	require.NotNil(t, earlyIce.Remaining)
	assert.Equal(t, 44, *earlyIce.Remaining)

	lateIce := rows[2]
	assert.Equal(t, models.ShiftLate, lateIce.Shift)
	assert.Equal(t, 1, lateIce.Used)
	assert.Nil(t, lateIce.Start)
	assert.Nil(t, lateIce.Remaining)

	_, err = svc.SetStartCup(ctx, cups.StartCupInput{Date: "2025-07-10", Shift: "early", DrinkType: "ice"})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "count", verr.Fields[0].Field)
}
