package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/matthieukhl/drinkstand/internal/memstore"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestWriteMonth(t *testing.T) {
	jst := time.FixedZone("UTC+9", 9*3600)
	store := memstore.New()
	ctx := context.Background()

	for _, o := range []models.Order{
		{CreatedAt: time.Date(2025, 2, 3, 10, 0, 0, 0, jst), Menu: "紅茶", DrinkType: models.DrinkIce, Price: 300, PaymentMethod: "cash", Status: models.StatusCompleted},
		{CreatedAt: time.Date(2025, 2, 3, 18, 0, 0, 0, jst), Menu: "紅茶", DrinkType: models.DrinkIce, Price: 300, PaymentMethod: "cash", Status: models.StatusCompleted},
		{CreatedAt: time.Date(2025, 2, 4, 18, 0, 0, 0, jst), Menu: "ココア", DrinkType: models.DrinkHot, Price: 500, PaymentMethod: "cash", Status: models.StatusCompleted},
	} {
		_, err := store.InsertOrder(ctx, o)
		require.NoError(t, err)
	}
	_, err := store.UpsertSalesReport(ctx, models.SalesReport{Date: models.NewDay(2025, 2, 3), Shift: models.ShiftLate, Diff: -100})
	require.NoError(t, err)

	agg := sales.Aggregator{Cutoff: sales.Cutoff{Hour: 16, Minute: 50}, Location: jst, Prices: []int{300, 500}}
	svc := sales.NewService(store, store, agg, zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, WriteMonth(ctx, svc, models.Month{Year: 2025, Month: time.February}, &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{DailySheet, RankingSheet}, f.GetSheetList())

	rows, err := f.GetRows(DailySheet)
	require.NoError(t, err)
	require.Len(t, rows, 1+28+1, "header, every day of February, footer")
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, []string{"2025-02-03", "1", "1", "2", "300", "0", "300", "-100", "500"}, rows[3])
	assert.Equal(t, "Total", rows[29][0])
	assert.Equal(t, "3", rows[29][3])
	assert.Equal(t, "1000", rows[29][8])

	ranking, err := f.GetRows(RankingSheet)
	require.NoError(t, err)
	assert.Equal(t, "Period 2025-02", ranking[0][0])
	assert.Equal(t, []string{"1", "紅茶", "2"}, ranking[4])
}
