package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matthieukhl/drinkstand/internal/cups"
	"github.com/matthieukhl/drinkstand/internal/memstore"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/orders"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var jst = time.FixedZone("UTC+9", 9*3600)

type failingStore struct{}

func (failingStore) HealthCheck(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T) (*Server, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	agg := sales.Aggregator{Cutoff: sales.Cutoff{Hour: 16, Minute: 50}, Location: jst, Prices: []int{300, 500}}
	policy, err := orders.ParseTransitionPolicy(map[string][]string{
		"pending":   {"completed", "cancelled"},
		"completed": {"cancelled"},
		"cancelled": {"completed"},
	})
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2025, 7, 11, 10, 0, 0, 0, jst) }
	logger := zap.NewNop()
	svc := Services{
		Orders: orders.NewService(store, orders.NewPricer(300, 500, []string{"Premium", "プレミアム"}), policy, jst, logger).WithClock(clock),
		Sales:  sales.NewService(store, store, agg, logger),
		Cups:   cups.NewService(store, store, agg, 200, 7, logger).WithClock(clock),
	}
	return NewServer(store, svc, logger), store
}

func do(t *testing.T, s *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestHealthCheck(t *testing.T) {
	s, _ := newTestServer(t)

	w, body := do(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	s.store = failingStore{}
	w, _ = do(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestCreateOrderAcceptsCamelCase(t *testing.T) {
	s, _ := newTestServer(t)

	w, body := do(t, s, http.MethodPost, "/api/orders", map[string]any{
		"drinkType":     "hot",
		"menu":          "プレミアム",
		"tableNumber":   12,
		"paymentMethod": "cash",
		"price":         1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, body["success"])

	order := body["order"].(map[string]any)
	assert.Equal(t, float64(500), order["price"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "unreceived", order["receipt_status"])
}

func TestCreateOrderValidation(t *testing.T) {
	s, _ := newTestServer(t)

	w, body := do(t, s, http.MethodPost, "/api/orders", map[string]any{
		"drink_type":   "ice",
		"menu":         "",
		"table_number": 301,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Len(t, body["fields"], 2)

	w, _ = do(t, s, http.MethodPost, "/api/orders", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	s, store := newTestServer(t)
	o, err := store.InsertOrder(context.Background(), models.Order{Menu: "紅茶", Status: models.StatusPending})
	require.NoError(t, err)

	w, body := do(t, s, http.MethodPatch, "/api/orders/1", map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", body["order"].(map[string]any)["status"])
	assert.Equal(t, int64(1), o.ID)

	w, _ = do(t, s, http.MethodPatch, "/api/orders/99", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, s, http.MethodPatch, "/api/orders/1", map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, s, http.MethodPatch, "/api/orders/abc", map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidTransitionIsConflict(t *testing.T) {
	s, store := newTestServer(t)
	s.svc.Orders = orders.NewService(store, orders.NewPricer(300, 500, nil),
		orders.TransitionPolicy{models.StatusPending: {models.StatusCompleted}}, jst, zap.NewNop())

	_, err := store.InsertOrder(context.Background(), models.Order{Status: models.StatusCompleted})
	require.NoError(t, err)

	w, _ := do(t, s, http.MethodPatch, "/api/orders/1", map[string]any{"status": "cancelled"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReconciliationFlow(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		_, err := store.InsertOrder(ctx, models.Order{
			CreatedAt: time.Date(2025, 7, 10, 12, i, 0, 0, jst), DrinkType: models.DrinkIce,
			Price: 300, PaymentMethod: "cash", Status: models.StatusCompleted,
		})
		require.NoError(t, err)
	}

	w, body := do(t, s, http.MethodGet, "/api/sales/reconciliation?date=2025-07-10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4500), body["adjusted_cash"])

	w, _ = do(t, s, http.MethodPut, "/api/sales/reports", map[string]any{"date": "2025-07-10", "shift": "early", "diff": -200})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, body = do(t, s, http.MethodGet, "/api/sales/reconciliation?date=2025-07-10", nil)
	assert.Equal(t, float64(4300), body["adjusted_cash"])

	w, _ = do(t, s, http.MethodGet, "/api/sales/summary", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAutoCloseEndpointIsIdempotent(t *testing.T) {
	s, store := newTestServer(t)
	_, err := store.InsertOrder(context.Background(), models.Order{
		CreatedAt: time.Date(2025, 7, 10, 12, 0, 0, 0, jst), DrinkType: models.DrinkHot, Status: models.StatusCompleted,
	})
	require.NoError(t, err)

	w, body := do(t, s, http.MethodPost, "/api/cups/auto-close", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["created"])
	assert.Equal(t, "2025-07-10", body["date"])

	w, body = do(t, s, http.MethodPost, "/api/cups/auto-close", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["created"])
}

func TestMovementsTable(t *testing.T) {
	s, _ := newTestServer(t)

	for _, m := range []map[string]any{
		{"carried_over": true, "category": "ice"},
		{"date": "2025-07-01", "category": "ice", "in_stock": 10, "out_stock": 3},
		{"date": "2025-07-02", "category": "ice", "in_stock": 5},
	} {
		w, _ := do(t, s, http.MethodPost, "/api/cups/movements", m)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w, body := do(t, s, http.MethodGet, "/api/cups/movements?category=ice&year=2025&month=07", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tables := body["tables"].([]any)
	require.Len(t, tables, 1)
	rows := tables[0].(map[string]any)["rows"].([]any)
	require.Len(t, rows, 3)
	assert.Equal(t, float64(212), rows[2].(map[string]any)["remaining"])

	w, _ = do(t, s, http.MethodGet, "/api/cups/movements?year=2025", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartCupEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	_, body := do(t, s, http.MethodGet, "/api/cups/start?date=2025-07-10&shift=early&drink_type=ice", nil)
	assert.Nil(t, body["start_cup"])

	w, _ := do(t, s, http.MethodPut, "/api/cups/start", map[string]any{
		"date": "2025-07-10", "shift": "early", "drink_type": "ice", "count": 40,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, body = do(t, s, http.MethodGet, "/api/cups/start?date=2025-07-10&shift=early&drink_type=ice", nil)
	require.NotNil(t, body["start_cup"])
	assert.Equal(t, float64(40), body["start_cup"].(map[string]any)["count"])

	w, _ = do(t, s, http.MethodPut, "/api/cups/start", map[string]any{
		"date": "2025-07-10", "shift": "night", "drink_type": "ice", "count": 40,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankingRequiresPeriod(t *testing.T) {
	s, _ := newTestServer(t)

	w, _ := do(t, s, http.MethodGet, "/api/sales/ranking", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := do(t, s, http.MethodGet, "/api/sales/ranking?month=2025-07&drink_type=hot", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-07", body["period"])
	assert.Equal(t, "hot", body["drink_type"])
}
