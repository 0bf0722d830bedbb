// Package cups tracks cup stock: the movement ledger with its carried-over
// resets, planned stock, the once-a-day closing record and start-of-shift
// counts.
package cups

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"github.com/matthieukhl/drinkstand/internal/validation"
	"go.uber.org/zap"
)

const DefaultLookbackDays = 7

type Store interface {
	AppendMovement(ctx context.Context, m models.CupMovement) (models.CupMovement, error)
	// ListMovements returns movements of category, or all when category is empty.
	ListMovements(ctx context.Context, category models.DrinkType) ([]models.CupMovement, error)

	ClosingExists(ctx context.Context, day models.Day) (bool, error)
	// InsertClosing returns models.ErrAlreadyExists when day is already closed.
	InsertClosing(ctx context.Context, c models.CupClosing) error
	// ListClosings returns closings dated in [from, to], oldest first.
	ListClosings(ctx context.Context, from, to models.Day) ([]models.CupClosing, error)

	UpsertPlan(ctx context.Context, p models.CupPlan) (models.CupPlan, error)
	GetPlan(ctx context.Context, day models.Day) (models.CupPlan, error)

	UpsertStartCup(ctx context.Context, sc models.StartCup) (models.StartCup, error)
	ListStartCups(ctx context.Context, day models.Day) ([]models.StartCup, error)
}

type OrderSource interface {
	ListOrders(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

type MovementInput struct {
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	CarriedOver bool   `json:"carried_over"`
	Category    string `json:"category" validate:"required,oneof=ice hot"`
	InStock     int    `json:"in_stock" validate:"min=0"`
	OutStock    int    `json:"out_stock" validate:"min=0"`
}

type PlanInput struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	PlannedIce int    `json:"planned_ice" validate:"min=0"`
	PlannedHot int    `json:"planned_hot" validate:"min=0"`
}

// Table is the carry-forward view of one category.
type Table struct {
	Category models.DrinkType    `json:"category"`
	Month    string              `json:"month,omitempty"`
	Rows     []models.CupBalance `json:"rows"`
}

type Service struct {
	store    Store
	orders   OrderSource
	ledger   Ledger
	agg      sales.Aggregator
	lookback int
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(store Store, orders OrderSource, agg sales.Aggregator, baseline, lookbackDays int, logger *zap.Logger) *Service {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Service{
		store:    store,
		orders:   orders,
		ledger:   Ledger{Baseline: baseline},
		agg:      agg,
		lookback: lookbackDays,
		now:      time.Now,
		logger:   logger.Named("cups"),
	}
}

// WithClock replaces the clock used to pick the default auto-close date.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today is the current business day.
func (s *Service) Today() models.Day {
	return models.DayOf(s.now(), s.agg.Location)
}

// RecordMovement appends a stock movement. Only carried-over entries may omit the date.
func (s *Service) RecordMovement(ctx context.Context, in MovementInput) (models.CupMovement, error) {
	if err := validation.Struct(in); err != nil {
		return models.CupMovement{}, err
	}

	m := models.CupMovement{
		CarriedOver: in.CarriedOver,
		Category:    models.DrinkType(in.Category),
		InStock:     in.InStock,
		OutStock:    in.OutStock,
	}
	switch {
	case in.Date != "":
		day, err := models.ParseDay(in.Date)
		if err != nil {
			return models.CupMovement{}, models.NewValidationError("date", err.Error())
		}
		m.Date = &day
	case !in.CarriedOver:
		return models.CupMovement{}, models.NewValidationError("date", "is required")
	}

	stored, err := s.store.AppendMovement(ctx, m)
	if err != nil {
		return models.CupMovement{}, fmt.Errorf("cannot save cup movement: %w", err)
	}

	s.logger.Info("Cup movement recorded",
		zap.Int64("id", stored.ID),
		zap.String("category", string(stored.Category)),
		zap.Bool("carried_over", stored.CarriedOver),
		zap.Int("in", stored.InStock),
		zap.Int("out", stored.OutStock))
	return stored, nil
}

// Table returns the carry-forward rows of category, restricted to month unless
// month is zero.
func (s *Service) Table(ctx context.Context, category models.DrinkType, month models.Month) (Table, error) {
	list, err := s.store.ListMovements(ctx, category)
	if err != nil {
		return Table{}, fmt.Errorf("cannot load cup movements: %w", err)
	}

	rows := s.ledger.CarryForward(category, list)
	t := Table{Category: category, Rows: rows}
	if !month.IsZero() {
		t.Month = month.String()
		t.Rows = FilterMonth(rows, month)
	}
	return t, nil
}

func (s *Service) SetPlan(ctx context.Context, in PlanInput) (models.CupPlan, error) {
	if err := validation.Struct(in); err != nil {
		return models.CupPlan{}, err
	}
	day, err := models.ParseDay(in.Date)
	if err != nil {
		return models.CupPlan{}, models.NewValidationError("date", err.Error())
	}

	stored, err := s.store.UpsertPlan(ctx, models.CupPlan{Date: day, PlannedIce: in.PlannedIce, PlannedHot: in.PlannedHot})
	if err != nil {
		return models.CupPlan{}, fmt.Errorf("cannot save cup plan: %w", err)
	}

	s.logger.Info("Cup plan saved",
		zap.String("date", day.String()),
		zap.Int("ice", stored.PlannedIce),
		zap.Int("hot", stored.PlannedHot))
	return stored, nil
}

// Plan returns the planned stock of day; a day without a plan plans nothing.
func (s *Service) Plan(ctx context.Context, day models.Day) (models.CupPlan, error) {
	p, err := s.store.GetPlan(ctx, day)
	if errors.Is(err, models.ErrNotFound) {
		return models.CupPlan{Date: day}, nil
	}
	if err != nil {
		return models.CupPlan{}, fmt.Errorf("cannot load cup plan: %w", err)
	}
	return p, nil
}

// usedCups counts completed orders of day per drink type.
func (s *Service) usedCups(ctx context.Context, day models.Day) (ice, hot int, err error) {
	list, err := s.orders.ListOrders(ctx, day.Start(s.agg.Location), day.End(s.agg.Location))
	if err != nil {
		return 0, 0, fmt.Errorf("cannot load orders: %w", err)
	}
	summary := s.agg.Summarize(day, list)
	return summary.Total.Ice, summary.Total.Hot, nil
}
