package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/validation"
	"go.uber.org/zap"
)

const DefaultRankingLimit = 5

// OrderSource reads orders created in [from, to).
type OrderSource interface {
	ListOrders(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

// ReportStore keeps one adjustment report per (date, shift).
type ReportStore interface {
	UpsertSalesReport(ctx context.Context, r models.SalesReport) (models.SalesReport, error)
	ListSalesReports(ctx context.Context, day models.Day) ([]models.SalesReport, error)
}

type ReportInput struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Shift string `json:"shift" validate:"required,oneof=early late"`
	Diff  *int   `json:"diff" validate:"required"`
	Staff string `json:"staff"`
	Note  string `json:"note"`
}

type Ranking struct {
	Period      string      `json:"period"`
	Total       []MenuCount `json:"total"`
	Ice         []MenuCount `json:"ice"`
	Hot         []MenuCount `json:"hot"`
	BusiestDays []BusyDay   `json:"busiest_days,omitempty"`
}

type Service struct {
	orders  OrderSource
	reports ReportStore
	agg     Aggregator
	logger  *zap.Logger
}

func NewService(orders OrderSource, reports ReportStore, agg Aggregator, logger *zap.Logger) *Service {
	return &Service{
		orders:  orders,
		reports: reports,
		agg:     agg,
		logger:  logger.Named("sales"),
	}
}

func (s *Service) Aggregator() Aggregator { return s.agg }

func (s *Service) ordersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	list, err := s.orders.ListOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("cannot load orders: %w", err)
	}
	return list, nil
}

// Summary returns the early, late and whole-day summaries of a business day.
func (s *Service) Summary(ctx context.Context, day models.Day) (DaySummary, error) {
	list, err := s.ordersBetween(ctx, day.Start(s.agg.Location), day.End(s.agg.Location))
	if err != nil {
		return DaySummary{}, err
	}
	return s.agg.Summarize(day, list), nil
}

func (s *Service) Reports(ctx context.Context, day models.Day) ([]models.SalesReport, error) {
	reports, err := s.reports.ListSalesReports(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("cannot load sales reports: %w", err)
	}
	return reports, nil
}

// Reconciliation returns the day's shift summaries with adjustments applied.
func (s *Service) Reconciliation(ctx context.Context, day models.Day) (DayReconciliation, error) {
	summary, err := s.Summary(ctx, day)
	if err != nil {
		return DayReconciliation{}, err
	}
	reports, err := s.Reports(ctx, day)
	if err != nil {
		return DayReconciliation{}, err
	}
	return Reconcile(summary, reports), nil
}

// SubmitReport stores the adjustment for a shift, replacing any earlier one.
func (s *Service) SubmitReport(ctx context.Context, in ReportInput) (models.SalesReport, error) {
	if err := validation.Struct(in); err != nil {
		return models.SalesReport{}, err
	}
	day, err := models.ParseDay(in.Date)
	if err != nil {
		return models.SalesReport{}, models.NewValidationError("date", err.Error())
	}
	shift := models.Shift(in.Shift)

	summary, err := s.Summary(ctx, day)
	if err != nil {
		return models.SalesReport{}, err
	}
	shiftSummary := summary.Shift(shift)
	snapshot, err := json.Marshal(shiftSummary)
	if err != nil {
		return models.SalesReport{}, fmt.Errorf("cannot encode summary: %w", err)
	}

	report := models.SalesReport{
		Date:          day,
		Shift:         shift,
		Diff:          *in.Diff,
		Staff:         optional(in.Staff),
		Note:          optional(in.Note),
		AdjustedSales: shiftSummary.Sales + *in.Diff,
		Summary:       snapshot,
	}

	stored, err := s.reports.UpsertSalesReport(ctx, report)
	if err != nil {
		s.logger.Error("Failed to save sales report", zap.Error(err))
		return models.SalesReport{}, fmt.Errorf("cannot save sales report: %w", err)
	}

	s.logger.Info("Sales report saved",
		zap.String("date", day.String()),
		zap.String("shift", string(shift)),
		zap.Int("diff", stored.Diff),
		zap.Int("adjusted_sales", stored.AdjustedSales))
	return stored, nil
}

// DayRanking ranks menus sold on one day.
func (s *Service) DayRanking(ctx context.Context, day models.Day, limit int) (Ranking, error) {
	list, err := s.ordersBetween(ctx, day.Start(s.agg.Location), day.End(s.agg.Location))
	if err != nil {
		return Ranking{}, err
	}
	return s.rank(day.String(), list, limit, false), nil
}

// MonthRanking ranks menus sold in a month and lists its busiest days.
func (s *Service) MonthRanking(ctx context.Context, month models.Month, limit int) (Ranking, error) {
	from, to := s.monthBounds(month)
	list, err := s.ordersBetween(ctx, from, to)
	if err != nil {
		return Ranking{}, err
	}
	return s.rank(month.String(), list, limit, true), nil
}

func (s *Service) rank(period string, list []models.Order, limit int, withDays bool) Ranking {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	r := Ranking{
		Period: period,
		Total:  RankMenus(list, "", limit),
		Ice:    RankMenus(list, models.DrinkIce, limit),
		Hot:    RankMenus(list, models.DrinkHot, limit),
	}
	if withDays {
		r.BusiestDays = s.agg.BusiestDays(list, DefaultRankingLimit)
	}
	return r
}

func (s *Service) DailyStats(ctx context.Context, month models.Month) ([]DailyStat, error) {
	from, to := s.monthBounds(month)
	list, err := s.ordersBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.agg.DailyStats(month, list), nil
}

func (s *Service) MonthlyStats(ctx context.Context, year int) ([]MonthlyStat, error) {
	from := models.NewDay(year, time.January, 1).Start(s.agg.Location)
	to := models.NewDay(year+1, time.January, 1).Start(s.agg.Location)
	list, err := s.ordersBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.agg.MonthlyStats(year, list), nil
}

func (s *Service) monthBounds(month models.Month) (time.Time, time.Time) {
	first := month.FirstDay()
	return first.Start(s.agg.Location), first.AddDays(month.Days()).Start(s.agg.Location)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
