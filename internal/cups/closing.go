package cups

import (
	"context"
	"errors"
	"fmt"

	"github.com/matthieukhl/drinkstand/internal/models"
	"go.uber.org/zap"
)

// Availability is the stock on hand for a day: its plan plus the remaining
// balance of the nearest earlier closing within the lookback window.
type Availability struct {
	Date       models.Day  `json:"date"`
	PlannedIce int         `json:"planned_ice"`
	PlannedHot int         `json:"planned_hot"`
	BasisDate  *models.Day `json:"basis_date"`
	BasisIce   int         `json:"basis_ice"`
	BasisHot   int         `json:"basis_hot"`
	Ice        int         `json:"total_available_ice"`
	Hot        int         `json:"total_available_hot"`
}

type CloseResult struct {
	Date    models.Day         `json:"date"`
	Created bool               `json:"created"`
	Closing *models.CupClosing `json:"closing,omitempty"`
}

type CategorySummary struct {
	Planned           int `json:"planned"`
	Used              int `json:"used"`
	InStock           int `json:"in_stock"`
	OutStock          int `json:"out_stock"`
	PreviousRemaining int `json:"previous_remaining"`
	Remaining         int `json:"remaining"`
}

type DaySummary struct {
	Date      models.Day      `json:"date"`
	Closed    bool            `json:"closed"`
	BasisDate *models.Day     `json:"basis_date"`
	Ice       CategorySummary `json:"ice"`
	Hot       CategorySummary `json:"hot"`
}

// Available returns the cups available on day.
func (s *Service) Available(ctx context.Context, day models.Day) (Availability, error) {
	plan, err := s.Plan(ctx, day)
	if err != nil {
		return Availability{}, err
	}

	basis, err := s.basisClosing(ctx, day)
	if err != nil {
		return Availability{}, err
	}

	a := Availability{Date: day, PlannedIce: plan.PlannedIce, PlannedHot: plan.PlannedHot}
	if basis != nil {
		a.BasisDate = &basis.Date
		a.BasisIce = *basis.RemainingIce
		a.BasisHot = *basis.RemainingHot
	}
	a.Ice = a.PlannedIce + a.BasisIce
	a.Hot = a.PlannedHot + a.BasisHot
	return a, nil
}

// basisClosing finds the latest closing before day, at most lookback days
// back, that recorded a remaining balance.
func (s *Service) basisClosing(ctx context.Context, day models.Day) (*models.CupClosing, error) {
	closings, err := s.store.ListClosings(ctx, day.AddDays(-s.lookback), day.AddDays(-1))
	if err != nil {
		return nil, fmt.Errorf("cannot load cup closings: %w", err)
	}
	for i := len(closings) - 1; i >= 0; i-- {
		if closings[i].HasRemaining() {
			c := closings[i]
			return &c, nil
		}
	}
	return nil, nil
}

// AutoClose records the cups used on day, yesterday when day is zero. A day
// that is already closed is left untouched and reported with Created false.
func (s *Service) AutoClose(ctx context.Context, day models.Day) (CloseResult, error) {
	if day.IsZero() {
		day = s.Today().AddDays(-1)
	}
	result := CloseResult{Date: day}

	exists, err := s.store.ClosingExists(ctx, day)
	if err != nil {
		return CloseResult{}, fmt.Errorf("cannot check closing for %s: %w", day, err)
	}
	if exists {
		s.logger.Info("Day already closed", zap.String("date", day.String()))
		return result, nil
	}

	closing, err := s.buildClosing(ctx, day)
	if err != nil {
		return CloseResult{}, err
	}

	if err := s.store.InsertClosing(ctx, closing); err != nil {
		if errors.Is(err, models.ErrAlreadyExists) {
			s.logger.Info("Day closed concurrently", zap.String("date", day.String()))
			return result, nil
		}
		return CloseResult{}, fmt.Errorf("cannot save closing for %s: %w", day, err)
	}

	s.logger.Info("Day closed",
		zap.String("date", day.String()),
		zap.Int("ice_used", closing.IceUsed),
		zap.Int("hot_used", closing.HotUsed),
		zap.Int("remaining_ice", *closing.RemainingIce),
		zap.Int("remaining_hot", *closing.RemainingHot))

	result.Created = true
	result.Closing = &closing
	return result, nil
}

func (s *Service) buildClosing(ctx context.Context, day models.Day) (models.CupClosing, error) {
	iceUsed, hotUsed, err := s.usedCups(ctx, day)
	if err != nil {
		return models.CupClosing{}, err
	}
	avail, err := s.Available(ctx, day)
	if err != nil {
		return models.CupClosing{}, err
	}
	movements, err := s.store.ListMovements(ctx, "")
	if err != nil {
		return models.CupClosing{}, fmt.Errorf("cannot load cup movements: %w", err)
	}

	iceIn, iceOut := movementTotals(movements, models.DrinkIce, day)
	hotIn, hotOut := movementTotals(movements, models.DrinkHot, day)
	remainingIce := avail.Ice + iceIn - iceOut - iceUsed
	remainingHot := avail.Hot + hotIn - hotOut - hotUsed

	return models.CupClosing{
		Date:         day,
		IceUsed:      iceUsed,
		HotUsed:      hotUsed,
		RemainingIce: &remainingIce,
		RemainingHot: &remainingHot,
	}, nil
}

// DaySummary reports plan, usage, movements and remaining stock for day. Usage
// comes from the closing when the day is closed and from live orders otherwise.
func (s *Service) DaySummary(ctx context.Context, day models.Day) (DaySummary, error) {
	avail, err := s.Available(ctx, day)
	if err != nil {
		return DaySummary{}, err
	}

	closings, err := s.store.ListClosings(ctx, day, day)
	if err != nil {
		return DaySummary{}, fmt.Errorf("cannot load cup closings: %w", err)
	}

	summary := DaySummary{Date: day, BasisDate: avail.BasisDate}
	var iceUsed, hotUsed int
	if len(closings) > 0 {
		summary.Closed = true
		iceUsed, hotUsed = closings[0].IceUsed, closings[0].HotUsed
	} else if iceUsed, hotUsed, err = s.usedCups(ctx, day); err != nil {
		return DaySummary{}, err
	}

	movements, err := s.store.ListMovements(ctx, "")
	if err != nil {
		return DaySummary{}, fmt.Errorf("cannot load cup movements: %w", err)
	}

	summary.Ice = categorySummary(avail.PlannedIce, avail.BasisIce, iceUsed, movements, models.DrinkIce, day)
	summary.Hot = categorySummary(avail.PlannedHot, avail.BasisHot, hotUsed, movements, models.DrinkHot, day)
	return summary, nil
}

func categorySummary(planned, previous, used int, movements []models.CupMovement, category models.DrinkType, day models.Day) CategorySummary {
	in, out := movementTotals(movements, category, day)
	return CategorySummary{
		Planned:           planned,
		Used:              used,
		InStock:           in,
		OutStock:          out,
		PreviousRemaining: previous,
		Remaining:         previous + planned + in - out - used,
	}
}
