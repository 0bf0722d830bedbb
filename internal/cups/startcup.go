package cups

import (
	"context"
	"fmt"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/validation"
	"go.uber.org/zap"
)

type StartCupInput struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Shift     string `json:"shift" validate:"required,oneof=early late"`
	DrinkType string `json:"drink_type" validate:"required,oneof=ice hot"`
	Count     *int   `json:"count" validate:"required,min=0"`
}

// TallyRow compares the cups counted at the start of a shift with the cups
// its completed orders used.
type TallyRow struct {
	Shift     models.Shift     `json:"shift"`
	DrinkType models.DrinkType `json:"drink_type"`
	Start     *int             `json:"start"`
	Used      int              `json:"used"`
	Remaining *int             `json:"remaining"`
}

// SetStartCup stores the count for (date, shift, drink type), replacing any earlier count.
func (s *Service) SetStartCup(ctx context.Context, in StartCupInput) (models.StartCup, error) {
	if err := validation.Struct(in); err != nil {
		return models.StartCup{}, err
	}
	day, err := models.ParseDay(in.Date)
	if err != nil {
		return models.StartCup{}, models.NewValidationError("date", err.Error())
	}

	stored, err := s.store.UpsertStartCup(ctx, models.StartCup{
		Date:      day,
		Shift:     models.Shift(in.Shift),
		DrinkType: models.DrinkType(in.DrinkType),
		Count:     *in.Count,
	})
	if err != nil {
		return models.StartCup{}, fmt.Errorf("cannot save start cup: %w", err)
	}

	s.logger.Info("Start cup saved",
		zap.String("date", day.String()),
		zap.String("shift", in.Shift),
		zap.String("drink_type", in.DrinkType),
		zap.Int("count", stored.Count))
	return stored, nil
}

func (s *Service) StartCups(ctx context.Context, day models.Day) ([]models.StartCup, error) {
	list, err := s.store.ListStartCups(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("cannot load start cups: %w", err)
	}
	return list, nil
}

// StartCup returns the count for one key, or nil when none was entered.
func (s *Service) StartCup(ctx context.Context, day models.Day, shift models.Shift, drink models.DrinkType) (*models.StartCup, error) {
	list, err := s.StartCups(ctx, day)
	if err != nil {
		return nil, err
	}
	for _, sc := range list {
		if sc.Shift == shift && sc.DrinkType == drink {
			return &sc, nil
		}
	}
	return nil, nil
}

// Tally returns one row per shift and drink type for day.
func (s *Service) Tally(ctx context.Context, day models.Day) ([]TallyRow, error) {
	starts, err := s.StartCups(ctx, day)
	if err != nil {
		return nil, err
	}
	list, err := s.orders.ListOrders(ctx, day.Start(s.agg.Location), day.End(s.agg.Location))
	if err != nil {
		return nil, fmt.Errorf("cannot load orders: %w", err)
	}
	summary := s.agg.Summarize(day, list)

	rows := make([]TallyRow, 0, 4)
	for _, shift := range []models.Shift{models.ShiftEarly, models.ShiftLate} {
		used := summary.Shift(shift)
		for _, drink := range models.DrinkTypes {
			row := TallyRow{Shift: shift, DrinkType: drink, Used: used.Ice}
			if drink == models.DrinkHot {
				row.Used = used.Hot
			}
			for _, sc := range starts {
				if sc.Shift == shift && sc.DrinkType == drink {
					start, left := sc.Count, sc.Count-row.Used
					row.Start, row.Remaining = &start, &left
				}
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
