package sales

import (
	"fmt"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
)

// Cutoff is the wall-clock time ending the early shift, inclusive.
type Cutoff struct {
	Hour, Minute, Second int
}

// ParseCutoff accepts "HH:MM" or "HH:MM:SS".
func ParseCutoff(s string) (Cutoff, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Cutoff{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return Cutoff{}, fmt.Errorf("invalid shift cutoff %q, expected HH:MM", s)
}

// On returns the cutoff instant for day in loc.
func (c Cutoff) On(day models.Day, loc *time.Location) time.Time {
	return day.Start(loc).Add(time.Duration(c.Hour)*time.Hour +
		time.Duration(c.Minute)*time.Minute +
		time.Duration(c.Second)*time.Second)
}

func (c Cutoff) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

type TierBreakdown struct {
	Price     int                   `json:"price"`
	Counts    map[PaymentMethod]int `json:"counts"`
	CashSales int                   `json:"cash_sales"`
}

type ShiftSummary struct {
	Total int             `json:"total"`
	Ice   int             `json:"ice"`
	Hot   int             `json:"hot"`
	Sales int             `json:"sales"` // cash revenue
	Tiers []TierBreakdown `json:"tiers"`
}

func NewShiftSummary(prices []int) ShiftSummary {
	s := ShiftSummary{Tiers: make([]TierBreakdown, 0, len(prices))}
	for _, p := range prices {
		counts := make(map[PaymentMethod]int, len(PaymentMethods))
		for _, m := range PaymentMethods {
			counts[m] = 0
		}
		s.Tiers = append(s.Tiers, TierBreakdown{Price: p, Counts: counts})
	}
	return s
}

// Tier returns the breakdown for a price, if that price is a tier.
func (s ShiftSummary) Tier(price int) (TierBreakdown, bool) {
	for _, t := range s.Tiers {
		if t.Price == price {
			return t, true
		}
	}
	return TierBreakdown{}, false
}

func (s *ShiftSummary) add(o models.Order) {
	s.Total++
	switch o.DrinkType {
	case models.DrinkIce:
		s.Ice++
	case models.DrinkHot:
		s.Hot++
	}

	method := NormalizePaymentMethod(o.PaymentMethod)
	if method != PaymentOther {
		for i := range s.Tiers {
			if s.Tiers[i].Price != o.Price {
				continue
			}
			s.Tiers[i].Counts[method]++
			if method == PaymentCash {
				s.Tiers[i].CashSales += o.Price
			}
		}
	}

	if method == PaymentCash {
		s.Sales += o.Price
	}
}

// Plus sums two summaries field by field; tiers are matched by price.
func (s ShiftSummary) Plus(other ShiftSummary) ShiftSummary {
	out := ShiftSummary{
		Total: s.Total + other.Total,
		Ice:   s.Ice + other.Ice,
		Hot:   s.Hot + other.Hot,
		Sales: s.Sales + other.Sales,
	}

	index := make(map[int]int)
	for _, src := range [][]TierBreakdown{s.Tiers, other.Tiers} {
		for _, t := range src {
			i, ok := index[t.Price]
			if !ok {
				i = len(out.Tiers)
				index[t.Price] = i
				out.Tiers = append(out.Tiers, TierBreakdown{Price: t.Price, Counts: make(map[PaymentMethod]int)})
			}
			for m, n := range t.Counts {
				out.Tiers[i].Counts[m] += n
			}
			out.Tiers[i].CashSales += t.CashSales
		}
	}
	return out
}

type DaySummary struct {
	Date  models.Day   `json:"date"`
	Early ShiftSummary `json:"early"`
	Late  ShiftSummary `json:"late"`
	Total ShiftSummary `json:"total"`
}

func (d DaySummary) Shift(shift models.Shift) ShiftSummary {
	if shift == models.ShiftLate {
		return d.Late
	}
	return d.Early
}

// Aggregator partitions a day's completed orders into the early and late shifts.
type Aggregator struct {
	Cutoff   Cutoff
	Location *time.Location
	Prices   []int
}

// ShiftOf returns the business day and shift an instant falls in.
func (a Aggregator) ShiftOf(t time.Time) (models.Day, models.Shift) {
	day := models.DayOf(t, a.Location)
	if t.After(a.Cutoff.On(day, a.Location)) {
		return day, models.ShiftLate
	}
	return day, models.ShiftEarly
}

// Summarize aggregates orders of day. Orders that are not completed or fall
// outside the day are ignored.
func (a Aggregator) Summarize(day models.Day, orders []models.Order) DaySummary {
	early := NewShiftSummary(a.Prices)
	late := NewShiftSummary(a.Prices)

	from, to := day.Start(a.Location), day.End(a.Location)
	cutoff := a.Cutoff.On(day, a.Location)

	for _, o := range orders {
		if o.Status != models.StatusCompleted {
			continue
		}
		if o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		if o.CreatedAt.After(cutoff) {
			late.add(o)
		} else {
			early.add(o)
		}
	}

	return DaySummary{Date: day, Early: early, Late: late, Total: early.Plus(late)}
}
