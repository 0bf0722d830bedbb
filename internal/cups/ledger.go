package cups

import (
	"sort"

	"github.com/matthieukhl/drinkstand/internal/models"
)

const DefaultBaseline = 200

// Ledger derives running cup balances from stock movements.
type Ledger struct {
	Baseline int
}

// SortMovements returns a copy of list in ledger order: undated carried-over
// entries first, then by date with a carried-over entry ahead of the same
// day's movements. Ties keep ID order.
func SortMovements(list []models.CupMovement) []models.CupMovement {
	out := make([]models.CupMovement, len(list))
	copy(out, list)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		aUndated, bUndated := a.Date == nil, b.Date == nil
		if aUndated != bUndated {
			return aUndated
		}
		if !aUndated && !a.Date.Equal(*b.Date) {
			return a.Date.Before(*b.Date)
		}
		if a.CarriedOver != b.CarriedOver {
			return a.CarriedOver
		}
		return a.ID < b.ID
	})
	return out
}

// CarryForward computes the remaining balance after every movement of one
// category. A carried-over entry resets the balance to the baseline and its
// in/out values are ignored. A category without movements yields a single
// synthetic carried-over row.
func (l Ledger) CarryForward(category models.DrinkType, list []models.CupMovement) []models.CupBalance {
	if len(list) == 0 {
		return []models.CupBalance{{
			CupMovement: models.CupMovement{CarriedOver: true, Category: category},
			Remaining:   l.Baseline,
		}}
	}

	sorted := SortMovements(list)
	rows := make([]models.CupBalance, 0, len(sorted))
	running := l.Baseline
	for _, m := range sorted {
		if m.CarriedOver {
			running = l.Baseline
		} else {
			running = running + m.InStock - m.OutStock
		}
		rows = append(rows, models.CupBalance{CupMovement: m, Remaining: running})
	}
	return rows
}

// FilterMonth keeps the rows dated in month plus every carried-over row,
// dated or not. Balances are not recomputed.
func FilterMonth(rows []models.CupBalance, month models.Month) []models.CupBalance {
	out := make([]models.CupBalance, 0, len(rows))
	for _, r := range rows {
		if r.CarriedOver || r.Date == nil || month.Contains(*r.Date) {
			out = append(out, r)
		}
	}
	return out
}

// movementTotals sums the in and out stock recorded for one category on day,
// skipping carried-over entries.
func movementTotals(list []models.CupMovement, category models.DrinkType, day models.Day) (in, out int) {
	for _, m := range list {
		if m.CarriedOver || m.Category != category || m.Date == nil || !m.Date.Equal(day) {
			continue
		}
		in += m.InStock
		out += m.OutStock
	}
	return in, out
}
