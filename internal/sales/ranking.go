package sales

import (
	"sort"

	"github.com/matthieukhl/drinkstand/internal/models"
)

type MenuCount struct {
	Menu  string `json:"menu"`
	Count int    `json:"count"`
}

type BusyDay struct {
	Date    models.Day `json:"date"`
	Count   int        `json:"count"`
	TopMenu string     `json:"top_menu"`
}

// RankMenus counts completed orders per menu item, optionally for one drink
// type, and returns the top limit entries. Ties go to the lexically smaller name.
func RankMenus(orders []models.Order, drink models.DrinkType, limit int) []MenuCount {
	counts := make(map[string]int)
	for _, o := range orders {
		if o.Status != models.StatusCompleted {
			continue
		}
		if drink != "" && o.DrinkType != drink {
			continue
		}
		counts[o.Menu]++
	}

	ranked := make([]MenuCount, 0, len(counts))
	for menu, n := range counts {
		ranked = append(ranked, MenuCount{Menu: menu, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Menu < ranked[j].Menu
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// BusiestDays returns the days with the most completed orders, each with its best seller.
func (a Aggregator) BusiestDays(orders []models.Order, limit int) []BusyDay {
	byDay := make(map[models.Day][]models.Order)
	for _, o := range orders {
		if o.Status != models.StatusCompleted {
			continue
		}
		day := models.DayOf(o.CreatedAt, a.Location)
		byDay[day] = append(byDay[day], o)
	}

	days := make([]BusyDay, 0, len(byDay))
	for day, list := range byDay {
		bd := BusyDay{Date: day, Count: len(list)}
		if top := RankMenus(list, "", 1); len(top) > 0 {
			bd.TopMenu = top[0].Menu
		}
		days = append(days, bd)
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Count != days[j].Count {
			return days[i].Count > days[j].Count
		}
		return days[i].Date.Before(days[j].Date)
	})

	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	return days
}
