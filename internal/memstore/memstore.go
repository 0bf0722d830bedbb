// Package memstore keeps every record in process memory. It backs the
// "memory" database driver and the service tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
)

type startCupKey struct {
	day   string
	shift models.Shift
	drink models.DrinkType
}

type reportKey struct {
	day   string
	shift models.Shift
}

type Store struct {
	mu sync.Mutex

	orders      []models.Order
	nextOrderID int64

	movements      []models.CupMovement
	nextMovementID int64

	closings  map[string]models.CupClosing
	plans     map[string]models.CupPlan
	startCups map[startCupKey]models.StartCup

	reports      map[reportKey]models.SalesReport
	nextReportID int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		closings:  make(map[string]models.CupClosing),
		plans:     make(map[string]models.CupPlan),
		startCups: make(map[startCupKey]models.StartCup),
		reports:   make(map[reportKey]models.SalesReport),
		now:       time.Now,
	}
}

func (s *Store) HealthCheck(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close() error { return nil }

func (s *Store) InsertOrder(ctx context.Context, o models.Order) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	o.ID = s.nextOrderID
	s.orders = append(s.orders, o)
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, models.ErrNotFound
}

func (s *Store) ListOrders(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Order
	for _, o := range s.orders {
		if !from.IsZero() && o.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && !o.CreatedAt.Before(to) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return s.orders[i], nil
		}
	}
	return models.Order{}, models.ErrNotFound
}

func (s *Store) AppendMovement(ctx context.Context, m models.CupMovement) (models.CupMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMovementID++
	m.ID = s.nextMovementID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now().UTC()
	}
	s.movements = append(s.movements, m)
	return m, nil
}

func (s *Store) ListMovements(ctx context.Context, category models.DrinkType) ([]models.CupMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.CupMovement
	for _, m := range s.movements {
		if category == "" || m.Category == category {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Store) ClosingExists(ctx context.Context, day models.Day) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.closings[day.String()]
	return ok, nil
}

func (s *Store) InsertClosing(ctx context.Context, c models.CupClosing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.closings[c.Date.String()]; ok {
		return models.ErrAlreadyExists
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	s.closings[c.Date.String()] = c
	return nil
}

func (s *Store) ListClosings(ctx context.Context, from, to models.Day) ([]models.CupClosing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.CupClosing
	for _, c := range s.closings {
		if c.Date.Before(from) || c.Date.After(to) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) UpsertPlan(ctx context.Context, p models.CupPlan) (models.CupPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.UpdatedAt = s.now().UTC()
	s.plans[p.Date.String()] = p
	return p, nil
}

func (s *Store) GetPlan(ctx context.Context, day models.Day) (models.CupPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[day.String()]
	if !ok {
		return models.CupPlan{}, models.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpsertStartCup(ctx context.Context, sc models.StartCup) (models.StartCup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc.UpdatedAt = s.now().UTC()
	s.startCups[startCupKey{day: sc.Date.String(), shift: sc.Shift, drink: sc.DrinkType}] = sc
	return sc, nil
}

func (s *Store) ListStartCups(ctx context.Context, day models.Day) ([]models.StartCup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.StartCup
	for key, sc := range s.startCups {
		if key.day == day.String() {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shift != out[j].Shift {
			return out[i].Shift < out[j].Shift
		}
		return out[i].DrinkType < out[j].DrinkType
	})
	return out, nil
}

func (s *Store) UpsertSalesReport(ctx context.Context, r models.SalesReport) (models.SalesReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := reportKey{day: r.Date.String(), shift: r.Shift}
	if existing, ok := s.reports[key]; ok {
		r.ID = existing.ID
	} else {
		s.nextReportID++
		r.ID = s.nextReportID
	}
	r.UpdatedAt = s.now().UTC()
	s.reports[key] = r
	return r, nil
}

func (s *Store) ListSalesReports(ctx context.Context, day models.Day) ([]models.SalesReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.SalesReport
	for key, r := range s.reports {
		if key.day == day.String() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Shift < out[j].Shift })
	return out, nil
}
