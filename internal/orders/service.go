package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/validation"
	"go.uber.org/zap"
)

// Store is the order record store.
type Store interface {
	InsertOrder(ctx context.Context, o models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	// ListOrders returns orders created in [from, to), newest first. Zero bounds are open.
	ListOrders(ctx context.Context, from, to time.Time) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (models.Order, error)
}

// TransitionPolicy lists, per current status, the statuses an order may move to.
type TransitionPolicy map[models.OrderStatus][]models.OrderStatus

// ParseTransitionPolicy builds a policy from configuration. Targets other than
// completed and cancelled are rejected.
func ParseTransitionPolicy(raw map[string][]string) (TransitionPolicy, error) {
	policy := make(TransitionPolicy, len(raw))
	for from, targets := range raw {
		fromStatus, ok := ParseStatus(from)
		if !ok {
			return nil, fmt.Errorf("unknown status %q in transitions", from)
		}
		for _, to := range targets {
			toStatus, ok := ParseStatus(to)
			if !ok || toStatus == models.StatusPending {
				return nil, fmt.Errorf("invalid transition target %q from %q", to, from)
			}
			policy[fromStatus] = append(policy[fromStatus], toStatus)
		}
	}
	return policy, nil
}

func (p TransitionPolicy) Allows(from, to models.OrderStatus) bool {
	for _, allowed := range p[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Service struct {
	store  Store
	pricer Pricer
	policy TransitionPolicy
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store Store, pricer Pricer, policy TransitionPolicy, loc *time.Location, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		pricer: pricer,
		policy: policy,
		loc:    loc,
		now:    time.Now,
		logger: logger.Named("orders"),
	}
}

// WithClock replaces the clock used to stamp new orders.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Menu() []models.MenuItem {
	return s.pricer.Menu()
}

// Create validates a submission and stores it as a pending order.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Order, error) {
	if err := validation.Struct(in); err != nil {
		return models.Order{}, err
	}

	receipt := models.ReceiptStatus(in.ReceiptStatus)
	if receipt == "" {
		receipt = models.ReceiptUnreceived
	}

	order := models.Order{
		CreatedAt:     s.now().UTC(),
		DrinkType:     models.DrinkType(in.DrinkType),
		Menu:          in.Menu,
		Price:         s.pricer.Price(in.Menu),
		Milk:          in.Milk,
		Sugar:         in.Sugar,
		TableNumber:   in.TableNumber,
		PaymentMethod: in.PaymentMethod,
		ReceiptStatus: receipt,
		CashAmount:    in.CashAmount,
		Note:          in.Note,
		Status:        models.StatusPending,
	}

	stored, err := s.store.InsertOrder(ctx, order)
	if err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return models.Order{}, fmt.Errorf("cannot save order: %w", err)
	}

	s.logger.Info("Order created",
		zap.Int64("id", stored.ID),
		zap.String("menu", stored.Menu),
		zap.Int("price", stored.Price),
		zap.Int("table", stored.TableNumber))
	return stored, nil
}

// ListByDate returns the orders of a business day, or every order when day is zero.
func (s *Service) ListByDate(ctx context.Context, day models.Day) ([]models.Order, error) {
	var from, to time.Time
	if !day.IsZero() {
		from, to = day.Start(s.loc), day.End(s.loc)
	}
	list, err := s.store.ListOrders(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("cannot list orders: %w", err)
	}
	return list, nil
}

// UpdateStatus moves an existing order to completed or cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id int64, in StatusInput) (models.Order, error) {
	if id <= 0 {
		return models.Order{}, models.NewValidationError("id", "must be a positive number")
	}
	if err := validation.Struct(in); err != nil {
		return models.Order{}, err
	}
	target, _ := ParseStatus(in.Status)

	current, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Order{}, fmt.Errorf("order %d: %w", id, err)
		}
		return models.Order{}, fmt.Errorf("cannot load order %d: %w", id, err)
	}

	if current.Status == target {
		return current, nil
	}
	if !s.policy.Allows(current.Status, target) {
		return models.Order{}, fmt.Errorf("order %d %s -> %s: %w", id, current.Status, target, models.ErrInvalidTransition)
	}

	updated, err := s.store.UpdateOrderStatus(ctx, id, target)
	if err != nil {
		return models.Order{}, fmt.Errorf("cannot update order %d: %w", id, err)
	}

	s.logger.Info("Order status updated",
		zap.Int64("id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(target)))
	return updated, nil
}
