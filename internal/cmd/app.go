package cmd

import (
	"context"
	"fmt"

	"github.com/matthieukhl/drinkstand/internal/config"
	"github.com/matthieukhl/drinkstand/internal/cups"
	"github.com/matthieukhl/drinkstand/internal/database"
	"github.com/matthieukhl/drinkstand/internal/logging"
	"github.com/matthieukhl/drinkstand/internal/memstore"
	"github.com/matthieukhl/drinkstand/internal/models"
	"github.com/matthieukhl/drinkstand/internal/orders"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"go.uber.org/zap"
)

// store is everything the services need from a backing store.
type store interface {
	orders.Store
	cups.Store
	sales.ReportStore
	HealthCheck(ctx context.Context) error
	Close() error
}

var (
	_ store = (*database.DB)(nil)
	_ store = (*memstore.Store)(nil)
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  store
	orders *orders.Service
	sales  *sales.Service
	cups   *cups.Service

	closeLog func() error
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// loadApp reads configuration and opens the logger only.
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return &app{cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

// bootstrap loads configuration, connects the store and builds the services.
func bootstrap() (*app, error) {
	a, err := loadApp()
	if err != nil {
		return nil, err
	}

	switch a.cfg.DB.Driver {
	case "memory":
		a.store = memstore.New()
	case "mysql", "":
		db, err := database.NewConnection(&a.cfg.DB)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.store = db
	default:
		a.Close()
		return nil, fmt.Errorf("unknown db driver %q", a.cfg.DB.Driver)
	}

	if err := a.buildServices(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) buildServices() error {
	b := a.cfg.Business
	loc := b.Location()

	cutoff, err := sales.ParseCutoff(b.ShiftCutoff)
	if err != nil {
		return err
	}
	policy, err := orders.ParseTransitionPolicy(b.Transitions)
	if err != nil {
		return err
	}

	agg := sales.Aggregator{
		Cutoff:   cutoff,
		Location: loc,
		Prices:   []int{b.StandardPrice, b.PremiumPrice},
	}
	pricer := orders.NewPricer(b.StandardPrice, b.PremiumPrice, b.PremiumItems)

	a.orders = orders.NewService(a.store, pricer, policy, loc, a.logger)
	a.sales = sales.NewService(a.store, a.store, agg, a.logger)
	a.cups = cups.NewService(a.store, a.store, agg, b.CupBaseline, b.ClosingLookbackDays, a.logger)
	return nil
}

// parseDayFlag returns the zero Day for an empty flag.
func parseDayFlag(name, value string) (models.Day, error) {
	if value == "" {
		return models.Day{}, nil
	}
	day, err := models.ParseDay(value)
	if err != nil {
		return models.Day{}, fmt.Errorf("--%s: %w", name, err)
	}
	return day, nil
}
