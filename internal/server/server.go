package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matthieukhl/drinkstand/internal/cups"
	"github.com/matthieukhl/drinkstand/internal/orders"
	"github.com/matthieukhl/drinkstand/internal/sales"
	"go.uber.org/zap"
)

const version = "0.1.0"

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Services struct {
	Orders *orders.Service
	Sales  *sales.Service
	Cups   *cups.Service
}

type Server struct {
	router     *gin.Engine
	store      HealthChecker
	svc        Services
	logger     *zap.Logger
	httpServer *http.Server
}

// NewServer creates a new server instance
func NewServer(store HealthChecker, svc Services, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(requestID(), accessLog(logger), gin.Recovery())

	server := &Server{
		router: router,
		store:  store,
		svc:    svc,
		logger: logger.Named("http"),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.healthCheck)
		api.GET("/menu", s.getMenu)

		api.GET("/orders", s.listOrders)
		api.POST("/orders", s.createOrder)
		api.PATCH("/orders/:id", s.updateOrderStatus)
	}

	salesAPI := api.Group("/sales")
	{
		salesAPI.GET("/summary", s.getSummary)
		salesAPI.GET("/reconciliation", s.getReconciliation)
		salesAPI.GET("/reports", s.getReports)
		salesAPI.PUT("/reports", s.putReport)
		salesAPI.GET("/ranking", s.getRanking)
		salesAPI.GET("/daily", s.getDailyStats)
		salesAPI.GET("/monthly", s.getMonthlyStats)
	}

	cupsAPI := api.Group("/cups")
	{
		cupsAPI.GET("/start", s.getStartCups)
		cupsAPI.PUT("/start", s.putStartCup)
		cupsAPI.GET("/tally", s.getTally)
		cupsAPI.GET("/movements", s.getMovements)
		cupsAPI.POST("/movements", s.postMovement)
		cupsAPI.GET("/plan", s.getPlan)
		cupsAPI.PUT("/plan", s.putPlan)
		cupsAPI.GET("/available", s.getAvailable)
		cupsAPI.GET("/summary", s.getCupSummary)
		cupsAPI.POST("/auto-close", s.postAutoClose)
	}
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.store.HealthCheck(c.Request.Context()); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "drinkstand",
		"version": version,
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
// within shutdownTimeout.
func (s *Server) Start(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
