package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bullpen/internal/cache"
	"bullpen/internal/config"
	"bullpen/internal/database"
	"bullpen/internal/entity"
	"bullpen/internal/external"
	"bullpen/internal/handlers"
	"bullpen/internal/logger"
	"bullpen/internal/messaging"
	"bullpen/internal/metrics"
	"bullpen/internal/middleware"
	"bullpen/internal/repository"
	"bullpen/internal/search"
	"bullpen/internal/service"
	"bullpen/internal/workflow"
)

// Server is the back-office HTTP API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	stores   *entity.Stores
	services *service.Services
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	// Valkey and Elasticsearch are soft dependencies: without them the API
	// degrades to uncached entity scans
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		logger.Get().Warn("Valkey unavailable, running without cache", "error", err)
		valkeyClient = nil
	}

	esClient, err := search.NewElasticsearchClient(cfg.Search)
	if err != nil {
		logger.Get().Warn("Elasticsearch unavailable, text search falls back to entity scans", "error", err)
		esClient = nil
	}

	entityClient := entity.NewClient(cfg.Entity)
	stores := entity.NewStores(entityClient)
	gatewayClient := external.NewGatewayClient(cfg.Gateway)

	journal := repository.NewJournalRepository(db)
	notifier := workflow.NewNotifier(stores.Notifications, natsClient)

	cancellation := workflow.NewCancellationWorkflow(stores.Events, stores.Tickets, stores.Refunds, notifier, journal, natsClient)
	refunds := workflow.NewRefundWorkflow(stores.Refunds, stores.Tickets, notifier, gatewayClient, natsClient)
	capacity := workflow.NewCapacityManager(stores.Events, stores.Attendees, notifier, valkeyLocker(valkeyClient), natsClient)

	services := service.NewServices(stores, natsClient, valkeyClient, esClient, cfg.CommissionRatePct)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		stores:   stores,
		services: services,
	}

	server.setupRoutes(cancellation, refunds, capacity)

	return server
}

func (s *Server) setupRoutes(cancellation *workflow.CancellationWorkflow, refunds *workflow.RefundWorkflow, capacity *workflow.CapacityManager) {
	h := handlers.NewHandlers(s.services, cancellation, refunds, capacity)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.stores.Users, s.valkey))
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/export", h.ExportEvents)
			events.PUT("/featured/order", h.ReorderFeatured)
			events.POST("/bulk/approve", h.BulkApproveEvents)
			events.POST("/bulk/reject", h.BulkRejectEvents)
			events.POST("/bulk/delete", h.BulkDeleteEvents)
			events.GET("/:id", h.GetEvent)
			events.DELETE("/:id", h.DeleteEvent)
			events.POST("/:id/approve", h.ApproveEvent)
			events.POST("/:id/reject", h.RejectEvent)
			events.POST("/:id/cancel", h.CancelEvent)
			events.PATCH("/:id/feature", h.FeatureEvent)
			events.PATCH("/:id/capacity", h.UpdateCapacity)
			events.POST("/:id/promote", h.PromoteWaitlist)
			events.GET("/:id/analytics", h.EventAnalytics)
		}

		refundRoutes := api.Group("/refunds")
		{
			refundRoutes.GET("", h.ListRefunds)
			refundRoutes.GET("/:id", h.GetRefund)
			refundRoutes.POST("/:id/approve", h.ApproveRefund)
			refundRoutes.POST("/:id/reject", h.RejectRefund)
			refundRoutes.POST("/:id/process", h.ProcessRefund)
		}

		presets := api.Group("/presets")
		{
			presets.GET("", h.ListPresets)
			presets.POST("", h.SavePreset)
			presets.DELETE("/:id", h.DeletePreset)
		}

		watchlists := api.Group("/watchlists")
		{
			watchlists.GET("", h.ListWatchlists)
			watchlists.POST("", h.CreateWatchlist)
			watchlists.DELETE("/:id", h.DeleteWatchlist)
			watchlists.POST("/:id/symbols", h.AddWatchlistSymbol)
			watchlists.PUT("/:id/symbols", h.ReorderWatchlist)
			watchlists.DELETE("/:id/symbols/:symbol", h.RemoveWatchlistSymbol)
		}

		investments := api.Group("/investments")
		{
			investments.GET("", h.ListInvestments)
			investments.POST("", h.RecordInvestment)
			investments.GET("/positions", h.ListPositions)
		}

		polls := api.Group("/polls")
		{
			polls.GET("/:id", h.GetPoll)
			polls.POST("/:id/vote", h.VotePoll)
			polls.GET("/:id/tally", h.PollTally)
		}

		alerts := api.Group("/alerts")
		{
			alerts.GET("", h.ListAlerts)
			alerts.POST("", h.CreateAlert)
			alerts.PATCH("/:id", h.SetAlertEnabled)
			alerts.DELETE("/:id", h.DeleteAlert)
		}
	}

	// Gateway callbacks are authenticated by payload token, not basic auth
	s.router.POST("/webhooks/gateway", h.OnGatewayUpdate)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "bullpen-api",
		"version": "1.0.0",
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

// valkeyLocker adapts an optional Valkey client to the capacity manager's
// locker. With no Valkey the lock degrades to a no-op.
func valkeyLocker(v *cache.ValkeyClient) workflow.Locker {
	if v == nil {
		return noopLocker{}
	}
	return v
}

type noopLocker struct{}

func (noopLocker) AcquireEventLock(ctx context.Context, eventID string) (bool, error) { return true, nil }
func (noopLocker) ReleaseEventLock(ctx context.Context, eventID string)               {}
