package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ticket-storefront/config"
	"ticket-storefront/internal/admission"
	"ticket-storefront/internal/catalog"
	"ticket-storefront/internal/clock"
	"ticket-storefront/internal/handlers"
	"ticket-storefront/internal/pricing"
	"ticket-storefront/internal/services"
	"ticket-storefront/internal/store"
	"ticket-storefront/models"
	"ticket-storefront/security"
	"ticket-storefront/utils"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go/v7"
	"github.com/redis/go-redis/v9"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()
	slog.SetDefault(utils.NewLogger(cfg.Environment, cfg.LogLevel))

	// Initialize Redis
	redisClient, err := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	clk := clock.NewSystem()
	breaker := utils.BreakerSettings{
		MaxRequests:  uint32(cfg.BreakerMaxRequests),
		Interval:     cfg.BreakerInterval,
		Timeout:      cfg.BreakerTimeout,
		FailureRatio: cfg.BreakerFailureRatio,
	}

	tickets, cards, err := newStores(app, cfg, redisClient, breaker)
	if err != nil {
		return err
	}

	var events catalog.Catalog = catalog.NewStatic(clk, catalog.DefaultEvents()...)
	var pbCatalog *catalog.PocketBase
	if cfg.StorageBackend == "pocketbase" {
		pbCatalog = catalog.NewPocketBase(app, clk)
		events = pbCatalog
	}

	// Initialize services
	inventory := services.NewInventoryService(redisClient, cfg.SeatHoldTTL)
	limits := admission.Limits{
		DefaultMaxTickets:       cfg.DefaultMaxTickets,
		DefaultAvailableTickets: cfg.DefaultAvailableTickets,
	}
	policy := pricing.Policy{ServiceFee: cfg.ServiceFee, TaxRate: cfg.TaxRate}

	checkoutService := services.NewCheckoutService(tickets, inventory, newNotifier(cfg), policy, clk)
	paymentService := services.NewPaymentService(cards, clk, cfg.BcryptCost)
	ticketService := services.NewTicketService(tickets, inventory, clk)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(events, inventory, limits, clk, cfg.MaxSeatsPerOrder, cfg.DemoAvailability)
	checkoutHandler := handlers.NewCheckoutHandler(eventHandler, checkoutService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	limiter := security.NewRateLimiter(redisClient, cfg.PurchaseRateLimit, time.Minute)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: cfg.IsDevelopment(),
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if pbCatalog != nil && cfg.IsDevelopment() {
			if err := pbCatalog.Seed(catalog.DefaultEvents()); err != nil {
				slog.Error("Failed to seed event catalog", "error", err)
			}
		}

		// Catalog and seat map endpoints
		se.Router.GET("/api/v1/events", eventHandler.ListEvents)
		se.Router.GET("/api/v1/events/{eventId}", eventHandler.GetEvent)
		se.Router.GET("/api/v1/events/{eventId}/layout", eventHandler.GetLayout)
		se.Router.POST("/api/v1/events/{eventId}/holds", eventHandler.ToggleHold).BindFunc(limiter.AntiBot)

		// Checkout endpoints
		se.Router.POST("/api/v1/events/{eventId}/quote", checkoutHandler.Quote)
		se.Router.POST("/api/v1/events/{eventId}/purchase", checkoutHandler.Purchase).
			BindFunc(limiter.AntiBot).
			BindFunc(limiter.PurchaseRateLimit)

		// Ticket endpoints
		se.Router.GET("/api/v1/tickets", ticketHandler.ListTickets)
		se.Router.GET("/api/v1/events/{eventId}/tickets", ticketHandler.ListEventTickets)
		se.Router.POST("/api/v1/tickets/{ticketId}/refund", ticketHandler.Refund)
		se.Router.DELETE("/api/v1/tickets/{ticketId}", ticketHandler.Cancel)

		// Payment card endpoints
		se.Router.GET("/api/v1/payment-cards", paymentHandler.ListCards)
		se.Router.POST("/api/v1/payment-cards", paymentHandler.AddCard)
		se.Router.POST("/api/v1/payment-cards/{cardId}/default", paymentHandler.SetDefault)
		se.Router.DELETE("/api/v1/payment-cards/{cardId}", paymentHandler.DeleteCard)

		// Health check
		se.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(e.Request.Context(), redisClient); err != nil {
				return e.JSON(http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
		})

		if cfg.EnableMetrics {
			se.Router.GET("/metrics", apis.WrapStdHandler(promhttp.Handler()))
		}

		slog.Info("Server routes registered", "storage", cfg.StorageBackend, "environment", cfg.Environment)

		setupEventHooks(app, inventory)

		return se.Next()
	})

	return app.Start()
}

// newStores builds the ticket and card collections for the configured
// backend, each behind its own circuit breaker.
func newStores(app core.App, cfg *config.Config, redisClient *redis.Client, breaker utils.BreakerSettings) (store.Collection[models.Ticket], store.Collection[models.PaymentCard], error) {
	var (
		tickets store.Collection[models.Ticket]
		cards   store.Collection[models.PaymentCard]
	)

	switch cfg.StorageBackend {
	case "pocketbase":
		tickets = store.NewPocketBase[models.Ticket](app, store.TicketsCollection, ticketColumns)
		cards = store.NewPocketBase[models.PaymentCard](app, store.CardsCollection, cardColumns)
	case "redis":
		tickets = store.NewRedis[models.Ticket](redisClient, store.TicketsCollection)
		cards = store.NewRedis[models.PaymentCard](redisClient, store.CardsCollection)
	case "memory":
		tickets = store.NewMemory[models.Ticket]()
		cards = store.NewMemory[models.PaymentCard]()
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	tickets = store.WithBreaker(tickets, utils.NewCircuitBreakerWithSettings(store.TicketsCollection, breaker))
	cards = store.WithBreaker(cards, utils.NewCircuitBreakerWithSettings(store.CardsCollection, breaker))
	return tickets, cards, nil
}

func ticketColumns(t models.Ticket) map[string]any {
	return map[string]any{
		"event_id":       t.EventID,
		"reference_code": t.ReferenceCode,
		"status":         string(t.Status),
	}
}

func cardColumns(c models.PaymentCard) map[string]any {
	return map[string]any{
		"last4":      c.Last4,
		"is_default": c.IsDefault,
	}
}

func newNotifier(cfg *config.Config) services.Notifier {
	if cfg.PubNubPublishKey == "" || cfg.PubNubSubscribeKey == "" {
		slog.Info("PubNub keys not set, purchase notifications disabled")
		return services.NopNotifier{}
	}

	pnConfig := pubnub.NewConfigWithUserId(pubnub.UserId(cfg.PubNubUserID))
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	return services.NewPubNubNotifier(pubnub.NewPubNub(pnConfig))
}

// setupEventHooks keeps Redis inventory in step with catalog records edited
// from the admin dashboard.
func setupEventHooks(app *pocketbase.PocketBase, inventory *services.InventoryService) {
	app.OnRecordDeleteRequest(catalog.EventsCollection).BindFunc(func(e *core.RecordRequestEvent) error {
		eventID := e.Record.GetString("event_id")

		if err := e.Next(); err != nil {
			return err
		}

		if err := inventory.ClearEvent(e.Request.Context(), eventID); err != nil {
			slog.Error("Failed to clear inventory for deleted event",
				"eventID", eventID,
				"error", err,
				"hook", "OnRecordDeleteRequest",
			)
			return nil
		}
		slog.Info("Cleared inventory for deleted event", "eventID", eventID)
		return nil
	})
}
