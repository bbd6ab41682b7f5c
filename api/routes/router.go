package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/charts"
	"boxoffice/internal/checkout"
	"boxoffice/internal/events"
	"boxoffice/internal/notifications"
	"boxoffice/internal/pricing"
	"boxoffice/internal/promos"
	"boxoffice/internal/seating"
	"boxoffice/internal/seats"
	"boxoffice/internal/shared/config"
	"boxoffice/internal/shared/database"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/tickettypes"
	"boxoffice/pkg/cache"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.Producer

	cacheService cache.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupFeatureRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "boxoffice",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "boxoffice",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/metrics", middleware.MetricsHandler())
}

// setupFeatureRoutes wires every feature package. Construction order
// matters: seat selection needs the cart service, the seating
// configuration needs seats, and seats resolve prices back through the
// seating mappings via a setter to break the cycle.
func (r *Router) setupFeatureRoutes(api *gin.RouterGroup) {
	pg := r.db.GetPostgreSQL()
	r.cacheService = cache.NewService(r.db.GetRedisClient())

	// Events and service charge configuration.
	eventRepo := events.NewRepository(pg)
	eventService := events.NewService(eventRepo, r.config.Ticketing.DefaultCurrency)
	eventService.SetCacheService(r.cacheService)
	events.SetupEventRoutes(api, events.NewController(eventService))

	// Ticket types.
	ticketTypeRepo := tickettypes.NewRepository(pg)
	ticketTypeService := tickettypes.NewService(ticketTypeRepo, eventService)
	ticketTypeService.SetCacheService(r.cacheService)
	tickettypes.SetupTicketTypeRoutes(api, tickettypes.NewController(ticketTypeService))

	// Promo codes.
	promoRepo := promos.NewRepository(pg)
	promoService := promos.NewService(promoRepo, r.config.Ticketing.PromoMatchPolicy)
	promos.SetupPromoRoutes(api, promos.NewController(promoService))

	// Venue charts.
	chartRepo := charts.NewRepository(pg)
	chartService := charts.NewService(chartRepo)
	chartService.SetCacheService(r.cacheService)
	charts.SetupChartRoutes(api, charts.NewController(chartService))

	// Cart and pricing.
	cartService := pricing.NewService(r.cacheService, eventService, ticketTypeService, promoService)
	pricing.SetupCartRoutes(api, pricing.NewController(cartService))

	// Seat inventory and blocking.
	seatRepo := seats.NewRepository(pg)
	seatService := seats.NewService(seatRepo, r.db.GetRedisClient(), eventService, cartService,
		r.config.Ticketing.MaxSeatSelection, r.config.Redis.SeatSelectionTTL)
	seatService.SetProducer(r.producer)
	seats.SetupSeatRoutes(api, seats.NewController(seatService))

	// Seating configuration; resolves seat prices for the seats package.
	seatingRepo := seating.NewRepository(pg)
	seatingService := seating.NewService(seatingRepo, eventService, chartService, seatService,
		ticketTypeService, seating.NewNoopDesignerClient())
	seatService.SetMappingSource(seatingService)
	cartService.SetSeatPriceSource(seatingService)
	seating.SetupSeatingRoutes(api, seating.NewController(seatingService))

	// Checkout and orders.
	orderRepo := checkout.NewRepository(pg)
	checkoutService := checkout.NewService(orderRepo, cartService, promoService, seatService,
		ticketTypeService, checkout.NewFakePaymentClient(), r.producer)
	checkout.SetupCheckoutRoutes(api, checkout.NewController(checkoutService))
}
