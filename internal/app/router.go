package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"partybus/internal/handler"
	"partybus/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OperatorHandler *handler.OperatorHandler
	BusHandler      *handler.BusHandler
	BookingHandler  *handler.BookingHandler
	StopHandler     *handler.StopHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint.
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Operator routes.
		operators := v1.Group("/operators")
		{
			operators.POST("", deps.OperatorHandler.Register)
			operators.GET("", deps.OperatorHandler.GetAll)
			operators.POST("/:id/approve", deps.OperatorHandler.Approve)
			operators.GET("/:id/stop-stats", deps.StopHandler.OperatorStats)
		}

		// Bus search routes.
		buses := v1.Group("/buses")
		{
			buses.GET("", deps.BusHandler.GetAll)
		}

		// Booking routes, including the nested stop-request collection.
		bookings := v1.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.Create)
			bookings.GET("", deps.BookingHandler.GetAll)
			bookings.GET("/:id", deps.BookingHandler.Get)
			bookings.POST("/:id/stops", deps.StopHandler.Create)
			bookings.GET("/:id/stops", deps.StopHandler.ListForBooking)
		}

		// Stop request routes (driver facing).
		stops := v1.Group("/stops")
		{
			stops.GET("/:id", deps.StopHandler.Get)
			stops.POST("/:id/decision", deps.StopHandler.Decide)
		}
	}

	return router
}
