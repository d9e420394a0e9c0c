package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"partybus/internal/app"
	"partybus/internal/config"
	"partybus/internal/handler"
	internalRedis "partybus/internal/redis"
	"partybus/internal/repository/memory"
	"partybus/internal/repository/postgres"
	"partybus/internal/routing"
	"partybus/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Wire dependencies.
	server, closers := wireServer(db, redisClient, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	for _, closeFn := range closers {
		closeFn()
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server plus the
// cleanup functions to run after shutdown.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) (*http.Server, []func()) {
	// Initialize Redis stores.
	lockStore := internalRedis.NewLockStore(redisClient)
	statsStore := internalRedis.NewStatsStore(redisClient)
	cacheStore := internalRedis.NewCacheStore(redisClient)

	// Initialize repositories. Stop requests are short-lived workflow state
	// and live in memory alongside their response timers.
	operatorRepo := postgres.NewOperatorRepository(db)
	busRepo := postgres.NewBusRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	stopRepo := memory.NewStopRequestRepository()

	// Initialize the detour estimator. Without a routing backend the service
	// runs on the fixed default estimate.
	var estimator routing.Estimator
	if cfg.Routing.BaseURL != "" {
		estimator = routing.NewHTTPEstimator(cfg.Routing.BaseURL)
	} else {
		log.Println("ROUTING_BASE_URL not set, using fixed detour estimates")
		estimator = routing.FixedEstimator{DetourMinutes: cfg.Stops.DefaultDetourMinutes}
	}

	// Initialize services.
	var notificationService *service.NotificationService
	if len(cfg.Kafka.Brokers) > 0 {
		notificationService = service.NewNotificationServiceWithKafka(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Printf("Notification events publishing to Kafka topic %s", cfg.Kafka.Topic)
	} else {
		notificationService = service.NewNotificationService()
	}

	stopCfg := service.DefaultStopWorkflowConfig()
	stopCfg.ResponseWindow = cfg.Stops.ResponseWindow
	stopCfg.DefaultDetourMinutes = cfg.Stops.DefaultDetourMinutes
	stopCfg.MaxStopDurationMinutes = cfg.Stops.MaxStopDurationMinutes
	stopCfg.RoutingTimeout = cfg.Routing.Timeout

	stopService := service.NewStopRequestService(stopRepo, bookingRepo, busRepo, estimator, lockStore, statsStore, notificationService, stopCfg)
	bookingService := service.NewBookingService(db, bookingRepo, customerRepo, busRepo, operatorRepo, notificationService)
	operatorService := service.NewOperatorService(db, operatorRepo, busRepo, cacheStore, notificationService)
	busService := service.NewBusService(busRepo, cacheStore)

	// Initialize handlers.
	operatorHandler := handler.NewOperatorHandler(operatorService)
	busHandler := handler.NewBusHandler(busService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	stopHandler := handler.NewStopHandler(stopService)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		OperatorHandler: operatorHandler,
		BusHandler:      busHandler,
		BookingHandler:  bookingHandler,
		StopHandler:     stopHandler,
		RedisClient:     redisClient,
		NewRelicApp:     nrApp,
	})

	closers := []func(){
		stopService.Close,
		func() {
			if err := notificationService.Close(); err != nil {
				log.Printf("failed to close notification service: %v", err)
			}
		},
	}

	// Create HTTP server.
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return server, closers
}
