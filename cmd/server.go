package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EUrbana.dashboard/internal/analytics"
	"EUrbana.dashboard/internal/cache"
	"EUrbana.dashboard/internal/config"
	"EUrbana.dashboard/internal/controller"
	"EUrbana.dashboard/internal/metrics"
	"EUrbana.dashboard/internal/middleware"
	"EUrbana.dashboard/internal/models"
	"EUrbana.dashboard/internal/repository"
	"EUrbana.dashboard/internal/routes"
	"EUrbana.dashboard/internal/service"
	"EUrbana.dashboard/internal/session"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics()
	backend := repository.NewBackendRepository(cfg.APIURL, cfg.BackendTimeout, cfg.BackendRetries, m)

	var archive repository.ReadingArchive
	if cfg.InfluxEnabled() {
		influx := repository.NewInfluxDBRepository(cfg.InfluxDBURL, cfg.InfluxDBToken, cfg.InfluxDBOrg, cfg.InfluxDBBucket)
		if err := influx.EnsureBucket(ctx); err != nil {
			log.Printf("InfluxDB unavailable, consumption archive disabled: %v", err)
			influx.Close()
		} else {
			log.Printf("✅ Consumption archive ready in bucket '%s'", cfg.InfluxDBBucket)
			archive = influx
			defer influx.Close()
		}
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("Error initializing Redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		log.Println("REDIS_ADDR not set, keeping sessions in memory")
	}
	sessions := session.NewManager(store, backend, cfg.SessionTTL, m)

	// Initialize pipeline, service, and controllers
	pipeline := analytics.New(analytics.Config{Location: cfg.Location()})
	snapshots := cache.New[analytics.Snapshot](cfg.CacheTTL, m)
	history := cache.New[models.HistoryResponse](cfg.CacheTTL, m)
	svc := service.NewDashboardService(backend, archive, pipeline, snapshots, history, m)

	mw := routes.Middlewares{
		Session:     middleware.RequireSession(sessions),
		RequireRole: middleware.RequireRole,
	}
	if cfg.JWTSecret != "" {
		mw.ValidToken, err = middleware.EnsureValidToken(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
		if err != nil {
			log.Fatalf("Error configuring token validation: %v", err)
		}
	}

	router := mux.NewRouter()
	router.Use(m.Middleware)
	routes.RegisterRoutes(router, routes.Controllers{
		Auth:        controller.NewAuthController(sessions),
		Dashboard:   controller.NewDashboardController(svc),
		Lamps:       controller.NewLampController(svc),
		Consumption: controller.NewConsumptionController(svc),
		Maintenance: controller.NewMaintenanceController(svc),
		Users:       controller.NewUserController(svc),
	}, mw, m.Handler())

	// CORS setup
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})
	var handler http.Handler = router
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)
	handler = handlers.CombinedLoggingHandler(os.Stdout, handler)
	handler = middleware.RequestID(handler)
	handler = c.Handler(handler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server is running at: http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
