package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/repositories"
	"github.com/anonto42/buddyscript/backend/internal/router"
	"github.com/anonto42/buddyscript/backend/pkg/cache"
	"github.com/anonto42/buddyscript/backend/pkg/config"
	"github.com/anonto42/buddyscript/backend/pkg/firebase"
	"github.com/anonto42/buddyscript/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	appLogger := logger.New(cfg.Env)
	slog.SetDefault(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	deps := router.Dependencies{
		Config:   cfg,
		Postgres: db.Postgres,
		Logger:   appLogger,
	}
	if db.Mongo != nil {
		deps.Media = repositories.NewMongoMediaRepository(db.Mongo.Database(cfg.MongoDatabase))
	}

	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("Redis unavailable, using in-process rate limits: %v", err)
		} else {
			defer redisClient.Close()
			deps.Redis = redisClient
		}
	}

	// Firebase sign-in is optional
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		deps.FirebaseAuth = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Setup global middleware
	router.SetupMiddleware(e, cfg, appLogger)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, deps); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("api server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("api server shutdown", slog.Any("error", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("metrics server shutdown", slog.Any("error", err))
	}
	log.Println("Server stopped.")
}
