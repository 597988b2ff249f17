package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/article-engagement-api/internal/api"
	"github.com/article-engagement-api/internal/config"
	"github.com/article-engagement-api/internal/database"
	"github.com/article-engagement-api/internal/identity"
	"github.com/article-engagement-api/internal/metrics"
	"github.com/article-engagement-api/internal/repository"
	"github.com/article-engagement-api/internal/service"
	"github.com/article-engagement-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back the last migration and exit")
	flag.Parse()

	// Bootstrap logger until configuration is loaded
	log := logger.New("info", "json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("auth_mode", cfg.Auth.Mode).Msg("Starting article engagement API server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if *migrateDown {
		if err := db.MigrateDown(cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migrations")
		}
		log.Info().Msg("Migration rollback finished")
		return
	}

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	if err := metrics.RegisterDBStats(db.DB, cfg.Database.Name); err != nil {
		log.Warn().Err(err).Msg("Failed to register database metrics")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	services := service.NewServices(repos, cfg, log)

	gate, err := identity.NewGate(cfg.Auth, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize identity gate")
	}

	// Initialize router
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(services, gate, db, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
