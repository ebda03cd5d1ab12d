package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/esc-directory/consultants/internal/api"
	"github.com/esc-directory/consultants/internal/migrations"
	"github.com/esc-directory/consultants/internal/repository"
	"github.com/esc-directory/consultants/internal/seed"
	"github.com/esc-directory/consultants/internal/services"
	"github.com/esc-directory/consultants/pkg/config"
	"github.com/esc-directory/consultants/pkg/database"
	"github.com/esc-directory/consultants/pkg/logger"
	"github.com/esc-directory/consultants/pkg/metrics"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("starting consultant directory",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, log, database.Options{
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		Debug:        cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("database close error", zap.Error(err))
		}
	}()
	log.Info("database connected")

	if err := migrations.Run(db); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	m := metrics.New()
	repo := repository.NewConsultantRepository(db)
	consultants := services.NewConsultantService(repo, m)
	directory := services.NewDirectoryService(repo)

	if cfg.SeedOnStart {
		n, err := seed.Load(ctx, consultants)
		if err != nil {
			log.Fatal("seed failed", zap.Error(err))
		}
		log.Info("built-in consultants loaded", zap.Int64("inserted", n))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("database handle unavailable", zap.Error(err))
	}

	router := api.NewRouter(api.Dependencies{
		Consultants: consultants,
		Directory:   directory,
		DB:          sqlDB,
		Metrics:     m,
		CORSOrigins: cfg.CORSAllowedOrigins,
		RateRPS:     cfg.RateLimitRPS,
		RateBurst:   cfg.RateLimitBurst,
		TrustProxy:  cfg.TrustProxyHeaders,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
