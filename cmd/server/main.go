package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/palemoky/chinese-genre-classifier/internal/api/rest"
	"github.com/palemoky/chinese-genre-classifier/internal/classifier"
	"github.com/palemoky/chinese-genre-classifier/internal/config"
	"github.com/palemoky/chinese-genre-classifier/internal/database"
	"github.com/palemoky/chinese-genre-classifier/internal/logger"
	"github.com/palemoky/chinese-genre-classifier/internal/metrics"
	"github.com/palemoky/chinese-genre-classifier/internal/service"
	"github.com/palemoky/chinese-genre-classifier/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, cfgErr := config.Load(*configPath)
	if cfgErr != nil {
		var err error
		if cfg, err = config.Load(""); err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}
	}

	// Initialize logger
	logger.Init(logger.Options{
		Debug: cfg.Log.Debug || cfg.Server.Mode == "debug",
		Level: cfg.Log.Level,
	})
	defer logger.Sync()

	if cfgErr != nil {
		logger.Warn("Failed to load config file, using defaults", zap.String("path", *configPath), zap.Error(cfgErr))
	}

	if err := run(cfg); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server exited")
}

func run(cfg *config.Config) error {
	logger.Info("Starting genre classifier server",
		zap.String("database", cfg.Database.Path),
		zap.Int("port", cfg.Server.Port),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Int("cache_size", cfg.Database.CacheSize),
	)

	// Open database with configured connection pool
	db, err := database.Open(cfg.Database.Path, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Create repository
	var repo database.RepositoryInterface = database.NewRepository(db)
	if cfg.Database.CacheSize > 0 {
		cached, err := database.NewCachedRepository(database.NewRepository(db), cfg.Database.CacheSize)
		if err != nil {
			return fmt.Errorf("failed to create cache: %w", err)
		}
		repo = cached
	}

	classifierOpts := cfg.Classifier.Options()
	classifierOpts.Logger = logger.Named("classifier")
	c, err := classifier.New(classifierOpts)
	if err != nil {
		return fmt.Errorf("failed to create classifier: %w", err)
	}

	m := metrics.New()
	opts := service.Options{
		Classifier:    c,
		Repository:    repo,
		Metrics:       m,
		Logger:        logger.L,
		MaxTextLength: cfg.Classifier.MaxTextLength,
		MaxBatchSize:  cfg.Classifier.MaxBatchSize,
	}
	if cfg.Tracing.Enabled {
		tp := telemetry.NewTracerProvider(logger.L, cfg.Tracing.SampleRatio)
		defer func() { _ = tp.Shutdown(context.Background()) }()
		opts.TracerProvider = tp
	}
	svc, err := service.New(opts)
	if err != nil {
		return err
	}

	// Setup Gin router
	router := rest.SetupRouter(cfg, rest.Dependencies{
		DB:         db,
		Repository: repo,
		Service:    svc,
		Metrics:    m,
		Logger:     logger.L,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started",
			zap.Int("port", cfg.Server.Port),
			zap.String("rest_api", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port)),
			zap.String("metrics", fmt.Sprintf("http://localhost:%d/metrics", cfg.Server.Port)),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}
	return nil
}
