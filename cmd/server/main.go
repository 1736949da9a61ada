package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/api/middleware"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/cache"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/config"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/database"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/logging"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/scheduler"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // nothing useful to do on exit
	zap.ReplaceGlobals(logger)

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}
	logger.Info("connected to database", zap.String("path", cfg.Database.Path))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create services
	datasetService := service.NewDatasetService(
		repository.NewDatasetRepository(db),
		cfg.Data.Seed,
		cfg.Data.Months,
		logger,
	)
	base, err := datasetService.LoadOrSeed(ctx)
	if err != nil {
		return err
	}
	sessionService := service.NewSessionService(datasetService, base, cfg.Session.IdleTimeout, logger)
	dashboardService := service.NewDashboardService(logger)

	responseCache, err := newCache(cfg.Cache)
	if err != nil {
		return err
	}
	defer responseCache.Close()

	systemService := service.NewSystemService(db, responseCache, map[string]bool{
		"redis_cache":    cfg.Cache.RedisAddr != "",
		"rate_limit":     cfg.RateLimit.RPS > 0,
		"scheduled_seed": cfg.Data.ReseedSchedule != "",
		"admin_api":      os.Getenv("INTERNAL_API_KEY") != "",
	})

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Background jobs
	sched := scheduler.New(logger)
	if err := sched.Add("reseed", cfg.Data.ReseedSchedule,
		scheduler.ReseedJob(datasetService, sessionService, responseCache, logger)); err != nil {
		return err
	}
	var pruner scheduler.Pruner
	if limiter != nil {
		pruner = limiter
	}
	if err := sched.Add("sweep", cfg.Session.SweepSchedule,
		scheduler.SweepJob(sessionService, pruner, cfg.Session.IdleTimeout, logger)); err != nil {
		return err
	}

	// Create router
	router := api.NewRouter(api.Dependencies{
		SystemService:    systemService,
		DatasetService:   datasetService,
		SessionService:   sessionService,
		DashboardService: dashboardService,
		Cache:            responseCache,
		RateLimiter:      limiter,
		Logger:           logger,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version.Version),
			zap.String("dataset_version", base.Version),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server exited")
	return nil
}

// newCache returns a Redis cache when an address is configured and an in-memory one otherwise.
func newCache(cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache(cfg.MaxEntries), nil
	}
	rc, err := cache.NewRedisCache(cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}
