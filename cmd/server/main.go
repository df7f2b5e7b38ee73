package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/rateengine/internal/adapter/http"
	"github.com/iho/rateengine/internal/adapter/http/handler"
	"github.com/iho/rateengine/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/rateengine/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/rateengine/internal/adapter/repository/redis"
	"github.com/iho/rateengine/internal/infrastructure/config"
	"github.com/iho/rateengine/internal/infrastructure/logger"
	"github.com/iho/rateengine/internal/infrastructure/metrics"
	"github.com/iho/rateengine/internal/infrastructure/postgres"
	"github.com/iho/rateengine/internal/infrastructure/redis"
	"github.com/iho/rateengine/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	positionRepo := postgresRepo.NewPositionRepository(pool)
	lockRepo := postgresRepo.NewLockRepository(pool)
	poolRepo := postgresRepo.NewPoolRepository(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	volumeStore := redisRepo.NewDepositVolumeStore(redisClient)

	// Initialize use cases
	m := metrics.New()
	aggregatorUC := usecase.NewPoolAggregatorUseCase(poolRepo, assetCurves(), usecase.DefaultRateCurve(), m, appLogger)
	positionAccrualUC := usecase.NewPositionAccrualUseCase(positionRepo, poolRepo, aggregatorUC, retrier, idGen, appLogger)
	lockAccrualUC := usecase.NewLockAccrualUseCase(lockRepo, aggregatorUC, retrier, idGen, appLogger)
	quoteUC := usecase.NewQuoteUseCase(poolRepo, volumeStore, cache, usecase.DefaultQuoteConfig(), appLogger)
	portfolioUC := usecase.NewPortfolioUseCase(positionRepo, lockRepo, appLogger)

	// Initialize handlers
	accrualHandler := handler.NewAccrualHandler(positionAccrualUC, lockAccrualUC, m)
	quoteHandler := handler.NewQuoteHandler(quoteUC, m)
	poolHandler := handler.NewPoolHandler(aggregatorUC, m)
	portfolioHandler := handler.NewPortfolioHandler(portfolioUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	routerCfg := httpAdapter.RouterConfig{
		AccrualHandler:   accrualHandler,
		QuoteHandler:     quoteHandler,
		PoolHandler:      poolHandler,
		PortfolioHandler: portfolioHandler,
		HealthHandler:    healthHandler,
		Logging:          middleware.NewLoggingMiddleware(appLogger),
	}
	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		limiter.StartCleanup(ctx, time.Hour)
		routerCfg.RateLimiter = limiter
	}
	router := httpAdapter.NewRouter(routerCfg)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// assetCurves maps assets to their interest rate curves. Stablecoins get the
// flatter stablecoin curve; everything else falls back to the default.
func assetCurves() map[string]usecase.RateCurve {
	stable := usecase.StablecoinRateCurve()

	return map[string]usecase.RateCurve{
		"USDT": stable,
		"USDC": stable,
		"DAI":  stable,
	}
}
