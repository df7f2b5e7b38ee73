package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/rateengine/internal/adapter/http"
	"github.com/iho/rateengine/internal/adapter/http/handler"
	"github.com/iho/rateengine/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/rateengine/internal/adapter/repository/redis"
	"github.com/iho/rateengine/internal/domain"
	"github.com/iho/rateengine/internal/infrastructure/metrics"
	infraredis "github.com/iho/rateengine/internal/infrastructure/redis"
	"github.com/iho/rateengine/internal/usecase"
	"github.com/iho/rateengine/tests/testutil"
)

// Registered once per test binary; promauto panics on re-registration.
var testMetrics = metrics.New()

type testStack struct {
	DB     *testutil.TestDB
	Server *httptest.Server
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	logger := zerolog.Nop()
	pool := testDB.Pool

	positionRepo := postgres.NewPositionRepository(pool)
	lockRepo := postgres.NewLockRepository(pool)
	poolRepo := postgres.NewPoolRepository(pool)
	retrier := postgres.NewRetrier(logger)
	idGen := postgres.NewULIDGenerator()
	volumeStore := redisrepo.NewDepositVolumeStore(redisClient)

	aggregatorUC := usecase.NewPoolAggregatorUseCase(poolRepo, nil, usecase.DefaultRateCurve(), testMetrics, logger)
	positionAccrualUC := usecase.NewPositionAccrualUseCase(positionRepo, poolRepo, aggregatorUC, retrier, idGen, logger)
	lockAccrualUC := usecase.NewLockAccrualUseCase(lockRepo, aggregatorUC, retrier, idGen, logger)
	// No cache so every quote reads live pool state.
	quoteUC := usecase.NewQuoteUseCase(poolRepo, volumeStore, nil, usecase.DefaultQuoteConfig(), logger)
	portfolioUC := usecase.NewPortfolioUseCase(positionRepo, lockRepo, logger)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AccrualHandler:   handler.NewAccrualHandler(positionAccrualUC, lockAccrualUC, testMetrics),
		QuoteHandler:     handler.NewQuoteHandler(quoteUC, testMetrics),
		PoolHandler:      handler.NewPoolHandler(aggregatorUC, testMetrics),
		PortfolioHandler: handler.NewPortfolioHandler(portfolioUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testStack{
		DB:     testDB,
		Server: server,
	}
}

func seedPool(t *testing.T, db *testutil.TestDB, asset, chain string, supplyRate, borrowRate decimal.Decimal) {
	t.Helper()

	db.SeedPoolAggregate(context.Background(), &domain.PoolAggregate{
		Asset:              asset,
		Chain:              chain,
		TotalSupply:        decimal.NewFromInt(10000),
		TotalBorrowed:      decimal.NewFromInt(2500),
		AvailableLiquidity: decimal.NewFromInt(7500),
		Utilization:        decimal.NewFromFloat(0.25),
		SupplyRate:         supplyRate,
		BorrowRateVariable: borrowRate,
		BorrowRateStable:   borrowRate.Add(decimal.NewFromFloat(0.02)),
		UpdatedAt:          time.Now().UTC(),
	})
}
