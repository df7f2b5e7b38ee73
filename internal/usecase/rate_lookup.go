package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// rateLookup memoizes pool aggregates within one accrual run so each pool is
// read once per batch, not once per position.
type rateLookup struct {
	pools PoolRepository

	aggregates map[domain.PoolKey]*domain.PoolAggregate
	misses     map[domain.PoolKey]error
}

func newRateLookup(pools PoolRepository) *rateLookup {
	return &rateLookup{
		pools:      pools,
		aggregates: make(map[domain.PoolKey]*domain.PoolAggregate),
		misses:     make(map[domain.PoolKey]error),
	}
}

func (l *rateLookup) rateFor(ctx context.Context, pos *domain.Position) (decimal.Decimal, error) {
	key := pos.PoolKey()

	if err, ok := l.misses[key]; ok {
		return decimal.Zero, err
	}

	agg, ok := l.aggregates[key]
	if !ok {
		var err error
		agg, err = l.pools.Get(ctx, key.Asset, key.Chain)
		if err != nil {
			l.misses[key] = err
			return decimal.Zero, err
		}
		l.aggregates[key] = agg
	}

	return agg.RateForPosition(pos.Kind, pos.RateMode), nil
}
