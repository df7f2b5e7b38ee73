package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// PositionRepository defines data access for supply and borrow positions.
type PositionRepository interface {
	ListOpen(ctx context.Context, kind domain.PositionKind) ([]*domain.Position, error)
	GetByID(ctx context.Context, id string) (*domain.Position, error)
	// ListByOwner pages through an owner's positions, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Position, error)
	// UpdateAccrual persists an accrual outcome with compare-and-swap on the
	// previous LastUpdate. Returns domain.ErrStaleUpdate when the row changed
	// since it was read; the caller must treat that as a no-op, not an error.
	UpdateAccrual(ctx context.Context, id string, amount, accruedInterest decimal.Decimal, prevUpdate, now time.Time) error
}

// LockRepository defines data access for fixed-term locks.
type LockRepository interface {
	ListActive(ctx context.Context) ([]*domain.Lock, error)
	GetByID(ctx context.Context, id string) (*domain.Lock, error)
	// UpdateInterest refreshes an active lock's recomputed interest. The write
	// is guarded on status = active and returns domain.ErrStaleUpdate when the
	// lock left the active state since it was read.
	UpdateInterest(ctx context.Context, id string, accruedInterest decimal.Decimal, updatedAt time.Time) error
	// Mature transitions an active lock to matured with its frozen final
	// interest. Same status guard as UpdateInterest.
	Mature(ctx context.Context, id string, finalInterest decimal.Decimal, maturedAt time.Time) error
}

// PoolRepository defines data access for pool aggregates.
type PoolRepository interface {
	Get(ctx context.Context, asset, chain string) (*domain.PoolAggregate, error)
	// SumPositions recomputes pool totals from the open positions themselves.
	SumPositions(ctx context.Context, asset, chain string) (totalSupply, totalBorrowed decimal.Decimal, err error)
	Upsert(ctx context.Context, agg *domain.PoolAggregate) error
}

// DepositVolumeStore tracks short-term deposit volume per pool, feeding the
// demand bonus of the rate quote.
type DepositVolumeStore interface {
	Record(ctx context.Context, asset, chain string, amount decimal.Decimal, at time.Time) error
	TrailingVolume(ctx context.Context, asset, chain string, days int, now time.Time) (decimal.Decimal, error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient store errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
