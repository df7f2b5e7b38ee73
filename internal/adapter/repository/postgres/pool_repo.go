package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// PoolRepository implements usecase.PoolRepository.
type PoolRepository struct {
	pool *pgxpool.Pool
}

// NewPoolRepository creates a new PoolRepository.
func NewPoolRepository(pool *pgxpool.Pool) *PoolRepository {
	return &PoolRepository{pool: pool}
}

// Get retrieves the aggregate row for one pool.
func (r *PoolRepository) Get(ctx context.Context, asset, chain string) (*domain.PoolAggregate, error) {
	query := `
		SELECT asset, chain, total_supply, total_borrowed, available_liquidity,
		       utilization, supply_rate, borrow_rate_variable, borrow_rate_stable,
		       updated_at
		FROM pool_aggregates
		WHERE asset = $1 AND chain = $2
	`

	var (
		agg                domain.PoolAggregate
		totalSupply        pgtype.Numeric
		totalBorrowed      pgtype.Numeric
		availableLiquidity pgtype.Numeric
		utilization        pgtype.Numeric
		supplyRate         pgtype.Numeric
		borrowVariable     pgtype.Numeric
		borrowStable       pgtype.Numeric
		updatedAt          pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, asset, chain).Scan(
		&agg.Asset,
		&agg.Chain,
		&totalSupply,
		&totalBorrowed,
		&availableLiquidity,
		&utilization,
		&supplyRate,
		&borrowVariable,
		&borrowStable,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPoolNotFound
		}

		return nil, err
	}

	agg.TotalSupply = numericToDecimal(totalSupply)
	agg.TotalBorrowed = numericToDecimal(totalBorrowed)
	agg.AvailableLiquidity = numericToDecimal(availableLiquidity)
	agg.Utilization = numericToDecimal(utilization)
	agg.SupplyRate = numericToDecimal(supplyRate)
	agg.BorrowRateVariable = numericToDecimal(borrowVariable)
	agg.BorrowRateStable = numericToDecimal(borrowStable)
	agg.UpdatedAt = updatedAt.Time

	return &agg, nil
}

// SumPositions recomputes pool totals straight from the open position rows.
// COALESCE keeps an empty pool at zero instead of NULL.
func (r *PoolRepository) SumPositions(ctx context.Context, asset, chain string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(current_amount) FILTER (WHERE kind = 'supply'), 0),
			COALESCE(SUM(current_amount) FILTER (WHERE kind = 'borrow'), 0)
		FROM positions
		WHERE asset = $1 AND chain = $2 AND current_amount > 0
	`

	var totalSupply, totalBorrowed pgtype.Numeric

	err := r.pool.QueryRow(ctx, query, asset, chain).Scan(&totalSupply, &totalBorrowed)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(totalSupply), numericToDecimal(totalBorrowed), nil
}

// Upsert writes a freshly recomputed aggregate.
func (r *PoolRepository) Upsert(ctx context.Context, agg *domain.PoolAggregate) error {
	query := `
		INSERT INTO pool_aggregates (
			asset, chain, total_supply, total_borrowed, available_liquidity,
			utilization, supply_rate, borrow_rate_variable, borrow_rate_stable,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (asset, chain) DO UPDATE SET
			total_supply = EXCLUDED.total_supply,
			total_borrowed = EXCLUDED.total_borrowed,
			available_liquidity = EXCLUDED.available_liquidity,
			utilization = EXCLUDED.utilization,
			supply_rate = EXCLUDED.supply_rate,
			borrow_rate_variable = EXCLUDED.borrow_rate_variable,
			borrow_rate_stable = EXCLUDED.borrow_rate_stable,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		agg.Asset,
		agg.Chain,
		decimalToNumeric(agg.TotalSupply),
		decimalToNumeric(agg.TotalBorrowed),
		decimalToNumeric(agg.AvailableLiquidity),
		decimalToNumeric(agg.Utilization),
		decimalToNumeric(agg.SupplyRate),
		decimalToNumeric(agg.BorrowRateVariable),
		decimalToNumeric(agg.BorrowRateStable),
		timeToPgTimestamptz(agg.UpdatedAt),
	)

	return err
}
