package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// LockRepository implements usecase.LockRepository.
type LockRepository struct {
	pool *pgxpool.Pool
}

// NewLockRepository creates a new LockRepository.
func NewLockRepository(pool *pgxpool.Pool) *LockRepository {
	return &LockRepository{pool: pool}
}

const lockColumns = `
	id, owner_id, asset, chain, principal_amount, apy_applied,
	start_time, end_time, status, accrued_interest, created_at, updated_at
`

// ListActive retrieves all locks still in the active state.
func (r *LockRepository) ListActive(ctx context.Context) ([]*domain.Lock, error) {
	query := `
		SELECT ` + lockColumns + `
		FROM locks
		WHERE status = $1
		ORDER BY end_time, id
	`

	rows, err := r.pool.Query(ctx, query, string(domain.LockStatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locks []*domain.Lock
	for rows.Next() {
		lock, err := scanLock(rows)
		if err != nil {
			return nil, err
		}

		locks = append(locks, lock)
	}

	return locks, rows.Err()
}

// GetByID retrieves a lock by ID.
func (r *LockRepository) GetByID(ctx context.Context, id string) (*domain.Lock, error) {
	query := `
		SELECT ` + lockColumns + `
		FROM locks
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)

	lock, err := scanLock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLockNotFound
		}

		return nil, err
	}

	return lock, nil
}

// UpdateInterest refreshes the recomputed interest of an active lock. The
// status guard turns a concurrent early exit or maturation into
// domain.ErrStaleUpdate instead of overwriting a terminal state.
func (r *LockRepository) UpdateInterest(ctx context.Context, id string, accruedInterest decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE locks
		SET accrued_interest = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`

	return r.guardedUpdate(ctx, query,
		id,
		decimalToNumeric(accruedInterest),
		timeToPgTimestamptz(updatedAt),
		string(domain.LockStatusActive),
	)
}

// Mature transitions an active lock to matured with its frozen full-term
// interest.
func (r *LockRepository) Mature(ctx context.Context, id string, finalInterest decimal.Decimal, maturedAt time.Time) error {
	query := `
		UPDATE locks
		SET status = $2, accrued_interest = $3, updated_at = $4
		WHERE id = $1 AND status = $5
	`

	return r.guardedUpdate(ctx, query,
		id,
		string(domain.LockStatusMatured),
		decimalToNumeric(finalInterest),
		timeToPgTimestamptz(maturedAt),
		string(domain.LockStatusActive),
	)
}

func (r *LockRepository) guardedUpdate(ctx context.Context, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStaleUpdate
	}

	return nil
}

func scanLock(row pgx.Row) (*domain.Lock, error) {
	var (
		lock            domain.Lock
		status          string
		principal       pgtype.Numeric
		apy             pgtype.Numeric
		accruedInterest pgtype.Numeric
		startTime       pgtype.Timestamptz
		endTime         pgtype.Timestamptz
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&lock.ID,
		&lock.OwnerID,
		&lock.Asset,
		&lock.Chain,
		&principal,
		&apy,
		&startTime,
		&endTime,
		&status,
		&accruedInterest,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	lock.Status = domain.LockStatus(status)
	lock.PrincipalAmount = numericToDecimal(principal)
	lock.APYApplied = numericToDecimal(apy)
	lock.AccruedInterest = numericToDecimal(accruedInterest)
	lock.StartTime = startTime.Time
	lock.EndTime = endTime.Time
	lock.CreatedAt = createdAt.Time
	lock.UpdatedAt = updatedAt.Time

	return &lock, nil
}
