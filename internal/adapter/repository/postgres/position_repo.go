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

// PositionRepository implements usecase.PositionRepository.
type PositionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository creates a new PositionRepository.
func NewPositionRepository(pool *pgxpool.Pool) *PositionRepository {
	return &PositionRepository{pool: pool}
}

const positionColumns = `
	id, owner_id, asset, chain, kind, current_amount,
	accrued_interest, rate_mode, last_update, created_at
`

// ListOpen retrieves all positions of a kind that still carry a balance.
func (r *PositionRepository) ListOpen(ctx context.Context, kind domain.PositionKind) ([]*domain.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		WHERE kind = $1 AND current_amount > 0
		ORDER BY asset, chain, id
	`

	rows, err := r.pool.Query(ctx, query, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}

		positions = append(positions, position)
	}

	return positions, rows.Err()
}

// GetByID retrieves a position by ID.
func (r *PositionRepository) GetByID(ctx context.Context, id string) (*domain.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)

	position, err := scanPosition(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}

		return nil, err
	}

	return position, nil
}

// ListByOwner pages through an owner's positions, newest first.
func (r *PositionRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Position, error) {
	query := `
		SELECT ` + positionColumns + `
		FROM positions
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.Position
	for rows.Next() {
		position, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}

		positions = append(positions, position)
	}

	return positions, rows.Err()
}

// UpdateAccrual writes an accrual outcome compare-and-swapped on the previous
// last_update. A row that moved since it was read matches zero rows and is
// reported as domain.ErrStaleUpdate.
func (r *PositionRepository) UpdateAccrual(ctx context.Context, id string, amount, accruedInterest decimal.Decimal, prevUpdate, now time.Time) error {
	query := `
		UPDATE positions
		SET current_amount = $3, accrued_interest = $4, last_update = $5
		WHERE id = $1 AND last_update = $2
	`

	tag, err := r.pool.Exec(ctx, query,
		id,
		timeToPgTimestamptz(prevUpdate),
		decimalToNumeric(amount),
		decimalToNumeric(accruedInterest),
		timeToPgTimestamptz(now),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStaleUpdate
	}

	return nil
}

func scanPosition(row pgx.Row) (*domain.Position, error) {
	var (
		position        domain.Position
		kind            string
		rateMode        string
		currentAmount   pgtype.Numeric
		accruedInterest pgtype.Numeric
		lastUpdate      pgtype.Timestamptz
		createdAt       pgtype.Timestamptz
	)

	err := row.Scan(
		&position.ID,
		&position.OwnerID,
		&position.Asset,
		&position.Chain,
		&kind,
		&currentAmount,
		&accruedInterest,
		&rateMode,
		&lastUpdate,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	position.Kind = domain.PositionKind(kind)
	position.RateMode = domain.RateMode(rateMode)
	position.CurrentAmount = numericToDecimal(currentAmount)
	position.AccruedInterest = numericToDecimal(accruedInterest)
	position.LastUpdate = lastUpdate.Time
	position.CreatedAt = createdAt.Time

	return &position, nil
}
