package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/rateengine/internal/domain"
)

// PortfolioUseCase serves owner-facing reads of positions and locks. It never
// mutates anything; accrual jobs own all writes.
type PortfolioUseCase struct {
	positions PositionRepository
	locks     LockRepository
	logger    zerolog.Logger
}

// NewPortfolioUseCase creates a new PortfolioUseCase.
func NewPortfolioUseCase(positions PositionRepository, locks LockRepository, logger zerolog.Logger) *PortfolioUseCase {
	return &PortfolioUseCase{
		positions: positions,
		locks:     locks,
		logger:    logger,
	}
}

// GetPosition returns one position by id.
func (uc *PortfolioUseCase) GetPosition(ctx context.Context, id string) (*domain.Position, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrPositionNotFound
	}
	return uc.positions.GetByID(ctx, id)
}

// GetLock returns one lock by id.
func (uc *PortfolioUseCase) GetLock(ctx context.Context, id string) (*domain.Lock, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrLockNotFound
	}
	return uc.locks.GetByID(ctx, id)
}

// ListPositions pages through an owner's positions, newest first. Limit and
// offset are normalized before they reach the store.
func (uc *PortfolioUseCase) ListPositions(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Position, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.ErrInvalidOwner
	}

	limit, offset, err := domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}

	return uc.positions.ListByOwner(ctx, ownerID, limit, offset)
}
