package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/rateengine/internal/domain"
)

// LockAccrualUseCase recomputes simple interest for every active fixed-term
// lock and transitions matured locks. Interest on an active lock is always
// recomputed from StartTime, never incremented, so the job is safe to re-run
// any number of times per day without drift.
type LockAccrualUseCase struct {
	locks      LockRepository
	aggregator *PoolAggregatorUseCase
	retrier    Retrier
	idGen      IDGenerator
	logger     zerolog.Logger
}

// NewLockAccrualUseCase creates a new LockAccrualUseCase.
func NewLockAccrualUseCase(
	locks LockRepository,
	aggregator *PoolAggregatorUseCase,
	retrier Retrier,
	idGen IDGenerator,
	logger zerolog.Logger,
) *LockAccrualUseCase {
	return &LockAccrualUseCase{
		locks:      locks,
		aggregator: aggregator,
		retrier:    retrier,
		idGen:      idGen,
		logger:     logger,
	}
}

// Run executes one lock accrual batch at the given time. A batch-level error
// is returned only when the active lock set cannot be listed.
func (uc *LockAccrualUseCase) Run(ctx context.Context, now time.Time) (*domain.AccrualBatch, error) {
	locks, err := uc.locks.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	batch := &domain.AccrualBatch{
		RunID:       uc.idGen.Generate(),
		Success:     true,
		ProcessedAt: now,
	}

	touched := make(map[domain.PoolKey]struct{})

	for _, lock := range locks {
		result := uc.accrueOne(ctx, lock, now)
		batch.Results = append(batch.Results, result)

		if result.Status == domain.AccrualAccrued {
			touched[lock.PoolKey()] = struct{}{}
		}
	}
	batch.ProcessedCount = len(batch.Results)

	for key := range touched {
		if _, err := uc.aggregator.Resync(ctx, key.Asset, key.Chain, now); err != nil {
			uc.logger.Warn().Err(err).
				Str("asset", key.Asset).
				Str("chain", key.Chain).
				Msg("pool resync failed after lock batch")
		}
	}

	uc.logger.Info().
		Str("run_id", batch.RunID).
		Int("processed", batch.ProcessedCount).
		Int("accrued", batch.Accrued()).
		Int("failed", batch.Failed()).
		Msg("lock accrual batch completed")

	return batch, nil
}

func (uc *LockAccrualUseCase) accrueOne(ctx context.Context, lock *domain.Lock, now time.Time) domain.AccrualResult {
	result := domain.AccrualResult{
		OwnerID:   lock.OwnerID,
		Asset:     lock.Asset,
		Chain:     lock.Chain,
		Kind:      domain.AccrualKindLock,
		OldAmount: lock.PrincipalAmount,
		NewAmount: lock.PrincipalAmount,
	}

	// Terminal states are owned elsewhere; a lock exited early between the
	// list and this write must stay untouched.
	if !lock.IsActive() {
		result.Status = domain.AccrualSkipped
		result.Reason = "lock not active"
		return result
	}

	if lock.IsMature(now) {
		finalInterest := lock.InterestForDays(lock.TermDays())

		err := uc.retrier.Retry(ctx, func() error {
			return uc.locks.Mature(ctx, lock.ID, finalInterest, now)
		})
		if err != nil {
			return uc.failOrSkip(result, lock.ID, err, "lock maturity write failed")
		}

		result.Status = domain.AccrualAccrued
		result.AccruedInterest = finalInterest
		return result
	}

	days := lock.DaysElapsed(now)
	if days == 0 {
		result.Status = domain.AccrualSkipped
		result.Reason = "no full day elapsed"
		return result
	}

	interest := lock.InterestForDays(days)
	err := uc.retrier.Retry(ctx, func() error {
		return uc.locks.UpdateInterest(ctx, lock.ID, interest, now)
	})
	if err != nil {
		return uc.failOrSkip(result, lock.ID, err, "lock interest write failed")
	}

	result.Status = domain.AccrualAccrued
	result.AccruedInterest = interest
	return result
}

func (uc *LockAccrualUseCase) failOrSkip(result domain.AccrualResult, lockID string, err error, msg string) domain.AccrualResult {
	if errors.Is(err, domain.ErrStaleUpdate) || errors.Is(err, domain.ErrLockNotActive) {
		result.Status = domain.AccrualSkipped
		result.Reason = "lock state changed concurrently"
		return result
	}

	uc.logger.Error().Err(err).Str("lock_id", lockID).Msg(msg)
	result.Status = domain.AccrualFailed
	result.Reason = err.Error()
	return result
}
