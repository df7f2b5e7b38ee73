package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// PositionAccrualUseCase compounds interest on every open variable-rate
// position since its last update, then resyncs the aggregate of every touched
// pool. Each position is its own unit of work: a failure on one is logged,
// folded into the result list, and never aborts the batch.
type PositionAccrualUseCase struct {
	positions  PositionRepository
	pools      PoolRepository
	aggregator *PoolAggregatorUseCase
	retrier    Retrier
	idGen      IDGenerator
	logger     zerolog.Logger
}

// NewPositionAccrualUseCase creates a new PositionAccrualUseCase.
func NewPositionAccrualUseCase(
	positions PositionRepository,
	pools PoolRepository,
	aggregator *PoolAggregatorUseCase,
	retrier Retrier,
	idGen IDGenerator,
	logger zerolog.Logger,
) *PositionAccrualUseCase {
	return &PositionAccrualUseCase{
		positions:  positions,
		pools:      pools,
		aggregator: aggregator,
		retrier:    retrier,
		idGen:      idGen,
		logger:     logger,
	}
}

// Run executes one accrual batch at the given time. A batch-level error is
// returned only when the position set cannot be listed at all.
func (uc *PositionAccrualUseCase) Run(ctx context.Context, now time.Time) (*domain.AccrualBatch, error) {
	supplies, err := uc.positions.ListOpen(ctx, domain.PositionSupply)
	if err != nil {
		return nil, err
	}
	borrows, err := uc.positions.ListOpen(ctx, domain.PositionBorrow)
	if err != nil {
		return nil, err
	}

	batch := &domain.AccrualBatch{
		RunID:       uc.idGen.Generate(),
		Success:     true,
		ProcessedAt: now,
	}

	rates := newRateLookup(uc.pools)
	touched := make(map[domain.PoolKey]struct{})

	for _, pos := range append(supplies, borrows...) {
		result := uc.accrueOne(ctx, pos, rates, now)
		batch.Results = append(batch.Results, result)

		if result.Status == domain.AccrualAccrued {
			touched[pos.PoolKey()] = struct{}{}
		}
	}
	batch.ProcessedCount = len(batch.Results)

	// Resync runs after all committed writes for the pool; it is a full
	// recomputation, so a failed resync here is recovered by the next run.
	for key := range touched {
		if _, err := uc.aggregator.Resync(ctx, key.Asset, key.Chain, now); err != nil {
			uc.logger.Warn().Err(err).
				Str("asset", key.Asset).
				Str("chain", key.Chain).
				Msg("pool resync failed after accrual batch")
		}
	}

	uc.logger.Info().
		Str("run_id", batch.RunID).
		Int("processed", batch.ProcessedCount).
		Int("accrued", batch.Accrued()).
		Int("failed", batch.Failed()).
		Int("pools_touched", len(touched)).
		Msg("position accrual batch completed")

	return batch, nil
}

func (uc *PositionAccrualUseCase) accrueOne(ctx context.Context, pos *domain.Position, rates *rateLookup, now time.Time) domain.AccrualResult {
	result := domain.AccrualResult{
		OwnerID:   pos.OwnerID,
		Asset:     pos.Asset,
		Chain:     pos.Chain,
		Kind:      itemKind(pos.Kind),
		OldAmount: pos.CurrentAmount,
		NewAmount: pos.CurrentAmount,
	}

	rate, err := rates.rateFor(ctx, pos)
	if err != nil {
		if errors.Is(err, domain.ErrRateUnavailable) || errors.Is(err, domain.ErrPoolNotFound) {
			result.Status = domain.AccrualSkipped
			result.Reason = "no rate available"
			return result
		}

		uc.logger.Error().Err(err).Str("position_id", pos.ID).Msg("rate lookup failed")
		result.Status = domain.AccrualFailed
		result.Reason = err.Error()
		return result
	}

	hours := pos.HoursSinceUpdate(now)
	if hours.LessThan(minAccrualHours) {
		result.Status = domain.AccrualSkipped
		result.Reason = "accrual window not elapsed"
		return result
	}

	factor, err := domain.CompoundFactor(rate, hours)
	if err != nil {
		uc.logger.Error().Err(err).Str("position_id", pos.ID).Msg("compound factor failed")
		result.Status = domain.AccrualFailed
		result.Reason = err.Error()
		return result
	}

	newAmount := pos.CurrentAmount.Mul(factor)
	delta := newAmount.Sub(pos.CurrentAmount)
	newInterest := pos.AccruedInterest.Add(delta)

	err = uc.retrier.Retry(ctx, func() error {
		return uc.positions.UpdateAccrual(ctx, pos.ID, newAmount, newInterest, pos.LastUpdate, now)
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleUpdate) {
			// A concurrent run won the write; its accrual already covers
			// this window.
			result.Status = domain.AccrualSkipped
			result.Reason = "concurrent update"
			return result
		}

		uc.logger.Error().Err(err).Str("position_id", pos.ID).Msg("position accrual write failed")
		result.Status = domain.AccrualFailed
		result.Reason = err.Error()
		return result
	}

	result.Status = domain.AccrualAccrued
	result.NewAmount = newAmount
	result.AccruedInterest = delta
	return result
}

func itemKind(kind domain.PositionKind) domain.AccrualItemKind {
	if kind == domain.PositionBorrow {
		return domain.AccrualKindBorrow
	}
	return domain.AccrualKindSupply
}

var minAccrualHours = decimal.NewFromInt(MinAccrualHours)
