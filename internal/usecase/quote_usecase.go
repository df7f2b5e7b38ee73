package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// QuoteUseCase serves yield quotes. The quote path never fails on degraded
// data: a missing pool aggregate or an unreachable volume store degrades to
// the static fallback table and zero volume respectively.
type QuoteUseCase struct {
	pools   PoolRepository
	volumes DepositVolumeStore
	cache   Cache
	cfg     QuoteConfig
	logger  zerolog.Logger
}

// NewQuoteUseCase creates a new QuoteUseCase. cache may be nil to disable
// quote caching.
func NewQuoteUseCase(pools PoolRepository, volumes DepositVolumeStore, cache Cache, cfg QuoteConfig, logger zerolog.Logger) *QuoteUseCase {
	return &QuoteUseCase{
		pools:   pools,
		volumes: volumes,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
	}
}

// QuoteInput represents a quote request.
type QuoteInput struct {
	Asset            string
	Chain            string
	GovernanceHolder bool
	Principal        *decimal.Decimal
	TermDays         *int
}

// QuoteOutput is a RateQuote plus the optional earnings projection.
type QuoteOutput struct {
	Quote             *RateQuote
	ProjectedEarnings *decimal.Decimal
}

// GetQuote returns the yield breakdown for a pool. Errors are returned only
// for invalid input; degraded store data is served via fallback.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, input QuoteInput) (*QuoteOutput, error) {
	if err := domain.ValidateAsset(input.Asset); err != nil {
		return nil, err
	}
	if err := domain.ValidateChain(input.Chain); err != nil {
		return nil, err
	}
	if input.Principal != nil {
		if err := domain.ValidatePrincipal(*input.Principal); err != nil {
			return nil, err
		}
	}
	if input.TermDays != nil {
		if err := domain.ValidateTermDays(*input.TermDays); err != nil {
			return nil, err
		}
	}

	quote := uc.cachedQuote(ctx, input)
	if quote == nil {
		quote = uc.computeQuote(ctx, input)
		uc.storeQuote(ctx, input, quote)
	}

	out := &QuoteOutput{Quote: quote}
	if input.Principal != nil && input.TermDays != nil {
		earnings := ProjectEarnings(quote.NetAPY, *input.Principal, *input.TermDays)
		out.ProjectedEarnings = &earnings
	}

	return out, nil
}

// RecordDeposit feeds the trailing-volume tracker behind the demand bonus.
func (uc *QuoteUseCase) RecordDeposit(ctx context.Context, asset, chain string, amount decimal.Decimal, at time.Time) error {
	if err := domain.ValidateAsset(asset); err != nil {
		return err
	}
	if err := domain.ValidateChain(chain); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	return uc.volumes.Record(ctx, asset, chain, amount, at)
}

func (uc *QuoteUseCase) computeQuote(ctx context.Context, input QuoteInput) *RateQuote {
	pool, err := uc.pools.Get(ctx, input.Asset, input.Chain)
	if err != nil {
		if !errors.Is(err, domain.ErrPoolNotFound) {
			uc.logger.Warn().Err(err).
				Str("asset", input.Asset).
				Str("chain", input.Chain).
				Msg("pool aggregate unavailable, serving fallback quote")
		}
		pool = nil
	}

	volume := decimal.Zero
	if pool != nil {
		volume, err = uc.volumes.TrailingVolume(ctx, input.Asset, input.Chain, TrailingVolumeDays, time.Now().UTC())
		if err != nil {
			uc.logger.Warn().Err(err).
				Str("asset", input.Asset).
				Str("chain", input.Chain).
				Msg("deposit volume unavailable, demand bonus degrades to zero")
			volume = decimal.Zero
		}
	}

	return ComputeQuote(uc.cfg, pool, volume, input.GovernanceHolder, input.Asset, input.Chain)
}

func (uc *QuoteUseCase) cachedQuote(ctx context.Context, input QuoteInput) *RateQuote {
	if uc.cache == nil {
		return nil
	}

	raw, err := uc.cache.Get(ctx, quoteCacheKey(input))
	if err != nil || raw == "" {
		return nil
	}

	var quote RateQuote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		return nil
	}

	return &quote
}

func (uc *QuoteUseCase) storeQuote(ctx context.Context, input QuoteInput, quote *RateQuote) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, quoteCacheKey(input), string(raw), QuoteCacheTTL); err != nil {
		uc.logger.Debug().Err(err).Msg("quote cache write failed")
	}
}

func quoteCacheKey(input QuoteInput) string {
	return fmt.Sprintf("quote:%s:%s:%t", input.Asset, input.Chain, input.GovernanceHolder)
}
