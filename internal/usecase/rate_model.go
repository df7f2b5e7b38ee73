package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
)

// RateBand is the [min, max] percent-APY band an asset interpolates over as
// utilization moves from 0 to 1.
type RateBand struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// QuoteConfig parameterizes the sustainable rate model. All APY figures are
// percent values (7.1 means 7.1%); fee rates are decimal fractions of gross.
type QuoteConfig struct {
	Bands       map[string]RateBand
	DefaultBand RateBand

	FallbackAPY        map[string]decimal.Decimal
	DefaultFallbackAPY decimal.Decimal

	// Trailing 7-day deposit volume thresholds for the demand bonus.
	VolumeLow  decimal.Decimal
	VolumeMid  decimal.Decimal
	VolumeHigh decimal.Decimal

	BaseFee decimal.Decimal
	MinFee  decimal.Decimal
	MaxFee  decimal.Decimal
}

// DefaultQuoteConfig returns the production parameter set.
func DefaultQuoteConfig() QuoteConfig {
	return QuoteConfig{
		Bands: map[string]RateBand{
			"USDT": {Min: decimal.NewFromInt(2), Max: decimal.NewFromInt(8)},
			"USDC": {Min: decimal.NewFromInt(2), Max: decimal.NewFromInt(8)},
			"ETH":  {Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(6)},
			"BTC":  {Min: decimal.NewFromFloat(0.5), Max: decimal.NewFromInt(5)},
		},
		DefaultBand: RateBand{Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(7)},

		FallbackAPY: map[string]decimal.Decimal{
			"USDT": decimal.NewFromFloat(4.5),
			"USDC": decimal.NewFromFloat(4.5),
			"ETH":  decimal.NewFromFloat(3.0),
			"BTC":  decimal.NewFromFloat(2.0),
		},
		DefaultFallbackAPY: decimal.NewFromFloat(3.0),

		VolumeLow:  decimal.NewFromInt(100_000),
		VolumeMid:  decimal.NewFromInt(1_000_000),
		VolumeHigh: decimal.NewFromInt(10_000_000),

		BaseFee: decimal.NewFromFloat(0.10),
		MinFee:  decimal.NewFromFloat(0.05),
		MaxFee:  decimal.NewFromFloat(0.20),
	}
}

// Band resolves the rate band for an asset.
func (c QuoteConfig) Band(asset string) RateBand {
	if band, ok := c.Bands[asset]; ok {
		return band
	}
	return c.DefaultBand
}

// Fallback resolves the static APY served when pool data is unavailable.
func (c QuoteConfig) Fallback(asset string) decimal.Decimal {
	if apy, ok := c.FallbackAPY[asset]; ok {
		return apy
	}
	return c.DefaultFallbackAPY
}

// RateQuote is the yield breakdown returned on the quote path. APY fields are
// percent values; PlatformFeeRate is a fraction of gross.
type RateQuote struct {
	Asset            string
	Chain            string
	BaseAPY          decimal.Decimal
	UtilizationBonus decimal.Decimal
	DemandBonus      decimal.Decimal
	GovernanceBonus  decimal.Decimal
	GrossAPY         decimal.Decimal
	PlatformFeeRate  decimal.Decimal
	PlatformFeeAPY   decimal.Decimal
	NetAPY           decimal.Decimal
	Fallback         bool
}

var (
	utilizationHigh      = decimal.NewFromFloat(0.7)
	utilizationMid       = decimal.NewFromFloat(0.5)
	utilizationFeeStep   = decimal.NewFromFloat(0.8)
	baseAPYFeeStep       = decimal.NewFromInt(10)
	bonusHighUtilization = decimal.NewFromInt(1)
	bonusMidUtilization  = decimal.NewFromFloat(0.5)
	bonusHighDemand      = decimal.NewFromFloat(1.5)
	bonusMidDemand       = decimal.NewFromInt(1)
	bonusLowDemand       = decimal.NewFromFloat(0.5)
	bonusGovernance      = decimal.NewFromFloat(0.2)
	feeStepUtilization   = decimal.NewFromFloat(0.005)
	feeStepHighBase      = decimal.NewFromFloat(0.002)
)

// ComputeQuote turns pool aggregates, trailing deposit volume, and the
// governance-holder flag into a yield quote. Pure and side-effect free; safe
// to call concurrently. A nil pool yields the per-asset fallback quote.
func ComputeQuote(cfg QuoteConfig, pool *domain.PoolAggregate, volume7d decimal.Decimal, governanceHolder bool, asset, chain string) *RateQuote {
	if pool == nil {
		return fallbackQuote(cfg, asset, chain)
	}

	band := cfg.Band(asset)
	utilization := pool.Utilization

	// Linear interpolation across the asset band.
	base := band.Min.Add(utilization.Mul(band.Max.Sub(band.Min)))

	utilizationBonus := decimal.Zero
	switch {
	case utilization.GreaterThan(utilizationHigh):
		utilizationBonus = bonusHighUtilization
	case utilization.GreaterThan(utilizationMid):
		utilizationBonus = bonusMidUtilization
	}

	demandBonus := decimal.Zero
	switch {
	case volume7d.GreaterThan(cfg.VolumeHigh):
		demandBonus = bonusHighDemand
	case volume7d.GreaterThan(cfg.VolumeMid):
		demandBonus = bonusMidDemand
	case volume7d.GreaterThan(cfg.VolumeLow):
		demandBonus = bonusLowDemand
	}

	governanceBonus := decimal.Zero
	if governanceHolder {
		governanceBonus = bonusGovernance
	}

	gross := base.Add(utilizationBonus).Add(demandBonus).Add(governanceBonus)

	fee := cfg.BaseFee
	if utilization.GreaterThan(utilizationFeeStep) {
		fee = fee.Add(feeStepUtilization)
	}
	if base.GreaterThan(baseAPYFeeStep) {
		fee = fee.Add(feeStepHighBase)
	}
	fee = clampFee(fee, cfg.MinFee, cfg.MaxFee)

	feeAPY := gross.Mul(fee)

	return &RateQuote{
		Asset:            asset,
		Chain:            chain,
		BaseAPY:          base,
		UtilizationBonus: utilizationBonus,
		DemandBonus:      demandBonus,
		GovernanceBonus:  governanceBonus,
		GrossAPY:         gross,
		PlatformFeeRate:  fee,
		PlatformFeeAPY:   feeAPY,
		NetAPY:           gross.Sub(feeAPY),
	}
}

// ProjectEarnings estimates earnings on a principal held for a term at the
// quoted net APY, using simple daily proration.
func ProjectEarnings(netAPY, principal decimal.Decimal, termDays int) decimal.Decimal {
	daily := netAPY.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(365))
	return principal.Mul(daily).Mul(decimal.NewFromInt(int64(termDays)))
}

func fallbackQuote(cfg QuoteConfig, asset, chain string) *RateQuote {
	apy := cfg.Fallback(asset)
	fee := clampFee(cfg.BaseFee, cfg.MinFee, cfg.MaxFee)
	feeAPY := apy.Mul(fee)

	return &RateQuote{
		Asset:           asset,
		Chain:           chain,
		BaseAPY:         apy,
		GrossAPY:        apy,
		PlatformFeeRate: fee,
		PlatformFeeAPY:  feeAPY,
		NetAPY:          apy.Sub(feeAPY),
		Fallback:        true,
	}
}

func clampFee(fee, min, max decimal.Decimal) decimal.Decimal {
	if fee.LessThan(min) {
		return min
	}
	if fee.GreaterThan(max) {
		return max
	}
	return fee
}
