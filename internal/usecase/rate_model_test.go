package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/rateengine/internal/domain"
)

func poolWithUtilization(u float64) *domain.PoolAggregate {
	return &domain.PoolAggregate{
		Asset:       "USDT",
		Chain:       "ethereum",
		Utilization: decimal.NewFromFloat(u),
	}
}

func TestComputeQuote_HighUtilizationExample(t *testing.T) {
	cfg := DefaultQuoteConfig()

	// Utilization 0.85 on the [2%, 8%] USDT band: base = 2 + 0.85*6 = 7.1,
	// which triggers the utilization bonus and the high-utilization fee step.
	quote := ComputeQuote(cfg, poolWithUtilization(0.85), decimal.Zero, false, "USDT", "ethereum")

	require.NotNil(t, quote)
	assert.True(t, quote.BaseAPY.Equal(decimal.NewFromFloat(7.1)), "base APY = %s", quote.BaseAPY)
	assert.True(t, quote.UtilizationBonus.Equal(decimal.NewFromInt(1)), "utilization bonus = %s", quote.UtilizationBonus)
	assert.True(t, quote.PlatformFeeRate.Equal(decimal.NewFromFloat(0.105)), "fee rate = %s", quote.PlatformFeeRate)
	assert.True(t, quote.GrossAPY.Equal(decimal.NewFromFloat(8.1)), "gross APY = %s", quote.GrossAPY)

	wantNet := decimal.NewFromFloat(8.1).Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(0.105)))
	assert.True(t, quote.NetAPY.Equal(wantNet), "net APY = %s, want %s", quote.NetAPY, wantNet)
	assert.False(t, quote.Fallback)
}

func TestComputeQuote_UtilizationBonusSteps(t *testing.T) {
	cfg := DefaultQuoteConfig()

	tests := []struct {
		utilization float64
		wantBonus   string
	}{
		{0.3, "0"},
		{0.5, "0"},
		{0.55, "0.5"},
		{0.7, "0.5"},
		{0.75, "1"},
	}

	for _, tt := range tests {
		quote := ComputeQuote(cfg, poolWithUtilization(tt.utilization), decimal.Zero, false, "USDT", "ethereum")
		assert.True(t, quote.UtilizationBonus.Equal(decimal.RequireFromString(tt.wantBonus)),
			"u=%v: bonus = %s, want %s", tt.utilization, quote.UtilizationBonus, tt.wantBonus)
	}
}

func TestComputeQuote_DemandBonusSteps(t *testing.T) {
	cfg := DefaultQuoteConfig()

	tests := []struct {
		volume    int64
		wantBonus string
	}{
		{50_000, "0"},
		{500_000, "0.5"},
		{5_000_000, "1"},
		{50_000_000, "1.5"},
	}

	for _, tt := range tests {
		quote := ComputeQuote(cfg, poolWithUtilization(0.4), decimal.NewFromInt(tt.volume), false, "USDT", "ethereum")
		assert.True(t, quote.DemandBonus.Equal(decimal.RequireFromString(tt.wantBonus)),
			"volume=%d: bonus = %s, want %s", tt.volume, quote.DemandBonus, tt.wantBonus)
	}
}

func TestComputeQuote_GovernanceBonus(t *testing.T) {
	cfg := DefaultQuoteConfig()

	with := ComputeQuote(cfg, poolWithUtilization(0.4), decimal.Zero, true, "USDT", "ethereum")
	without := ComputeQuote(cfg, poolWithUtilization(0.4), decimal.Zero, false, "USDT", "ethereum")

	assert.True(t, with.GovernanceBonus.Equal(decimal.NewFromFloat(0.2)))
	assert.True(t, with.GrossAPY.Sub(without.GrossAPY).Equal(decimal.NewFromFloat(0.2)))
}

func TestComputeQuote_FeeClamped(t *testing.T) {
	cfg := DefaultQuoteConfig()
	cfg.BaseFee = decimal.NewFromFloat(0.30)

	quote := ComputeQuote(cfg, poolWithUtilization(0.9), decimal.Zero, false, "USDT", "ethereum")
	assert.True(t, quote.PlatformFeeRate.Equal(cfg.MaxFee), "fee = %s, want clamped to %s", quote.PlatformFeeRate, cfg.MaxFee)

	cfg.BaseFee = decimal.NewFromFloat(0.01)
	quote = ComputeQuote(cfg, poolWithUtilization(0.1), decimal.Zero, false, "USDT", "ethereum")
	assert.True(t, quote.PlatformFeeRate.Equal(cfg.MinFee), "fee = %s, want clamped to %s", quote.PlatformFeeRate, cfg.MinFee)
}

func TestComputeQuote_NilPoolFallsBack(t *testing.T) {
	cfg := DefaultQuoteConfig()

	quote := ComputeQuote(cfg, nil, decimal.Zero, true, "USDT", "ethereum")

	require.NotNil(t, quote)
	assert.True(t, quote.Fallback)
	assert.True(t, quote.BaseAPY.Equal(cfg.FallbackAPY["USDT"]))
	assert.True(t, quote.GovernanceBonus.IsZero(), "fallback quotes carry no bonuses")

	// Unknown asset uses the default fallback rate.
	quote = ComputeQuote(cfg, nil, decimal.Zero, false, "PEPE", "ethereum")
	assert.True(t, quote.BaseAPY.Equal(cfg.DefaultFallbackAPY))
}

func TestProjectEarnings(t *testing.T) {
	// 10000 at 7.3% net for 30 days: 10000 * 0.073 / 365 * 30 = 60.
	got := ProjectEarnings(decimal.NewFromFloat(7.3), decimal.NewFromInt(10000), 30)
	assert.True(t, got.Equal(decimal.NewFromInt(60)), "projected earnings = %s, want 60", got)
}
