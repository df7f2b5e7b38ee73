package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/rateengine/internal/domain"
	"github.com/iho/rateengine/internal/usecase"
	"github.com/iho/rateengine/internal/usecase/mocks"
)

func newQuoteUseCase(t *testing.T) (*usecase.QuoteUseCase, *mocks.MockPoolRepository, *mocks.MockDepositVolumeStore, *mocks.MockCache) {
	t.Helper()
	ctrl := gomock.NewController(t)
	pools := mocks.NewMockPoolRepository()
	volumes := mocks.NewMockDepositVolumeStore(ctrl)
	cache := mocks.NewMockCache(ctrl)
	uc := usecase.NewQuoteUseCase(pools, volumes, cache, usecase.DefaultQuoteConfig(), zerolog.Nop())
	return uc, pools, volumes, cache
}

func TestQuote_FromPoolAggregates(t *testing.T) {
	uc, pools, volumes, cache := newQuoteUseCase(t)

	pools.Add(&domain.PoolAggregate{
		Asset:       "USDT",
		Chain:       "ethereum",
		Utilization: decimal.NewFromFloat(0.85),
	})
	volumes.EXPECT().
		TrailingVolume(gomock.Any(), "USDT", "ethereum", usecase.TrailingVolumeDays, gomock.Any()).
		Return(decimal.Zero, nil)
	cache.EXPECT().Get(gomock.Any(), "quote:USDT:ethereum:false").Return("", nil)
	cache.EXPECT().Set(gomock.Any(), "quote:USDT:ethereum:false", gomock.Any(), usecase.QuoteCacheTTL).Return(nil)

	out, err := uc.GetQuote(context.Background(), usecase.QuoteInput{Asset: "USDT", Chain: "ethereum"})

	require.NoError(t, err)
	assert.True(t, out.Quote.BaseAPY.Equal(decimal.NewFromFloat(7.1)), "base APY = %s", out.Quote.BaseAPY)
	assert.False(t, out.Quote.Fallback)
	assert.Nil(t, out.ProjectedEarnings)
}

func TestQuote_MissingPoolServesFallback(t *testing.T) {
	uc, _, _, cache := newQuoteUseCase(t)

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	out, err := uc.GetQuote(context.Background(), usecase.QuoteInput{Asset: "USDT", Chain: "ethereum"})

	require.NoError(t, err)
	assert.True(t, out.Quote.Fallback)
	assert.True(t, out.Quote.BaseAPY.Equal(decimal.NewFromFloat(4.5)))
}

func TestQuote_VolumeStoreFailureDegradesDemandBonus(t *testing.T) {
	uc, pools, volumes, cache := newQuoteUseCase(t)

	pools.Add(&domain.PoolAggregate{
		Asset:       "ETH",
		Chain:       "ethereum",
		Utilization: decimal.NewFromFloat(0.4),
	})
	volumes.EXPECT().
		TrailingVolume(gomock.Any(), "ETH", "ethereum", usecase.TrailingVolumeDays, gomock.Any()).
		Return(decimal.Zero, errors.New("redis down"))
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	out, err := uc.GetQuote(context.Background(), usecase.QuoteInput{Asset: "ETH", Chain: "ethereum"})

	require.NoError(t, err)
	assert.True(t, out.Quote.DemandBonus.IsZero())
	assert.False(t, out.Quote.Fallback, "degraded volume must not force fallback")
}

func TestQuote_CacheHitSkipsStores(t *testing.T) {
	uc, _, _, cache := newQuoteUseCase(t)

	cached := usecase.RateQuote{
		Asset:   "USDT",
		Chain:   "ethereum",
		BaseAPY: decimal.NewFromFloat(6.2),
		NetAPY:  decimal.NewFromFloat(5.58),
	}
	raw, err := json.Marshal(cached)
	require.NoError(t, err)

	cache.EXPECT().Get(gomock.Any(), "quote:USDT:ethereum:false").Return(string(raw), nil)

	out, err := uc.GetQuote(context.Background(), usecase.QuoteInput{Asset: "USDT", Chain: "ethereum"})

	require.NoError(t, err)
	assert.True(t, out.Quote.BaseAPY.Equal(cached.BaseAPY))
}

func TestQuote_ProjectedEarnings(t *testing.T) {
	uc, _, _, cache := newQuoteUseCase(t)

	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	principal := decimal.NewFromInt(10000)
	termDays := 30
	out, err := uc.GetQuote(context.Background(), usecase.QuoteInput{
		Asset:     "USDT",
		Chain:     "ethereum",
		Principal: &principal,
		TermDays:  &termDays,
	})

	require.NoError(t, err)
	require.NotNil(t, out.ProjectedEarnings)
	want := usecase.ProjectEarnings(out.Quote.NetAPY, principal, termDays)
	assert.True(t, out.ProjectedEarnings.Equal(want))
}

func TestQuote_RejectsInvalidInput(t *testing.T) {
	uc, _, _, _ := newQuoteUseCase(t)

	_, err := uc.GetQuote(context.Background(), usecase.QuoteInput{Asset: "", Chain: "ethereum"})
	assert.ErrorIs(t, err, domain.ErrInvalidAsset)

	_, err = uc.GetQuote(context.Background(), usecase.QuoteInput{Asset: "USDT", Chain: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidChain)

	negative := decimal.NewFromInt(-1)
	_, err = uc.GetQuote(context.Background(), usecase.QuoteInput{Asset: "USDT", Chain: "ethereum", Principal: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRecordDeposit(t *testing.T) {
	uc, _, volumes, _ := newQuoteUseCase(t)

	now := time.Now().UTC()
	amount := decimal.NewFromInt(2500)
	volumes.EXPECT().Record(gomock.Any(), "USDT", "ethereum", amount, now).Return(nil)

	err := uc.RecordDeposit(context.Background(), "USDT", "ethereum", amount, now)
	require.NoError(t, err)

	err = uc.RecordDeposit(context.Background(), "USDT", "ethereum", decimal.Zero, now)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}
