package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/adapter/http/dto"
	"github.com/iho/rateengine/internal/domain"
	"github.com/iho/rateengine/tests/testutil"
)

func runAccrual(t *testing.T, stack *testStack, job string) *dto.AccrualBatchResponse {
	t.Helper()

	resp, err := http.Post(stack.Server.URL+"/api/v1/accruals/"+job, "application/json", nil)
	if err != nil {
		t.Fatalf("failed to trigger %s accrual: %v", job, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var batch dto.AccrualBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		t.Fatalf("failed to decode accrual batch: %v", err)
	}
	return &batch
}

func TestPositionAccrualCompoundsOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	stack := newTestStack(t)

	chain := "chain-" + testutil.GenerateID()
	seedPool(t, stack.DB, "USDT", chain, decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.07))

	dayAgo := time.Now().UTC().Add(-24 * time.Hour)
	pos := stack.DB.CreateTestPosition(ctx, "owner-1", "USDT", chain, domain.PositionSupply, decimal.NewFromInt(1000), dayAgo)

	batch := runAccrual(t, stack, "positions")

	if batch.ProcessedCount != 1 {
		t.Fatalf("expected 1 processed item, got %d", batch.ProcessedCount)
	}
	if batch.AccruedCount != 1 {
		t.Fatalf("expected 1 accrued item, got %d (results: %+v)", batch.AccruedCount, batch.Results)
	}

	result := batch.Results[0]
	if result.Status != string(domain.AccrualAccrued) {
		t.Errorf("expected status accrued, got %s (reason: %s)", result.Status, result.Reason)
	}

	// 1000 at 5% APY compounded hourly over 24h is about 1000.137.
	low := decimal.RequireFromString("1000.13")
	high := decimal.RequireFromString("1000.14")
	if result.NewAmount.LessThan(low) || result.NewAmount.GreaterThan(high) {
		t.Errorf("expected new amount near 1000.137, got %s", result.NewAmount)
	}

	// The write must be persisted, not just reported. The column rounds to
	// 18 decimal places, so compare within that resolution.
	var storedAmount, storedInterest string
	err := stack.DB.Pool.QueryRow(ctx,
		"SELECT current_amount::text, accrued_interest::text FROM positions WHERE id = $1", pos.ID,
	).Scan(&storedAmount, &storedInterest)
	if err != nil {
		t.Fatalf("failed to read position back: %v", err)
	}
	stored := decimal.RequireFromString(storedAmount)
	interest := decimal.RequireFromString(storedInterest)
	tolerance := decimal.New(1, -17)
	if stored.Sub(result.NewAmount).Abs().GreaterThan(tolerance) {
		t.Errorf("stored amount %s does not match reported %s", stored, result.NewAmount)
	}
	if interest.Sub(result.AccruedInterest).Abs().GreaterThan(tolerance) {
		t.Errorf("stored interest %s does not match reported %s", interest, result.AccruedInterest)
	}

	// The touched pool is resynced from position rows.
	poolResp := getPool(t, stack, "USDT", chain)
	if !poolResp.TotalSupply.Equal(stored) {
		t.Errorf("expected pool total supply %s after resync, got %s", stored, poolResp.TotalSupply)
	}
}

func TestPositionAccrualSkipsFreshPositions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	stack := newTestStack(t)

	chain := "chain-" + testutil.GenerateID()
	seedPool(t, stack.DB, "USDT", chain, decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.07))

	recent := time.Now().UTC().Add(-10 * time.Minute)
	stack.DB.CreateTestPosition(ctx, "owner-1", "USDT", chain, domain.PositionSupply, decimal.NewFromInt(500), recent)

	batch := runAccrual(t, stack, "positions")

	if batch.ProcessedCount != 1 {
		t.Fatalf("expected 1 processed item, got %d", batch.ProcessedCount)
	}
	result := batch.Results[0]
	if result.Status != string(domain.AccrualSkipped) {
		t.Errorf("expected status skipped, got %s", result.Status)
	}
	if !result.NewAmount.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected amount unchanged at 500, got %s", result.NewAmount)
	}
}

func TestPositionAccrualIsIdempotentWithinWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	stack := newTestStack(t)

	chain := "chain-" + testutil.GenerateID()
	seedPool(t, stack.DB, "USDT", chain, decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.07))
	stack.DB.CreateTestPosition(ctx, "owner-1", "USDT", chain, domain.PositionSupply,
		decimal.NewFromInt(1000), time.Now().UTC().Add(-24*time.Hour))

	first := runAccrual(t, stack, "positions")
	if first.AccruedCount != 1 {
		t.Fatalf("expected first run to accrue, got %+v", first.Results)
	}

	// Immediately re-running finds no elapsed window and changes nothing.
	second := runAccrual(t, stack, "positions")
	if second.AccruedCount != 0 {
		t.Errorf("expected second run to accrue nothing, got %d", second.AccruedCount)
	}
	if second.Results[0].Status != string(domain.AccrualSkipped) {
		t.Errorf("expected skipped on rerun, got %s", second.Results[0].Status)
	}
}

func TestLockAccrualAndMaturation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	stack := newTestStack(t)

	chain := "chain-" + testutil.GenerateID()
	now := time.Now().UTC()
	apy := decimal.NewFromFloat(7.3)

	// 30 days into a 90-day term.
	active := stack.DB.CreateTestLock(ctx, "owner-1", "USDT", chain,
		decimal.NewFromInt(10000), apy, now.Add(-30*24*time.Hour), now.Add(60*24*time.Hour))
	// Past its end time, so this run matures it.
	mature := stack.DB.CreateTestLock(ctx, "owner-2", "USDT", chain,
		decimal.NewFromInt(5000), apy, now.Add(-100*24*time.Hour), now.Add(-10*24*time.Hour))

	batch := runAccrual(t, stack, "locks")

	if batch.ProcessedCount != 2 {
		t.Fatalf("expected 2 processed items, got %d", batch.ProcessedCount)
	}
	if batch.AccruedCount != 2 {
		t.Fatalf("expected 2 accrued items, got %+v", batch.Results)
	}

	// 10000 * 7.3%/365 * 30 full days.
	var activeInterestText, activeStatus string
	err := stack.DB.Pool.QueryRow(ctx,
		"SELECT accrued_interest::text, status FROM locks WHERE id = $1", active.ID,
	).Scan(&activeInterestText, &activeStatus)
	if err != nil {
		t.Fatalf("failed to read active lock back: %v", err)
	}
	activeInterest := decimal.RequireFromString(activeInterestText)
	if activeStatus != string(domain.LockStatusActive) {
		t.Errorf("expected active lock to stay active, got %s", activeStatus)
	}
	if !activeInterest.Equal(decimal.NewFromInt(60)) {
		t.Errorf("expected 60 interest on active lock, got %s", activeInterest)
	}

	// 5000 * 7.3%/365 * 90-day term, frozen at maturity.
	var matureInterestText, matureStatus string
	err = stack.DB.Pool.QueryRow(ctx,
		"SELECT accrued_interest::text, status FROM locks WHERE id = $1", mature.ID,
	).Scan(&matureInterestText, &matureStatus)
	if err != nil {
		t.Fatalf("failed to read matured lock back: %v", err)
	}
	matureInterest := decimal.RequireFromString(matureInterestText)
	if matureStatus != string(domain.LockStatusMatured) {
		t.Errorf("expected lock to mature, got %s", matureStatus)
	}
	if !matureInterest.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected 90 interest on matured lock, got %s", matureInterest)
	}

	// A matured lock is terminal; the next run leaves it alone.
	rerun := runAccrual(t, stack, "locks")
	if rerun.ProcessedCount != 1 {
		t.Errorf("expected only the active lock on rerun, got %d items", rerun.ProcessedCount)
	}
}

func getPool(t *testing.T, stack *testStack, asset, chain string) *dto.PoolResponse {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/pools/%s/%s", stack.Server.URL, asset, chain))
	if err != nil {
		t.Fatalf("failed to fetch pool: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200 for pool, got %d", resp.StatusCode)
	}

	var pool dto.PoolResponse
	if err := json.NewDecoder(resp.Body).Decode(&pool); err != nil {
		t.Fatalf("failed to decode pool response: %v", err)
	}
	return &pool
}
