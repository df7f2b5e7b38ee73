package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPositionIsOpen(t *testing.T) {
	pos := &Position{CurrentAmount: decimal.NewFromInt(100)}
	if !pos.IsOpen() {
		t.Error("position with balance should be open")
	}

	pos.CurrentAmount = decimal.Zero
	if pos.IsOpen() {
		t.Error("zero-balance position should be closed")
	}

	pos.CurrentAmount = decimal.NewFromInt(-5)
	if pos.IsOpen() {
		t.Error("negative-balance position should be closed")
	}
}

func TestPositionHoursSinceUpdate(t *testing.T) {
	last := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pos := &Position{LastUpdate: last}

	got := pos.HoursSinceUpdate(last.Add(24 * time.Hour))
	if !got.Equal(decimal.NewFromInt(24)) {
		t.Errorf("HoursSinceUpdate() = %s, want 24", got)
	}

	// Fractional hours are preserved, not truncated.
	got = pos.HoursSinceUpdate(last.Add(90 * time.Minute))
	if !got.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("HoursSinceUpdate() = %s, want 1.5", got)
	}
}

func TestPositionPoolKey(t *testing.T) {
	pos := &Position{Asset: "USDT", Chain: "ethereum"}

	key := pos.PoolKey()
	if key.Asset != "USDT" || key.Chain != "ethereum" {
		t.Errorf("PoolKey() = %+v, want {USDT ethereum}", key)
	}
}
