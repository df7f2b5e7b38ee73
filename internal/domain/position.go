package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionKind distinguishes supply positions from borrow positions.
type PositionKind string

const (
	PositionSupply PositionKind = "supply"
	PositionBorrow PositionKind = "borrow"
)

// RateMode selects which pool rate applies to a borrow position.
type RateMode string

const (
	RateModeVariable RateMode = "variable"
	RateModeStable   RateMode = "stable"
)

// Position is a variable-rate supply or borrow position in a liquidity pool.
// CurrentAmount is the live principal-plus-compounded-interest balance;
// AccruedInterest is an informational running total and is never compounded.
type Position struct {
	ID              string
	OwnerID         string
	Asset           string
	Chain           string
	Kind            PositionKind
	CurrentAmount   decimal.Decimal
	AccruedInterest decimal.Decimal
	RateMode        RateMode
	LastUpdate      time.Time
	CreatedAt       time.Time
}

// IsOpen reports whether the position still carries a balance.
func (p *Position) IsOpen() bool {
	return p.CurrentAmount.IsPositive()
}

// HoursSinceUpdate returns the fractional hours elapsed since LastUpdate.
func (p *Position) HoursSinceUpdate(now time.Time) decimal.Decimal {
	elapsed := now.Sub(p.LastUpdate)
	return decimal.NewFromFloat(elapsed.Hours())
}

// PoolKey identifies the pool a position belongs to.
func (p *Position) PoolKey() PoolKey {
	return PoolKey{Asset: p.Asset, Chain: p.Chain}
}
