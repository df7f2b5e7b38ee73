package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PoolKey identifies one liquidity pool: one asset on one chain.
type PoolKey struct {
	Asset string
	Chain string
}

// PoolAggregate is the summed view of all open positions for one pool,
// together with the rates currently offered by it.
//
// Invariants: TotalSupply equals the sum of CurrentAmount over open supply
// positions, Utilization = TotalBorrowed/TotalSupply clamped to [0,1]
// (zero when TotalSupply is zero), AvailableLiquidity >= 0.
type PoolAggregate struct {
	Asset              string
	Chain              string
	TotalSupply        decimal.Decimal
	TotalBorrowed      decimal.Decimal
	AvailableLiquidity decimal.Decimal
	Utilization        decimal.Decimal
	SupplyRate         decimal.Decimal
	BorrowRateVariable decimal.Decimal
	BorrowRateStable   decimal.Decimal
	UpdatedAt          time.Time
}

// ComputeUtilization derives the clamped utilization ratio from pool totals.
func ComputeUtilization(totalSupply, totalBorrowed decimal.Decimal) decimal.Decimal {
	if !totalSupply.IsPositive() {
		return decimal.Zero
	}

	u := totalBorrowed.Div(totalSupply)
	if u.IsNegative() {
		return decimal.Zero
	}
	if u.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}

	return u
}

// ComputeAvailableLiquidity derives the non-negative unborrowed remainder.
func ComputeAvailableLiquidity(totalSupply, totalBorrowed decimal.Decimal) decimal.Decimal {
	available := totalSupply.Sub(totalBorrowed)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// RateForPosition resolves the rate that applies to a position, by kind and
// rate mode.
func (p *PoolAggregate) RateForPosition(kind PositionKind, mode RateMode) decimal.Decimal {
	if kind == PositionSupply {
		return p.SupplyRate
	}
	if mode == RateModeStable {
		return p.BorrowRateStable
	}
	return p.BorrowRateVariable
}
