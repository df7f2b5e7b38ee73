package usecase

import (
	"github.com/shopspring/decimal"
)

// RateCurve is a two-slope (kinked) interest rate curve. Below the kink the
// borrow rate climbs gently to encourage borrowing; above it the rate climbs
// steeply to pull in fresh deposits. All parameters are annual decimal rates
// (0.04 = 4%).
type RateCurve struct {
	Base          decimal.Decimal
	Slope1        decimal.Decimal
	Slope2        decimal.Decimal
	Kink          decimal.Decimal
	ReserveFactor decimal.Decimal
	StableMargin  decimal.Decimal
}

// DefaultRateCurve mirrors common money-market defaults: 0% base, 4% slope
// below an 80% kink, 75% slope above, 10% reserve factor.
func DefaultRateCurve() RateCurve {
	return RateCurve{
		Base:          decimal.Zero,
		Slope1:        decimal.NewFromFloat(0.04),
		Slope2:        decimal.NewFromFloat(0.75),
		Kink:          decimal.NewFromFloat(0.80),
		ReserveFactor: decimal.NewFromFloat(0.10),
		StableMargin:  decimal.NewFromFloat(0.02),
	}
}

// StablecoinRateCurve is tuned for low-volatility assets: flatter slopes and
// a higher kink.
func StablecoinRateCurve() RateCurve {
	return RateCurve{
		Base:          decimal.Zero,
		Slope1:        decimal.NewFromFloat(0.02),
		Slope2:        decimal.NewFromFloat(0.60),
		Kink:          decimal.NewFromFloat(0.90),
		ReserveFactor: decimal.NewFromFloat(0.05),
		StableMargin:  decimal.NewFromFloat(0.01),
	}
}

// BorrowRateVariable computes the variable borrow rate at the given
// utilization. Utilization must already be clamped to [0,1].
func (c RateCurve) BorrowRateVariable(utilization decimal.Decimal) decimal.Decimal {
	if utilization.LessThanOrEqual(c.Kink) {
		return c.Base.Add(utilization.Mul(c.Slope1))
	}

	atKink := c.Base.Add(c.Kink.Mul(c.Slope1))
	excess := utilization.Sub(c.Kink)

	return atKink.Add(excess.Mul(c.Slope2))
}

// BorrowRateStable is the variable rate plus a fixed margin paid for rate
// certainty.
func (c RateCurve) BorrowRateStable(utilization decimal.Decimal) decimal.Decimal {
	return c.BorrowRateVariable(utilization).Add(c.StableMargin)
}

// SupplyRate redistributes borrow interest to suppliers:
// borrowRate * utilization * (1 - reserveFactor).
func (c RateCurve) SupplyRate(utilization decimal.Decimal) decimal.Decimal {
	oneMinusReserve := decimal.NewFromInt(1).Sub(c.ReserveFactor)
	return c.BorrowRateVariable(utilization).Mul(utilization).Mul(oneMinusReserve)
}
