package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HourlyPeriodsPerYear is the compounding frequency n used for variable-rate
// accrual: hourly periods, 24 * 365.
const HourlyPeriodsPerYear = 8760

var (
	hourlyPeriods = decimal.NewFromInt(HourlyPeriodsPerYear)
	one           = decimal.NewFromInt(1)
)

// compoundPrecision bounds the decimal exponentiation; balances tend to carry
// far fewer significant digits than this.
const compoundPrecision = 24

// CompoundFactor returns (1 + rate/8760)^hours, the growth multiplier for a
// balance compounding hourly at the given annual rate over fractional hours.
func CompoundFactor(rate, hours decimal.Decimal) (decimal.Decimal, error) {
	base := one.Add(rate.Div(hourlyPeriods))

	factor, err := base.PowWithPrecision(hours, compoundPrecision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("compound factor for rate %s over %s hours: %w", rate, hours, err)
	}

	return factor, nil
}
