package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTermDays     = 3650
	MaxPrincipal    = "1000000000000" // 1 trillion
	DefaultPageSize = 50
	MaxPageSize     = 1000
)

var assetRegex = regexp.MustCompile(`^[A-Z0-9]{2,16}$`)

// ValidateAsset validates an asset symbol (uppercase ticker, e.g. USDT).
func ValidateAsset(asset string) error {
	asset = strings.TrimSpace(asset)

	if asset == "" {
		return ErrInvalidAsset
	}

	if !assetRegex.MatchString(strings.ToUpper(asset)) {
		return fmt.Errorf("%w: %q is not a valid asset symbol", ErrInvalidAsset, asset)
	}

	return nil
}

// ValidateChain validates a chain identifier.
func ValidateChain(chain string) error {
	if strings.TrimSpace(chain) == "" {
		return ErrInvalidChain
	}
	return nil
}

// ValidatePrincipal validates a projection principal.
func ValidatePrincipal(principal decimal.Decimal) error {
	if principal.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxPrincipal, _ := decimal.NewFromString(MaxPrincipal)
	if principal.GreaterThan(maxPrincipal) {
		return fmt.Errorf("%w: maximum principal is %s", ErrInvalidAmount, MaxPrincipal)
	}

	return nil
}

// ValidateTermDays validates a projection term.
func ValidateTermDays(days int) error {
	if days <= 0 || days > MaxTermDays {
		return fmt.Errorf("%w: term must be between 1 and %d days", ErrInvalidTerm, MaxTermDays)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters.
func ValidatePagination(limit, offset int) (int, int, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
