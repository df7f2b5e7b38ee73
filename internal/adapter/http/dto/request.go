package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordDepositRequest represents a deposit volume event feeding the demand
// bonus tracker.
type RecordDepositRequest struct {
	Asset      string          `json:"asset"`
	Chain      string          `json:"chain"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt *time.Time      `json:"occurred_at,omitempty"`
}

// At resolves the deposit timestamp, defaulting to now.
func (r *RecordDepositRequest) At(now time.Time) time.Time {
	if r.OccurredAt != nil {
		return r.OccurredAt.UTC()
	}
	return now
}
