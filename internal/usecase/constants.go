package usecase

import "time"

const (
	// MinAccrualHours is the idempotence guard for position accrual: re-runs
	// inside the same hour window must not double-accrue.
	MinAccrualHours = 1

	// TrailingVolumeDays is the deposit-volume window for the demand bonus.
	TrailingVolumeDays = 7

	// QuoteCacheTTL bounds staleness of cached quotes.
	QuoteCacheTTL = 30 * time.Second
)
