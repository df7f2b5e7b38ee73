package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccrualItemStatus is the per-item outcome of an accrual run.
type AccrualItemStatus string

const (
	AccrualAccrued AccrualItemStatus = "accrued"
	AccrualSkipped AccrualItemStatus = "skipped"
	AccrualFailed  AccrualItemStatus = "failed"
)

// AccrualItemKind labels which entity type an item result refers to.
type AccrualItemKind string

const (
	AccrualKindSupply AccrualItemKind = "supply"
	AccrualKindBorrow AccrualItemKind = "borrow"
	AccrualKindLock   AccrualItemKind = "lock"
)

// AccrualResult records the outcome of one position or lock within a batch.
// Reason is set for skipped and failed items.
type AccrualResult struct {
	OwnerID         string
	Asset           string
	Chain           string
	Kind            AccrualItemKind
	Status          AccrualItemStatus
	OldAmount       decimal.Decimal
	NewAmount       decimal.Decimal
	AccruedInterest decimal.Decimal
	Reason          string
}

// AccrualBatch summarizes one accrual run. Item failures do not fail the
// batch; Success reflects only batch-level outcomes.
type AccrualBatch struct {
	RunID          string
	Success        bool
	ProcessedCount int
	Results        []AccrualResult
	ProcessedAt    time.Time
}

// Accrued counts items that actually gained interest this run.
func (b *AccrualBatch) Accrued() int {
	n := 0
	for _, r := range b.Results {
		if r.Status == AccrualAccrued {
			n++
		}
	}
	return n
}

// Failed counts items that errored this run.
func (b *AccrualBatch) Failed() int {
	n := 0
	for _, r := range b.Results {
		if r.Status == AccrualFailed {
			n++
		}
	}
	return n
}
