package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LockStatus is a one-way terminal state machine:
// active -> matured (time-triggered) or active -> exited_early (user action).
type LockStatus string

const (
	LockStatusActive      LockStatus = "active"
	LockStatusMatured     LockStatus = "matured"
	LockStatusExitedEarly LockStatus = "exited_early"
)

var daysPerYear = decimal.NewFromInt(365)

// Lock is a fixed-term, fixed-rate deposit. AccruedInterest for an active
// lock is recomputed from StartTime on every accrual run; once matured it is
// frozen at the full-term value.
type Lock struct {
	ID              string
	OwnerID         string
	Asset           string
	Chain           string
	PrincipalAmount decimal.Decimal
	APYApplied      decimal.Decimal
	StartTime       time.Time
	EndTime         time.Time
	Status          LockStatus
	AccruedInterest decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive reports whether the lock can still accrue interest.
func (l *Lock) IsActive() bool {
	return l.Status == LockStatusActive
}

// IsMature reports whether the lock has reached its end time.
func (l *Lock) IsMature(now time.Time) bool {
	return !now.Before(l.EndTime)
}

// DailyRate is APYApplied / 365 / 100, the per-day simple interest rate.
func (l *Lock) DailyRate() decimal.Decimal {
	return l.APYApplied.Div(daysPerYear).Div(decimal.NewFromInt(100))
}

// DaysElapsed returns whole days elapsed since StartTime, never negative.
func (l *Lock) DaysElapsed(now time.Time) int64 {
	days := int64(now.Sub(l.StartTime).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// TermDays returns the whole-day length of the full lock term.
func (l *Lock) TermDays() int64 {
	days := int64(l.EndTime.Sub(l.StartTime).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// InterestForDays computes simple (non-compounding) interest over the given
// number of whole days.
func (l *Lock) InterestForDays(days int64) decimal.Decimal {
	return l.PrincipalAmount.Mul(l.DailyRate()).Mul(decimal.NewFromInt(days))
}

// PoolKey identifies the pool the lock's asset belongs to.
func (l *Lock) PoolKey() PoolKey {
	return PoolKey{Asset: l.Asset, Chain: l.Chain}
}
