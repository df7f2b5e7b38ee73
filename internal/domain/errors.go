package domain

import "errors"

var (
	// Position errors
	ErrPositionNotFound = errors.New("position not found")
	ErrRateUnavailable  = errors.New("no rate available for pool")

	// Lock errors
	ErrLockNotFound  = errors.New("lock not found")
	ErrLockNotActive = errors.New("lock is not active")

	// Pool errors
	ErrPoolNotFound = errors.New("pool aggregate not found")

	// Concurrency errors. A write guarded by compare-and-swap on the last
	// update timestamp lost the race; the losing writer must no-op.
	ErrStaleUpdate = errors.New("stale update: record changed since read")

	// Validation errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidAsset  = errors.New("asset is required")
	ErrInvalidChain  = errors.New("chain is required")
	ErrInvalidTerm   = errors.New("invalid term")
	ErrInvalidOwner  = errors.New("owner is required")
)
