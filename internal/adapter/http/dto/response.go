package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/domain"
	"github.com/iho/rateengine/internal/usecase"
)

// AccrualResultResponse represents one position or lock outcome within an
// accrual run.
type AccrualResultResponse struct {
	OwnerID         string          `json:"owner_id"`
	Asset           string          `json:"asset"`
	Chain           string          `json:"chain"`
	Kind            string          `json:"kind"`
	Status          string          `json:"status"`
	OldAmount       decimal.Decimal `json:"old_amount"`
	NewAmount       decimal.Decimal `json:"new_amount"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	Reason          string          `json:"reason,omitempty"`
}

// AccrualBatchResponse represents a completed accrual run.
type AccrualBatchResponse struct {
	RunID          string                  `json:"run_id"`
	Success        bool                    `json:"success"`
	ProcessedCount int                     `json:"processed_count"`
	AccruedCount   int                     `json:"accrued_count"`
	FailedCount    int                     `json:"failed_count"`
	Results        []AccrualResultResponse `json:"results"`
	ProcessedAt    time.Time               `json:"processed_at"`
}

// AccrualBatchFromDomain converts a domain batch to a response.
func AccrualBatchFromDomain(batch *domain.AccrualBatch) *AccrualBatchResponse {
	results := make([]AccrualResultResponse, len(batch.Results))
	for i, r := range batch.Results {
		results[i] = AccrualResultResponse{
			OwnerID:         r.OwnerID,
			Asset:           r.Asset,
			Chain:           r.Chain,
			Kind:            string(r.Kind),
			Status:          string(r.Status),
			OldAmount:       r.OldAmount,
			NewAmount:       r.NewAmount,
			AccruedInterest: r.AccruedInterest,
			Reason:          r.Reason,
		}
	}

	return &AccrualBatchResponse{
		RunID:          batch.RunID,
		Success:        batch.Success,
		ProcessedCount: batch.ProcessedCount,
		AccruedCount:   batch.Accrued(),
		FailedCount:    batch.Failed(),
		Results:        results,
		ProcessedAt:    batch.ProcessedAt,
	}
}

// QuoteResponse represents a yield quote in API responses.
type QuoteResponse struct {
	Asset             string           `json:"asset"`
	Chain             string           `json:"chain"`
	BaseAPY           decimal.Decimal  `json:"base_apy"`
	UtilizationBonus  decimal.Decimal  `json:"utilization_bonus"`
	DemandBonus       decimal.Decimal  `json:"demand_bonus"`
	GovernanceBonus   decimal.Decimal  `json:"governance_bonus"`
	GrossAPY          decimal.Decimal  `json:"gross_apy"`
	PlatformFeeRate   decimal.Decimal  `json:"platform_fee_rate"`
	PlatformFeeAPY    decimal.Decimal  `json:"platform_fee_apy"`
	NetAPY            decimal.Decimal  `json:"net_apy"`
	Fallback          bool             `json:"fallback"`
	ProjectedEarnings *decimal.Decimal `json:"projected_earnings,omitempty"`
}

// QuoteFromOutput converts a use case quote output to a response.
func QuoteFromOutput(out *usecase.QuoteOutput) *QuoteResponse {
	q := out.Quote

	return &QuoteResponse{
		Asset:             q.Asset,
		Chain:             q.Chain,
		BaseAPY:           q.BaseAPY,
		UtilizationBonus:  q.UtilizationBonus,
		DemandBonus:       q.DemandBonus,
		GovernanceBonus:   q.GovernanceBonus,
		GrossAPY:          q.GrossAPY,
		PlatformFeeRate:   q.PlatformFeeRate,
		PlatformFeeAPY:    q.PlatformFeeAPY,
		NetAPY:            q.NetAPY,
		Fallback:          q.Fallback,
		ProjectedEarnings: out.ProjectedEarnings,
	}
}

// PoolResponse represents a pool aggregate in API responses.
type PoolResponse struct {
	Asset              string          `json:"asset"`
	Chain              string          `json:"chain"`
	TotalSupply        decimal.Decimal `json:"total_supply"`
	TotalBorrowed      decimal.Decimal `json:"total_borrowed"`
	AvailableLiquidity decimal.Decimal `json:"available_liquidity"`
	Utilization        decimal.Decimal `json:"utilization"`
	SupplyRate         decimal.Decimal `json:"supply_rate"`
	BorrowRateVariable decimal.Decimal `json:"borrow_rate_variable"`
	BorrowRateStable   decimal.Decimal `json:"borrow_rate_stable"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// PoolFromDomain converts a domain pool aggregate to a response.
func PoolFromDomain(p *domain.PoolAggregate) *PoolResponse {
	return &PoolResponse{
		Asset:              p.Asset,
		Chain:              p.Chain,
		TotalSupply:        p.TotalSupply,
		TotalBorrowed:      p.TotalBorrowed,
		AvailableLiquidity: p.AvailableLiquidity,
		Utilization:        p.Utilization,
		SupplyRate:         p.SupplyRate,
		BorrowRateVariable: p.BorrowRateVariable,
		BorrowRateStable:   p.BorrowRateStable,
		UpdatedAt:          p.UpdatedAt,
	}
}

// PositionResponse represents a position in API responses.
type PositionResponse struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	Asset           string          `json:"asset"`
	Chain           string          `json:"chain"`
	Kind            string          `json:"kind"`
	CurrentAmount   decimal.Decimal `json:"current_amount"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	RateMode        string          `json:"rate_mode"`
	LastUpdate      time.Time       `json:"last_update"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PositionFromDomain converts a domain position to a response.
func PositionFromDomain(p *domain.Position) *PositionResponse {
	return &PositionResponse{
		ID:              p.ID,
		OwnerID:         p.OwnerID,
		Asset:           p.Asset,
		Chain:           p.Chain,
		Kind:            string(p.Kind),
		CurrentAmount:   p.CurrentAmount,
		AccruedInterest: p.AccruedInterest,
		RateMode:        string(p.RateMode),
		LastUpdate:      p.LastUpdate,
		CreatedAt:       p.CreatedAt,
	}
}

// PositionListResponse represents one page of an owner's positions.
type PositionListResponse struct {
	Positions []PositionResponse `json:"positions"`
	Count     int                `json:"count"`
}

// PositionListFromDomain converts a page of positions to a response.
func PositionListFromDomain(positions []*domain.Position) *PositionListResponse {
	out := make([]PositionResponse, len(positions))
	for i, p := range positions {
		out[i] = *PositionFromDomain(p)
	}

	return &PositionListResponse{Positions: out, Count: len(out)}
}

// LockResponse represents a fixed-term lock in API responses.
type LockResponse struct {
	ID              string          `json:"id"`
	OwnerID         string          `json:"owner_id"`
	Asset           string          `json:"asset"`
	Chain           string          `json:"chain"`
	PrincipalAmount decimal.Decimal `json:"principal_amount"`
	APYApplied      decimal.Decimal `json:"apy_applied"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
	Status          string          `json:"status"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
}

// LockFromDomain converts a domain lock to a response.
func LockFromDomain(l *domain.Lock) *LockResponse {
	return &LockResponse{
		ID:              l.ID,
		OwnerID:         l.OwnerID,
		Asset:           l.Asset,
		Chain:           l.Chain,
		PrincipalAmount: l.PrincipalAmount,
		APYApplied:      l.APYApplied,
		StartTime:       l.StartTime,
		EndTime:         l.EndTime,
		Status:          string(l.Status),
		AccruedInterest: l.AccruedInterest,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
