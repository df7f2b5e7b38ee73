package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/rateengine/internal/adapter/http/dto"
	"github.com/iho/rateengine/internal/domain"
	"github.com/iho/rateengine/internal/infrastructure/metrics"
)

// AccrualService defines the behavior needed by AccrualHandler. Both batch
// jobs share the same run shape.
type AccrualService interface {
	Run(ctx context.Context, now time.Time) (*domain.AccrualBatch, error)
}

// AccrualHandler triggers accrual runs over HTTP. Runs are idempotent within
// their accrual window, so an external scheduler can retrigger safely.
type AccrualHandler struct {
	positionUC AccrualService
	lockUC     AccrualService
	metrics    *metrics.Metrics
}

// NewAccrualHandler creates a new AccrualHandler.
func NewAccrualHandler(positionUC, lockUC AccrualService, m *metrics.Metrics) *AccrualHandler {
	return &AccrualHandler{
		positionUC: positionUC,
		lockUC:     lockUC,
		metrics:    m,
	}
}

// RunPositions executes a position accrual batch.
func (h *AccrualHandler) RunPositions(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.positionUC, "positions")
}

// RunLocks executes a lock accrual batch.
func (h *AccrualHandler) RunLocks(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.lockUC, "locks")
}

func (h *AccrualHandler) run(w http.ResponseWriter, r *http.Request, uc AccrualService, job string) {
	start := time.Now()

	batch, err := uc.Run(r.Context(), time.Now().UTC())
	if err != nil {
		h.metrics.AccrualRuns.WithLabelValues(job, "error").Inc()
		writeError(w, http.StatusInternalServerError, "accrual run failed", err.Error())

		return
	}

	h.metrics.AccrualRuns.WithLabelValues(job, "ok").Inc()
	h.metrics.AccrualRunDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
	for _, result := range batch.Results {
		h.metrics.AccrualItems.WithLabelValues(job, string(result.Status)).Inc()
		if result.Status == domain.AccrualAccrued {
			h.metrics.InterestAccrued.WithLabelValues(result.Asset, result.Chain).Add(result.AccruedInterest.InexactFloat64())
		}
	}

	writeJSON(w, http.StatusOK, dto.AccrualBatchFromDomain(batch))
}
