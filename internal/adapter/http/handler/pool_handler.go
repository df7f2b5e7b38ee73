package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/rateengine/internal/adapter/http/dto"
	"github.com/iho/rateengine/internal/domain"
	"github.com/iho/rateengine/internal/infrastructure/metrics"
)

// PoolService defines the behavior needed by PoolHandler.
type PoolService interface {
	GetPool(ctx context.Context, asset, chain string) (*domain.PoolAggregate, error)
}

// PoolHandler handles pool aggregate reads.
type PoolHandler struct {
	poolUC  PoolService
	metrics *metrics.Metrics
}

// NewPoolHandler creates a new PoolHandler.
func NewPoolHandler(poolUC PoolService, m *metrics.Metrics) *PoolHandler {
	return &PoolHandler{
		poolUC:  poolUC,
		metrics: m,
	}
}

// Get retrieves one pool aggregate.
//
// GET /api/v1/pools/{asset}/{chain}
func (h *PoolHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset := strings.ToUpper(chi.URLParam(r, "asset"))
	chain := chi.URLParam(r, "chain")

	pool, err := h.poolUC.GetPool(r.Context(), asset, chain)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get pool", err.Error())

		return
	}

	h.metrics.PoolUtilization.WithLabelValues(pool.Asset, pool.Chain).Set(pool.Utilization.InexactFloat64())

	writeJSON(w, http.StatusOK, dto.PoolFromDomain(pool))
}
