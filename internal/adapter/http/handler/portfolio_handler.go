package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/rateengine/internal/adapter/http/dto"
	"github.com/iho/rateengine/internal/domain"
)

// PortfolioService defines the behavior needed by PortfolioHandler.
type PortfolioService interface {
	GetPosition(ctx context.Context, id string) (*domain.Position, error)
	GetLock(ctx context.Context, id string) (*domain.Lock, error)
	ListPositions(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Position, error)
}

// PortfolioHandler serves owner-facing position and lock reads.
type PortfolioHandler struct {
	portfolioUC PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioUC PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioUC: portfolioUC}
}

// GetPosition retrieves one position.
//
// GET /api/v1/positions/{id}
func (h *PortfolioHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	position, err := h.portfolioUC.GetPosition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get position", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PositionFromDomain(position))
}

// ListPositions pages through one owner's positions.
//
// GET /api/v1/positions?owner_id=owner-1&limit=50&offset=0
func (h *PortfolioHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	positions, err := h.portfolioUC.ListPositions(r.Context(), ownerID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list positions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PositionListFromDomain(positions))
}

// GetLock retrieves one lock.
//
// GET /api/v1/locks/{id}
func (h *PortfolioHandler) GetLock(w http.ResponseWriter, r *http.Request) {
	lock, err := h.portfolioUC.GetLock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get lock", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LockFromDomain(lock))
}
