package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rateengine/internal/adapter/http/dto"
	"github.com/iho/rateengine/internal/infrastructure/metrics"
	"github.com/iho/rateengine/internal/usecase"
)

// QuoteService defines the behavior needed by QuoteHandler.
type QuoteService interface {
	GetQuote(ctx context.Context, input usecase.QuoteInput) (*usecase.QuoteOutput, error)
	RecordDeposit(ctx context.Context, asset, chain string, amount decimal.Decimal, at time.Time) error
}

// QuoteHandler handles rate quote requests.
type QuoteHandler struct {
	quoteUC QuoteService
	metrics *metrics.Metrics
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteUC QuoteService, m *metrics.Metrics) *QuoteHandler {
	return &QuoteHandler{
		quoteUC: quoteUC,
		metrics: m,
	}
}

// Get returns the yield quote for a pool.
//
// GET /api/v1/quote?asset=USDT&chain=ethereum&governance_holder=true&principal=1000&term_days=30
func (h *QuoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	input := usecase.QuoteInput{
		Asset:            strings.ToUpper(r.URL.Query().Get("asset")),
		Chain:            r.URL.Query().Get("chain"),
		GovernanceHolder: parseBoolQuery(r, "governance_holder"),
	}

	if raw := r.URL.Query().Get("principal"); raw != "" {
		principal, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid principal", err.Error())
			return
		}

		input.Principal = &principal
	}

	if raw := r.URL.Query().Get("term_days"); raw != "" {
		days := parseIntQuery(r, "term_days", 0)
		input.TermDays = &days
	}

	out, err := h.quoteUC.GetQuote(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to compute quote", err.Error())

		return
	}

	h.metrics.QuotesServed.WithLabelValues(input.Asset, fallbackLabel(out.Quote.Fallback)).Inc()

	writeJSON(w, http.StatusOK, dto.QuoteFromOutput(out))
}

// RecordDeposit ingests a deposit volume event.
//
// POST /api/v1/deposits/volume
func (h *QuoteHandler) RecordDeposit(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	err := h.quoteUC.RecordDeposit(r.Context(), strings.ToUpper(req.Asset), req.Chain, req.Amount, req.At(time.Now().UTC()))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record deposit", err.Error())

		return
	}

	h.metrics.DepositsRecorded.WithLabelValues(strings.ToUpper(req.Asset), req.Chain).Inc()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

func fallbackLabel(fallback bool) string {
	if fallback {
		return "fallback"
	}
	return "live"
}
