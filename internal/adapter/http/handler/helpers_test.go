package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/rateengine/internal/adapter/http/dto"
	"github.com/iho/rateengine/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/quote?term_days=50", nil)
	if got := parseIntQuery(req, "term_days", 10); got != 50 {
		t.Fatalf("expected term_days=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/quote?term_days=invalid", nil)
	if got := parseIntQuery(req, "term_days", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "term_days", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseBoolQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/quote?governance_holder=true", nil)
	if !parseBoolQuery(req, "governance_holder") {
		t.Fatalf("expected true")
	}

	req = httptest.NewRequest(http.MethodGet, "/quote?governance_holder=banana", nil)
	if parseBoolQuery(req, "governance_holder") {
		t.Fatalf("expected malformed value to read false")
	}

	req = httptest.NewRequest(http.MethodGet, "/quote", nil)
	if parseBoolQuery(req, "governance_holder") {
		t.Fatalf("expected missing value to read false")
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"pool not found", domain.ErrPoolNotFound, http.StatusNotFound},
		{"position not found", domain.ErrPositionNotFound, http.StatusNotFound},
		{"lock not found", domain.ErrLockNotFound, http.StatusNotFound},
		{"invalid asset", domain.ErrInvalidAsset, http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"invalid term", domain.ErrInvalidTerm, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
