package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/depot-ledger/depot-ledger/internal/api/middleware"
	"github.com/depot-ledger/depot-ledger/internal/domain"
	"github.com/depot-ledger/depot-ledger/internal/ledger"
	"github.com/depot-ledger/depot-ledger/internal/stats"
)

// StatsHandler serves the dashboard aggregations. Each endpoint
// fetches the transaction set, applies the request's filter, and runs
// one pure aggregation over the result.
type StatsHandler struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *ledger.Service, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: log}
}

// Settlement handles GET /api/stats/settlement.
func (h *StatsHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	txs := h.filtered(r)
	middleware.WriteJSON(w, http.StatusOK, stats.SettlementTotals(txs))
}

// Monthly handles GET /api/stats/monthly?year=. The year defaults to
// the current one.
func (h *StatsHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = parsed
	}

	txs := h.filtered(r)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"months": stats.MonthlyTrend(txs, year),
	})
}

// CategoryShare handles GET /api/stats/category-share.
func (h *StatsHandler) CategoryShare(w http.ResponseWriter, r *http.Request) {
	txs := h.filtered(r)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"shares": stats.CategoryShare(txs),
	})
}

// RepairRanking handles GET /api/stats/repair-ranking.
func (h *StatsHandler) RepairRanking(w http.ResponseWriter, r *http.Request) {
	txs := h.filtered(r)
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"ranking": stats.RepairRanking(txs),
	})
}

func (h *StatsHandler) filtered(r *http.Request) []domain.Transaction {
	q := stats.Query{
		From:    r.URL.Query().Get("from"),
		To:      r.URL.Query().Get("to"),
		Keyword: r.URL.Query().Get("q"),
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		if cat, ok := domain.ParseCategory(raw); ok {
			q.Category = cat
		}
	}

	txs := h.svc.FetchAll(r.Context())
	return stats.Filter(txs, q)
}
