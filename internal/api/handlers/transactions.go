package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/depot-ledger/depot-ledger/internal/api/middleware"
	"github.com/depot-ledger/depot-ledger/internal/ledger"
	"github.com/depot-ledger/depot-ledger/internal/logger"
	"github.com/depot-ledger/depot-ledger/internal/stats"
)

// TransactionsHandler exposes the ledger CRUD surface. Payloads stay
// raw key-value bags all the way into the facade so historical clients
// submitting aliased field names keep working.
type TransactionsHandler struct {
	svc *ledger.Service
	log zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc *ledger.Service, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{svc: svc, log: log}
}

// List handles GET /api/transactions. The read path is fail-soft: a
// store outage yields an empty list, not an error.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	txs := h.svc.FetchAll(r.Context())
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

// Create handles POST /api/transactions.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.svc.Insert(r.Context(), payload, middleware.UserFromContext(r.Context()))
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Insert failed")
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"transaction": tx,
	})
}

// Update handles PUT /api/transactions/{id}. A target id that no
// longer exists degrades to an append; the caller still sees success.
func (h *TransactionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The path id wins over whatever the body carried.
	payload["id"] = chi.URLParam(r, "id")

	tx, err := h.svc.Update(r.Context(), payload, middleware.UserFromContext(r.Context()))
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Update failed")
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"transaction": tx,
	})
}

// Delete handles DELETE /api/transactions/{id}, removing the id from
// every category partition.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	removed, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Msg("Delete failed")
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"removed": removed,
	})
}

// BatchCreate handles POST /api/transactions/batch. Inserts are not
// transactional: rows committed before a failure stay committed and
// the response only reports overall success plus the landed count.
func (h *TransactionsHandler) BatchCreate(w http.ResponseWriter, r *http.Request) {
	var payloads []map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inserted, err := h.svc.BatchInsert(r.Context(), payloads, middleware.UserFromContext(r.Context()))
	if err != nil {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Int("inserted", inserted).Msg("Batch insert partially failed")
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]any{
			"success":  false,
			"inserted": inserted,
		})
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"inserted": inserted,
	})
}

// Suggest handles GET /api/materials/suggest?q=. It serves the form
// autocompletion with distinct material names from the history.
func (h *TransactionsHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	txs := h.svc.FetchAll(r.Context())
	names := stats.MaterialNames(txs, r.URL.Query().Get("q"))
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"materials": names,
		"count":     len(names),
	})
}
