package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/depot-ledger/depot-ledger/internal/api/middleware"
	"github.com/depot-ledger/depot-ledger/internal/auth"
	"github.com/depot-ledger/depot-ledger/internal/domain"
)

// AuthHandler handles login and logout against the shared-secret gate.
type AuthHandler struct {
	gate     *auth.Gate
	sessions *auth.SessionRegistry
	log      zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(gate *auth.Gate, sessions *auth.SessionRegistry, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{gate: gate, sessions: sessions, log: log}
}

// Login handles POST /api/login. A wrong credential is a normal
// response with authorized=false, never an HTTP error; there is no
// lockout or backoff.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User     string `json:"user"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ok, message := h.gate.Login(req.Password)
	if !ok {
		h.log.Info().Str("user", req.User).Msg("Rejected login")
		middleware.WriteJSON(w, http.StatusOK, map[string]any{
			"authorized": false,
			"message":    message,
		})
		return
	}

	user := req.User
	if user == "" {
		user = domain.DefaultOperator
	}
	token := h.sessions.Issue(user)

	h.log.Info().Str("user", user).Msg("Login succeeded")
	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"authorized": true,
		"token":      token,
		"user":       user,
	})
}

// Logout handles POST /api/logout, revoking the presented session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if header := r.Header.Get("Authorization"); len(header) > 7 {
		h.sessions.Revoke(header[7:])
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
