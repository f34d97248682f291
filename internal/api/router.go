// Package api assembles the HTTP surface: routes, middleware order,
// and the health endpoint.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/depot-ledger/depot-ledger/internal/api/handlers"
	"github.com/depot-ledger/depot-ledger/internal/api/middleware"
	"github.com/depot-ledger/depot-ledger/internal/auth"
	"github.com/depot-ledger/depot-ledger/internal/ledger"
)

// NewRouter wires all endpoints. Login and health are open; every
// ledger and stats route sits behind a valid session.
func NewRouter(svc *ledger.Service, gate *auth.Gate, sessions *auth.SessionRegistry, log zerolog.Logger) http.Handler {
	authHandler := handlers.NewAuthHandler(gate, sessions, log)
	txHandler := handlers.NewTransactionsHandler(svc, log)
	statsHandler := handlers.NewStatsHandler(svc, log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.RequestID(log))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessions))

			r.Get("/transactions", txHandler.List)
			r.Post("/transactions", txHandler.Create)
			r.Post("/transactions/batch", txHandler.BatchCreate)
			r.Put("/transactions/{id}", txHandler.Update)
			r.Delete("/transactions/{id}", txHandler.Delete)

			r.Get("/materials/suggest", txHandler.Suggest)

			r.Get("/stats/settlement", statsHandler.Settlement)
			r.Get("/stats/monthly", statsHandler.Monthly)
			r.Get("/stats/category-share", statsHandler.CategoryShare)
			r.Get("/stats/repair-ranking", statsHandler.RepairRanking)
		})
	})

	return r
}
