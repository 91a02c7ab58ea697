package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Middleware wraps a handler; the router takes the auth and rate limit
// middlewares from the caller so tests can pass their own.
type Middleware func(http.Handler) http.Handler

// Mount registers the form routes on r and the JSON API under /api/v1.
// limit guards every route that accepts a password.
func (h *LedgerHandler) Mount(r chi.Router, auth, limit Middleware) {
	r.Get("/", h.Welcome)
	r.Get("/login", h.Form("login"))
	r.Get("/deposit", h.Form("deposit"))
	r.Get("/withdraw", h.Form("withdraw"))
	r.Get("/dispute", h.Form("dispute"))

	r.Group(func(r chi.Router) {
		r.Use(limit)

		r.Post("/login", h.Login)
		r.Post("/deposit", h.Deposit)
		r.Post("/withdraw", h.Withdraw)
		r.Post("/dispute", h.Dispute)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(limit).Post("/auth/token", h.Token)

		// Protected endpoints (auth required)
		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Post("/auth/logout", h.Logout)
			r.Get("/account", h.Account)
			r.Get("/transactions", h.Transactions)
			r.Get("/overdraft-logs", h.OverdraftLogs)
		})
	})
}
