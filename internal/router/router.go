package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/asandoval/fintrack-backend/internal/handlers"
	"github.com/asandoval/fintrack-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.CORS)

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(lm.LoggerMiddleware)

	ph := handlers.NewPlaidHandlers(deps)
	ah := handlers.NewAdminHandlers(deps)
	ch := handlers.NewContentHandlers(deps)
	authmw := middleware.NewMiddleware(deps.Firebase)

	r.Route("/api", func(r chi.Router) {
		// body-identified endpoints, no bearer token required
		r.Post("/plaid/link-token", ph.CreateLinkToken)
		r.Post("/plaid/exchange", ph.ExchangePublicToken)
		r.Post("/transactions/fetch", ph.FetchTransactions)
		r.Post("/accounts/balances", ph.UpdateBalances)

		// key-gated admin bootstrap
		r.Post("/admin/grant", ah.GrantAdmin)
		r.Post("/admin/status", ah.CheckStatus)

		// authenticated
		r.Group(func(r chi.Router) {
			r.Use(authmw.FirebaseAuth)

			r.Get("/content/{collection}", ch.ListItems)
			r.Get("/settings", ch.GetSettings)

			// admin-claim-gated
			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAdmin)

				r.Get("/admin/users", ah.ListUsers)
				r.Post("/admin/users/status", ah.SetUserStatus)
				r.Get("/admin/stats", ah.PlatformStats)
				r.Post("/content/manage", ch.ManageItem)
				r.Put("/settings", ch.SaveSettings)
			})
		})
	})

	return r
}
