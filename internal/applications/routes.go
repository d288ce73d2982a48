package applications

import (
	"net/http"

	"github.com/DepositEase/DE-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// SetupRoutes serves /applications. Submission and browsing are public;
// review and deletion require a session.
func SetupRoutes(tokens middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	r.Post("/", CreateApplication)
	r.Get("/", ListApplications)
	r.Get("/{application_id}", GetApplication)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(tokens))

		r.Put("/{application_id}", UpdateApplication)
		r.Delete("/{application_id}", DeleteApplication)
	})

	return r
}

// StatsRoutes serves /stats, admin only.
func StatsRoutes(tokens middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(tokens))

		r.Get("/dashboard", DashboardHandler)
	})

	return r
}
