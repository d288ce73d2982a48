package auth

import (
	"net/http"

	"github.com/DepositEase/DE-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", RegisterHandler)
	r.Post("/login", LoginHandler)
	// Logout only instructs the client to drop the cookie, so it needs no session
	r.Post("/logout", LogoutHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(tokens))
		r.Get("/me", MeHandler)
	})

	return r
}
