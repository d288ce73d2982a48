package catalog

import (
	"net/http"

	"github.com/DepositEase/DE-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// BankRoutes serves /banks. Reads are public; mutations require a session.
func BankRoutes(tokens middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListBanks)
	r.Get("/{bank_id}", GetBank)
	r.Get("/{bank_id}/products", ListBankProducts)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(tokens))

		r.Post("/", CreateBank)
		r.Put("/{bank_id}", UpdateBank)
		r.Delete("/{bank_id}", DeleteBank)
	})

	return r
}

// ProductRoutes serves /products with the same public-read, gated-write split.
func ProductRoutes(tokens middleware.TokenValidator) http.Handler {
	r := chi.NewRouter()

	r.Get("/", ListProducts)
	r.Get("/{product_id}", GetProduct)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(tokens))

		r.Post("/", CreateProduct)
		r.Put("/{product_id}", UpdateProduct)
		r.Delete("/{product_id}", DeleteProduct)
	})

	return r
}
