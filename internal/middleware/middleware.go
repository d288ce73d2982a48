package middleware

import (
	"context"
	"net/http"

	"github.com/DepositEase/DE-Backend/internal/utils"
)

// TokenValidator resolves a presented session token to the admin username it
// was issued for. The auth module's Issuer satisfies this.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// SessionMiddleware gates a route group on a valid session cookie. A missing
// cookie and a token that fails validation get the identical response, so a
// caller can't probe which of the two happened.
func SessionMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("access_token")
			if err != nil {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			username, err := tokens.Validate(cookie.Value)
			if err != nil {
				http.Error(w, "Not authenticated", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:3000":           {},
	"http://localhost:5173":           {},
	"https://depositease.app":         {},
	"https://www.depositease.app":     {},
	"https://staging.depositease.app": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it's on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
