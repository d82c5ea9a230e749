// Package middleware provides HTTP middleware for the SafeHaven API.
package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AFARIMINTAH/Safehaven/internal/api/respond"
	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/metrics"
)

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(a Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(a, r)
			if err != nil {
				respond.WriteServiceError(w, err, "authentication failed")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth lets anonymous requests through but still rejects a bad token.
func OptionalAuth(a Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := authenticate(a, r)
			if err != nil {
				respond.WriteServiceError(w, err, "authentication failed")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}

func authenticate(a Authenticator, r *http.Request) (string, error) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		metrics.IncAuthFailure("missing_token")
		return "", err
	}
	return a.Authenticate(token)
}
