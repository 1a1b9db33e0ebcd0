package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/valveworks/valve-design-suite/internal/auth"
	"github.com/valveworks/valve-design-suite/internal/models"
)

// bearerToken extracts the token from the Authorization header or,
// failing that, the auth query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("auth")
}

// RequireAuth validates the bearer token, loads the user and injects
// user and auth_token into the request context.
func RequireAuth(tokens *auth.TokenStore, users *auth.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Validate(r.Context(), tok)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "user", user)
			ctx = context.WithValue(ctx, "auth_token", tok)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole refuses requests whose authenticated user does not carry
// the given role. Must run after RequireAuth.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := r.Context().Value("user").(*models.User)
			if !ok || user.Role != role {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
