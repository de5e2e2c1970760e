// Package api implements the blog's REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/operlabs/conexao/internal/admin"
)

// AuthMiddleware returns middleware that validates the Bearer session token
// issued by the admin gate on login.
func AuthMiddleware(gate *admin.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimPrefix(auth, "Bearer ")
			if !strings.HasPrefix(auth, "Bearer ") || !gate.Valid(token) {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionToken extracts the Bearer token from a request, or "".
func sessionToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
