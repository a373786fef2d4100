package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// usernameKey carries the authenticated dispatcher username.
const usernameKey contextKey = "auth.username"

// Username returns the dispatcher username stored by Middleware, or ""
// for unauthenticated requests.
func Username(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}

// Middleware rejects requests without a valid bearer session token and
// stashes the dispatcher username in the request context.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing session token"})
			return
		}
		username, err := s.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
	})
}
