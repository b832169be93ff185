package session

import (
	"context"
	"net/http"
)

type contextKey string

const ctxKey contextKey = "session_key"

// Middleware guarantees every request downstream has a session key in its
// context, minting one on first contact.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := m.EnsureSession(r.Context(), w, r)
		if err == nil {
			r = r.WithContext(context.WithValue(r.Context(), ctxKey, key))
		}
		next.ServeHTTP(w, r)
	})
}

// KeyFromContext returns the request's session key, or "" when the
// middleware did not run.
func KeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	key, _ := ctx.Value(ctxKey).(string)
	return key
}
