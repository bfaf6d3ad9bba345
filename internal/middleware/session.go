package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"sales-dashboard/internal/auth"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
)

const SessionCookie = "session"

// SessionStore resolves a session token.
type SessionStore interface {
	Session(token string) (auth.Session, error)
}

// SessionToken reads the token from the session cookie or a bearer header.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireSession rejects requests without a live session and stores the
// session in the request context.
func RequireSession(store SessionStore, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := observability.GetRequestID(r.Context())
			token := SessionToken(r)
			if token == "" {
				errors.WriteError(w, logger, errors.Unauthorized("login required"), requestID)
				return
			}
			sess, err := store.Session(token)
			if err != nil {
				errors.WriteError(w, logger, errors.UnauthorizedWrap(err, "session invalid or expired"), requestID)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}

// RequireManagement must run after RequireSession.
func RequireManagement(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := auth.FromContext(r.Context())
			if !ok || !sess.IsManagement() {
				errors.WriteError(w, logger, errors.Forbidden("management role required"), observability.GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
