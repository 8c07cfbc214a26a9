package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/rpsgame-go/internal/api/apierr"
	"github.com/mcoot/rpsgame-go/internal/model"
	"github.com/mcoot/rpsgame-go/internal/services/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// CookieName is the cookie a browser session token may be sent in
const CookieName = "session"

// Session creates middleware that requires a valid session token
func Session(sessionService *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			sess, err := sessionService.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the session token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Browsers cannot set headers on EventSource or WebSocket requests
	cookie, err := r.Cookie(CookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionContextKey).(*session.Session)
	return sess
}

// MustGetNamespace returns the storage namespace of the session or panics
func MustGetNamespace(ctx context.Context) model.NamespaceID {
	sess := GetSession(ctx)
	if sess == nil {
		panic("no session in context - session middleware not applied?")
	}
	return sess.Namespace
}
