package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/service"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	TokenKey   contextKey = "token"
)

// Auth resolves the bearer session token from the Authorization header and
// stores the session in the request context. Tokens in the query string are
// ignored so they never reach the access log.
func Auth(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromRequest(r)
			if !ok {
				slog.Warn("Invalid authorization header", "path", r.URL.Path)
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			session, err := sessions.Resolve(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrMissingToken):
					http.Error(w, "Authorization required", http.StatusUnauthorized)
				case errors.Is(err, domain.ErrSessionExpired):
					http.Error(w, "Session expired", http.StatusUnauthorized)
				default:
					slog.Error("Session lookup failed", "error", err)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest reports false only for a malformed Authorization header.
// A request without any token yields an empty token.
func tokenFromRequest(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", true
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*domain.Session)
	return session, ok
}

func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
