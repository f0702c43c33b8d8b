package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dom/locus-core/internal/cache"
	"github.com/dom/locus-core/internal/domain"
)

const sessionKeyPrefix = "session_"

// SessionService issues opaque session tokens and resolves them back to the
// identity they were created for. Sessions expire a fixed TTL after creation
// and are never refreshed.
type SessionService struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSessionService(c cache.Cache, ttl time.Duration) *SessionService {
	return &SessionService{cache: c, ttl: ttl}
}

func (s *SessionService) Create(ctx context.Context, session *domain.Session) (string, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+token, string(payload), s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Resolve returns the session stored under token. Unknown and expired tokens
// both report domain.ErrSessionExpired.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	raw, ok, err := s.cache.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, domain.ErrSessionExpired
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		slog.Warn("Discarding unreadable session", "error", err)
		return nil, domain.ErrSessionExpired
	}
	return &session, nil
}
