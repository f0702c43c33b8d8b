package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dom/locus-core/internal/cache"
	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/metrics"
)

const handshakeKeyPrefix = "handshake_"

// HandshakeService lets a logged-in user vouch for themselves to a peer
// application through a short-lived token that can be redeemed once.
type HandshakeService struct {
	sessions *SessionService
	cache    cache.Cache
	metrics  *metrics.Metrics
	ttl      time.Duration
}

func NewHandshakeService(sessions *SessionService, c cache.Cache, m *metrics.Metrics, ttl time.Duration) *HandshakeService {
	return &HandshakeService{
		sessions: sessions,
		cache:    c,
		metrics:  m,
		ttl:      ttl,
	}
}

// Issue mints a handshake token carrying the identity behind sessionToken.
func (s *HandshakeService) Issue(ctx context.Context, sessionToken string) (string, error) {
	user, err := s.sessions.Resolve(ctx, sessionToken)
	if err != nil {
		s.metrics.RecordHandshakeIssued(false)
		return "", err
	}

	payload, err := json.Marshal(domain.HandshakeRecord{User: *user, Used: false})
	if err != nil {
		return "", fmt.Errorf("encode handshake: %w", err)
	}

	token, err := newToken()
	if err != nil {
		s.metrics.RecordHandshakeIssued(false)
		return "", err
	}
	if err := s.cache.Set(ctx, handshakeKeyPrefix+token, string(payload), s.ttl); err != nil {
		s.metrics.RecordHandshakeIssued(false)
		return "", fmt.Errorf("store handshake: %w", err)
	}

	s.metrics.RecordHandshakeIssued(true)
	slog.Info("Handshake issued", "code", user.Code)
	return token, nil
}

// Redeem consumes a handshake token and returns the identity it carries.
// It returns nil for unknown, expired and already used tokens alike. Among
// concurrent callers at most one receives the identity.
func (s *HandshakeService) Redeem(ctx context.Context, token string) *domain.Session {
	user := s.redeem(ctx, token)
	s.metrics.RecordHandshakeRedeemed(user != nil)
	return user
}

func (s *HandshakeService) redeem(ctx context.Context, token string) *domain.Session {
	if token == "" {
		return nil
	}
	key := handshakeKeyPrefix + token

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Error("Failed to load handshake", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var record domain.HandshakeRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		slog.Warn("Discarding unreadable handshake", "error", err)
		return nil
	}

	if record.Used {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Error("Failed to evict used handshake", "error", err)
		}
		return nil
	}

	record.Used = true
	consumed, err := json.Marshal(record)
	if err != nil {
		return nil
	}

	swapped, err := s.cache.CompareAndSwap(ctx, key, raw, string(consumed))
	if err != nil {
		slog.Error("Failed to consume handshake", "error", err)
		return nil
	}
	if !swapped {
		return nil
	}

	slog.Info("Handshake redeemed", "code", record.User.Code)
	return &record.User
}
