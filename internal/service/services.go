package service

import (
	"github.com/dom/locus-core/internal/cache"
	"github.com/dom/locus-core/internal/config"
	"github.com/dom/locus-core/internal/idgen"
	"github.com/dom/locus-core/internal/metrics"
	"github.com/dom/locus-core/internal/repository"
)

type Services struct {
	Sessions  *SessionService
	Auth      *AuthService
	Handshake *HandshakeService
	Employee  *EmployeeService
	Entry     *EntryService
	IDs       *idgen.Generator
}

func NewServices(repos *repository.Repositories, c cache.Cache, cfg *config.Config) *Services {
	m := metrics.Default()
	ids := idgen.New(repos.Records, idgen.WithLocation(cfg.Location()))
	sessions := NewSessionService(c, cfg.SessionTTL)

	return &Services{
		Sessions:  sessions,
		Auth:      NewAuthService(repos.Employee, sessions, m, cfg.HashPasswords),
		Handshake: NewHandshakeService(sessions, c, m, cfg.HandshakeTTL),
		Employee:  NewEmployeeService(ids, m),
		Entry:     NewEntryService(ids, m, cfg.Location()),
		IDs:       ids,
	}
}
