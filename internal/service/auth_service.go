package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/metrics"
	"github.com/dom/locus-core/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthService struct {
	employeeRepo  repository.EmployeeRepository
	sessions      *SessionService
	metrics       *metrics.Metrics
	hashPasswords bool
}

func NewAuthService(employeeRepo repository.EmployeeRepository, sessions *SessionService, m *metrics.Metrics, hashPasswords bool) *AuthService {
	return &AuthService{
		employeeRepo:  employeeRepo,
		sessions:      sessions,
		metrics:       m,
		hashPasswords: hashPasswords,
	}
}

type LoginInput struct {
	Code     string
	Password string
}

type AuthResult struct {
	Token string
	User  *domain.Session
}

// Authenticate checks the credentials against the Employees table and opens
// a session. Exactly one active record must match both code and password.
func (s *AuthService) Authenticate(ctx context.Context, input LoginInput) (*AuthResult, error) {
	code := strings.TrimSpace(input.Code)
	password := strings.TrimSpace(input.Password)
	if code == "" || password == "" {
		s.metrics.RecordLogin(false)
		return nil, domain.ErrInvalidCredentials
	}

	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var match *domain.Employee
	matches := 0
	for _, e := range employees {
		if strings.TrimSpace(e.Code) != code || !e.Active() {
			continue
		}
		if !passwordMatches(e.Password, password) {
			continue
		}
		match = e
		matches++
	}

	if matches != 1 {
		if matches > 1 {
			slog.Warn("Ambiguous credentials, refusing login", "code", code, "matches", matches)
		}
		s.metrics.RecordLogin(false)
		return nil, domain.ErrInvalidCredentials
	}

	user := match.Session()
	token, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(true)
	slog.Info("User logged in", "code", user.Code, "role", user.Role)
	return &AuthResult{Token: token, User: user}, nil
}

// ChangePassword replaces the password of the session's own record after
// checking the old one. Both passwords are trimmed the same way Authenticate
// trims the supplied password.
func (s *AuthService) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	session, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return err
	}

	oldPassword = strings.TrimSpace(oldPassword)
	newPassword = strings.TrimSpace(newPassword)
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old and new passwords are required", domain.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	employee, err := s.employeeRepo.GetByCode(ctx, session.Code)
	if err != nil {
		return err
	}

	if !passwordMatches(employee.Password, oldPassword) {
		return domain.ErrWrongPassword
	}

	stored := newPassword
	if s.hashPasswords {
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		stored = string(hashed)
	}

	if err := s.employeeRepo.UpdatePassword(ctx, session.Code, stored); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return err
		}
		return fmt.Errorf("update password: %w", err)
	}

	slog.Info("Password changed", "code", session.Code)
	return nil
}

// passwordMatches compares a stored password with the supplied one. Stored
// values that look like bcrypt hashes are verified as such, everything else
// is compared as trimmed plain text.
func passwordMatches(stored, supplied string) bool {
	stored = strings.TrimSpace(stored)
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
