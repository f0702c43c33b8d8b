package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/idgen"
	"github.com/dom/locus-core/internal/metrics"
)

// InitialPassword is given to every new employee until they change it.
const InitialPassword = "000000"

type EmployeeService struct {
	ids     *idgen.Generator
	metrics *metrics.Metrics
}

func NewEmployeeService(ids *idgen.Generator, m *metrics.Metrics) *EmployeeService {
	return &EmployeeService{ids: ids, metrics: m}
}

type NewEmployeeInput struct {
	Name   string
	Branch string
	Role   string
}

type NewEmployeeResult struct {
	Code     string
	Password string
}

// Add creates an inactive employee with a freshly minted code and the
// initial password. Only HR managers and admins may add employees, and the
// Owner role cannot be assigned.
func (s *EmployeeService) Add(ctx context.Context, actor *domain.Session, input NewEmployeeInput) (*NewEmployeeResult, error) {
	if actor == nil || !domain.Role(actor.Role).CanManageEmployees() {
		return nil, domain.ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if domain.Role(input.Role) == domain.RoleOwner {
		return nil, fmt.Errorf("%w: cannot assign the %s role", domain.ErrValidation, domain.RoleOwner)
	}

	code, err := s.ids.MintEmployee(ctx, func(code string) domain.Row {
		e := &domain.Employee{
			Code:     code,
			Password: InitialPassword,
			Name:     name,
			Branch:   input.Branch,
			Role:     input.Role,
			IsActive: "No",
		}
		return e.Row()
	})
	s.metrics.RecordIdentifier(domain.EmployeesTable.Name, err == nil)
	if err != nil {
		return nil, err
	}

	slog.Info("Employee added", "code", code, "by", actor.Code)
	return &NewEmployeeResult{Code: code, Password: InitialPassword}, nil
}
