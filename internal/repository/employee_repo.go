package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/dom/locus-core/internal/domain"
)

// employeeRepository is a view of the Employees table.
type employeeRepository struct {
	store RecordStore
}

func NewEmployeeRepository(store RecordStore) *employeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	rows, err := r.store.ReadAll(ctx, domain.EmployeesTable.Name)
	if err != nil {
		return nil, fmt.Errorf("read employees: %w", err)
	}
	employees := make([]*domain.Employee, 0, len(rows))
	for _, row := range rows {
		employees = append(employees, domain.EmployeeFromRow(row))
	}
	return employees, nil
}

func (r *employeeRepository) GetByCode(ctx context.Context, code string) (*domain.Employee, error) {
	employees, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	for _, e := range employees {
		if strings.TrimSpace(e.Code) == code {
			return e, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	return r.store.Append(ctx, domain.EmployeesTable.Name, employee.Row())
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, code, password string) error {
	return r.store.UpdateCell(ctx, domain.EmployeesTable.Name,
		domain.ColumnCode, code, domain.ColumnPassword, password)
}
