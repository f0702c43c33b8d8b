package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeBuilder creates test employees with a builder pattern
type EmployeeBuilder struct {
	code     string
	password string
	name     string
	branch   string
	role     domain.Role
	active   string
	hashed   bool
}

// NewEmployeeBuilder creates a new EmployeeBuilder with an active employee
func NewEmployeeBuilder() *EmployeeBuilder {
	return &EmployeeBuilder{
		code:     fmt.Sprintf("u%s", uuid.New().String()[:8]),
		password: "secret1",
		name:     "Test Employee",
		branch:   "Downtown",
		role:     domain.RoleEmployee,
		active:   "Yes",
	}
}

func (b *EmployeeBuilder) WithCode(code string) *EmployeeBuilder {
	b.code = code
	return b
}

func (b *EmployeeBuilder) WithPassword(password string) *EmployeeBuilder {
	b.password = password
	return b
}

func (b *EmployeeBuilder) WithName(name string) *EmployeeBuilder {
	b.name = name
	return b
}

func (b *EmployeeBuilder) WithBranch(branch string) *EmployeeBuilder {
	b.branch = branch
	return b
}

func (b *EmployeeBuilder) WithRole(role domain.Role) *EmployeeBuilder {
	b.role = role
	return b
}

// WithActive sets the raw IsActive cell, e.g. "No" or " YES ".
func (b *EmployeeBuilder) WithActive(active string) *EmployeeBuilder {
	b.active = active
	return b
}

// Hashed stores the password as a bcrypt hash instead of plain text.
func (b *EmployeeBuilder) Hashed() *EmployeeBuilder {
	b.hashed = true
	return b
}

// Build appends the employee to the store and returns it with the raw password
func (b *EmployeeBuilder) Build(t *testing.T, store repository.RecordStore) (*domain.Employee, string) {
	t.Helper()

	stored := b.password
	if b.hashed {
		hash, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("failed to hash password: %v", err)
		}
		stored = string(hash)
	}

	employee := &domain.Employee{
		Code:     b.code,
		Password: stored,
		Name:     b.name,
		Branch:   b.branch,
		Role:     b.role.String(),
		IsActive: b.active,
	}

	if err := store.Append(context.Background(), domain.EmployeesTable.Name, employee.Row()); err != nil {
		t.Fatalf("failed to create employee: %v", err)
	}

	return employee, b.password
}

// LoginResponse matches the API login response
type LoginResponse struct {
	Token string         `json:"token"`
	User  domain.Session `json:"user"`
}

// BuildAndLogin creates the employee and logs in through the API, returning
// the session token.
func (b *EmployeeBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.Employee, string) {
	t.Helper()

	employee, password := b.Build(t, ts.Store)

	body, _ := json.Marshal(map[string]string{
		"code":     employee.Code,
		"password": password,
	})

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var login LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return employee, login.Token
}
