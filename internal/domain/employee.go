package domain

import "strings"

// Employee columns in the Employees table
const (
	ColumnCode     = "Code"
	ColumnPassword = "Password"
	ColumnName     = "Name"
	ColumnBranch   = "Branch"
	ColumnRole     = "Role"
	ColumnIsActive = "IsActive"
)

// Employee is a credential record. Passwords are stored as entered unless
// hashing is enabled, in which case they hold a bcrypt hash.
type Employee struct {
	Code     string
	Password string
	Name     string
	Branch   string
	Role     string
	IsActive string
}

// EmployeeFromRow maps a raw Employees row onto an Employee.
func EmployeeFromRow(row Row) *Employee {
	return &Employee{
		Code:     row[ColumnCode],
		Password: row[ColumnPassword],
		Name:     row[ColumnName],
		Branch:   row[ColumnBranch],
		Role:     row[ColumnRole],
		IsActive: row[ColumnIsActive],
	}
}

// Row converts the employee back into an Employees row.
func (e *Employee) Row() Row {
	return Row{
		ColumnCode:     e.Code,
		ColumnPassword: e.Password,
		ColumnName:     e.Name,
		ColumnBranch:   e.Branch,
		ColumnRole:     e.Role,
		ColumnIsActive: e.IsActive,
	}
}

// Active reports whether the IsActive flag is "yes", ignoring case.
func (e *Employee) Active() bool {
	return strings.EqualFold(strings.TrimSpace(e.IsActive), "yes")
}

// Session builds the session payload for the employee.
func (e *Employee) Session() *Session {
	return &Session{
		Code:   e.Code,
		Name:   e.Name,
		Branch: e.Branch,
		Role:   e.Role,
	}
}
