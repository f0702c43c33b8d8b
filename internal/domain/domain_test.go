package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/locus-core/internal/domain"
)

func TestRoleDashboard(t *testing.T) {
	tests := []struct {
		role domain.Role
		want string
	}{
		{domain.RoleAdmin, "Admin_Dashboard"},
		{domain.RoleHRManager, "HR_Dashboard"},
		{domain.RoleSalesFollowUp, "SalesFollowUp_Dashboard"},
		{domain.RoleEmployee, "Dashboard"},
		{domain.Role("Janitor"), "Dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Dashboard())
		})
	}
}

func TestRoleCanManageEmployees(t *testing.T) {
	assert.True(t, domain.RoleAdmin.CanManageEmployees())
	assert.True(t, domain.RoleHRManager.CanManageEmployees())
	assert.False(t, domain.RoleOwner.CanManageEmployees())
	assert.False(t, domain.RoleSales.CanManageEmployees())
}

func TestTableByName(t *testing.T) {
	table, ok := domain.TableByName("income")
	require.True(t, ok)
	assert.Equal(t, "Entry_ID", table.KeyColumn())
	assert.True(t, table.Has("Amount"))
	assert.False(t, table.Has("Lead_ID"))

	_, ok = domain.TableByName("Payroll")
	assert.False(t, ok)

	assert.Equal(t, "", domain.Table{Name: "Empty"}.KeyColumn())
}
