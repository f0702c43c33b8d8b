package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/locus-core/internal/api/handlers"
	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		role           domain.Role
		request        handlers.CreateEmployeeRequest
		expectedStatus int
	}{
		{
			name:           "hr manager creates employee",
			role:           domain.RoleHRManager,
			request:        handlers.CreateEmployeeRequest{Name: "Yara", Branch: "Mall", Role: "Sales"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "sales is forbidden",
			role:           domain.RoleSales,
			request:        handlers.CreateEmployeeRequest{Name: "Yara", Branch: "Mall", Role: "Sales"},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "owner role rejected",
			role:           domain.RoleAdmin,
			request:        handlers.CreateEmployeeRequest{Name: "Yara", Role: "Owner"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testutil.NewTestServer(t)
			_, token := testutil.NewEmployeeBuilder().WithCode("emp001").WithRole(tt.role).BuildAndLogin(t, ts)

			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/employees"), token, tt.request)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var created handlers.CreateEmployeeResponse
			testutil.AssertJSONResponse(t, resp, &created)
			assert.Equal(t, "emp002", created.Code)
			assert.Equal(t, "000000", created.Password)

			// New employees start inactive and cannot log in yet.
			login := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", handlers.LoginRequest{
				Code:     created.Code,
				Password: created.Password,
			})
			require.Equal(t, http.StatusUnauthorized, login.StatusCode)
		})
	}
}
