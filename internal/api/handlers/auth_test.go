package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dom/locus-core/internal/api/handlers"
	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	employee, rawPassword := testutil.NewEmployeeBuilder().
		WithCode("emp001").
		WithPassword("correct-pw").
		WithName("Reem").
		WithRole(domain.RoleFinanceManager).
		Build(t, ts.Store)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "successful login",
			request: map[string]string{
				"code":     employee.Code,
				"password": rawPassword,
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var result testutil.LoginResponse
				testutil.AssertJSONResponse(t, resp, &result)
				assert.NotEmpty(t, result.Token)
				assert.Equal(t, domain.Session{Code: "emp001", Name: "Reem", Branch: "Downtown", Role: "Finance Manager"}, result.User)
			},
		},
		{
			name: "invalid password",
			request: map[string]string{
				"code":     employee.Code,
				"password": "wrong-pw",
			},
			expectedStatus: http.StatusUnauthorized,
			checkResponse: func(t *testing.T, resp *http.Response) {
				testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid credentials")
			},
		},
		{
			name: "unknown code",
			request: map[string]string{
				"code":     "emp404",
				"password": rawPassword,
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty request body",
			request:        map[string]string{},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.request)
			resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}
}

func TestAuthHandler_LoginMalformedBody(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)
	employee, token := testutil.NewEmployeeBuilder().WithRole(domain.RoleHRManager).BuildAndLogin(t, ts)

	tests := []struct {
		name           string
		token          string
		advance        time.Duration
		expectedStatus int
	}{
		{name: "valid session", token: token, expectedStatus: http.StatusOK},
		{name: "missing token", token: "", expectedStatus: http.StatusUnauthorized},
		{name: "unknown token", token: "made-up", expectedStatus: http.StatusUnauthorized},
		{name: "expired session", token: token, advance: time.Hour + time.Second, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.Clock.Advance(tt.advance)

			resp := testutil.DoJSON(t, http.MethodGet, ts.APIURL("/auth/me"), tt.token, nil)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var me handlers.MeResponse
				testutil.AssertJSONResponse(t, resp, &me)
				assert.Equal(t, employee.Code, me.User.Code)
				assert.Equal(t, "HR_Dashboard", me.Dashboard)
			}
		})
	}
}

func TestAuthHandler_MeIgnoresQueryToken(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewEmployeeBuilder().BuildAndLogin(t, ts)

	resp, err := http.Get(ts.APIURL("/auth/me?token=" + token))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_MalformedAuthorizationHeader(t *testing.T) {
	ts := testutil.NewTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/me"), nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Token abc")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Invalid authorization header")
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		request        handlers.ChangePasswordRequest
		expectedStatus int
	}{
		{
			name:           "successful change",
			request:        handlers.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret22"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing new password",
			request:        handlers.ChangePasswordRequest{OldPassword: "secret1"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "new password too short",
			request:        handlers.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "abc"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrong old password",
			request:        handlers.ChangePasswordRequest{OldPassword: "nope", NewPassword: "secret22"},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := testutil.NewTestServer(t)
			employee, token := testutil.NewEmployeeBuilder().WithPassword("secret1").BuildAndLogin(t, ts)

			resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/password"), token, tt.request)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus != http.StatusOK {
				return
			}

			var ack handlers.ChangePasswordResponse
			testutil.AssertJSONResponse(t, resp, &ack)
			assert.True(t, ack.Success)

			login := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/login"), "", handlers.LoginRequest{
				Code:     employee.Code,
				Password: tt.request.NewPassword,
			})
			assert.Equal(t, http.StatusOK, login.StatusCode)
		})
	}
}

func TestAuthHandler_ChangePasswordRequiresSession(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp := testutil.DoJSON(t, http.MethodPost, ts.APIURL("/auth/password"), "", handlers.ChangePasswordRequest{
		OldPassword: "secret1",
		NewPassword: "secret22",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
