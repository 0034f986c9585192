package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/amine/notehub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	return resp
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestSignupEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{
			name: "valid signup",
			body: map[string]string{
				"firstName": "Leila",
				"lastName":  "Haddad",
				"email":     "leila@example.com",
				"password":  "secret123",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "short password",
			body: map[string]string{
				"firstName": "Leila",
				"lastName":  "Haddad",
				"email":     "short@example.com",
				"password":  "abc",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			body: map[string]string{
				"firstName": "Leila",
				"lastName":  "Haddad",
				"email":     "not-an-email",
				"password":  "secret123",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing first name",
			body: map[string]string{
				"lastName": "Haddad",
				"email":    "noname@example.com",
				"password": "secret123",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.AuthURL("/signup"), tt.body)
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.wantStatus)

			if tt.wantStatus == http.StatusCreated {
				var body struct {
					Message string `json:"message"`
					User    struct {
						ID           string `json:"id"`
						Email        string `json:"email"`
						PasswordHash string `json:"passwordHash"`
					} `json:"user"`
				}
				testutil.AssertJSONResponse(t, resp, &body)

				assert.Equal(t, tt.body["email"], body.User.Email)
				assert.NotEmpty(t, body.User.ID)
				assert.Empty(t, body.User.PasswordHash, "password hash must never be serialized")
			}
		})
	}
}

func TestSignupEndpoint_DuplicateEmail(t *testing.T) {
	ts := testutil.NewTestServer(t)

	body := map[string]string{
		"firstName": "Samir",
		"lastName":  "Oulad",
		"email":     "samir@example.com",
		"password":  "secret123",
	}

	resp := postJSON(t, ts.AuthURL("/signup"), body)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	resp = postJSON(t, ts.AuthURL("/signup"), body)
	defer resp.Body.Close()
	testutil.AssertErrorEnvelope(t, resp, http.StatusConflict, "email already")
}

func TestLoginEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().
		WithEmail("karim@example.com").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{name: "valid credentials", email: user.Email, password: "correctpassword", wantStatus: http.StatusOK},
		{name: "wrong password", email: user.Email, password: "wrongpassword", wantStatus: http.StatusUnauthorized},
		{name: "unknown email", email: "ghost@example.com", password: "whatever1", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.AuthURL("/login"), map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			defer resp.Body.Close()

			testutil.AssertStatusCode(t, resp, tt.wantStatus)

			if tt.wantStatus == http.StatusOK {
				var auth testutil.AuthResponse
				testutil.AssertJSONResponse(t, resp, &auth)
				assert.NotEmpty(t, auth.AccessToken)
				assert.NotEmpty(t, auth.RefreshToken)
				assert.Equal(t, user.Email, auth.User.Email)
			}
		})
	}
}

func TestRefreshEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	// Log in directly so we hold both tokens.
	user, _ := testutil.NewUserBuilder().
		WithEmail("refresh@example.com").
		WithPassword("secret123").
		Build(t, ts.DB.DB)

	resp := postJSON(t, ts.AuthURL("/login"), map[string]string{
		"email":    user.Email,
		"password": "secret123",
	})
	var auth testutil.AuthResponse
	testutil.AssertJSONResponse(t, resp, &auth)
	resp.Body.Close()

	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.AuthURL("/refresh"), nil, auth.RefreshToken)
		resp := doRequest(t, req)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var rotated testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, &rotated)
		assert.NotEmpty(t, rotated.AccessToken)
		assert.NotEmpty(t, rotated.RefreshToken)
		assert.NotEqual(t, auth.RefreshToken, rotated.RefreshToken)

		// First token is spent
		req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.AuthURL("/refresh"), nil, auth.RefreshToken)
		resp2 := doRequest(t, req)
		defer resp2.Body.Close()
		testutil.AssertStatusCode(t, resp2, http.StatusForbidden)
	})

	t.Run("access token is rejected on the refresh route", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.AuthURL("/refresh"), nil, auth.AccessToken)
		resp := doRequest(t, req)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("missing token", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.AuthURL("/refresh"), nil, "")
		resp := doRequest(t, req)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestProfileEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().
		WithEmail("profile@example.com").
		BuildAndAuthenticate(t, ts)

	t.Run("authenticated", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.AuthURL("/profile"), nil, token)
		resp := doRequest(t, req)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var got struct {
			Email string `json:"email"`
		}
		testutil.AssertJSONResponse(t, resp, &got)
		assert.Equal(t, user.Email, got.Email)
	})

	t.Run("no token", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.AuthURL("/profile"), nil, "")
		resp := doRequest(t, req)
		defer resp.Body.Close()
		testutil.AssertErrorEnvelope(t, resp, http.StatusUnauthorized, "authorization header required")
	})

	t.Run("garbage token", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.AuthURL("/profile"), nil, "not.a.jwt")
		resp := doRequest(t, req)
		defer resp.Body.Close()
		testutil.AssertErrorEnvelope(t, resp, http.StatusUnauthorized, "invalid token")
	})
}

// Middleware rejections carry the same error body as handler failures, so
// clients can always parse the documented envelope.
func TestAuthRejectionsUseErrorEnvelope(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		name    string
		method  string
		url     string
		header  string
		message string
	}{
		{name: "missing header on a protected route", method: http.MethodGet, url: ts.APIURL("/notes"), header: "", message: "authorization header required"},
		{name: "malformed header", method: http.MethodGet, url: ts.APIURL("/notes"), header: "Token abc", message: "invalid authorization header"},
		{name: "invalid access token", method: http.MethodGet, url: ts.AuthURL("/profile"), header: "Bearer not.a.valid.token", message: "invalid token"},
		{name: "invalid refresh token", method: http.MethodPost, url: ts.AuthURL("/refresh"), header: "Bearer not.a.valid.token", message: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, tt.url, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp := doRequest(t, req)
			defer resp.Body.Close()

			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			testutil.AssertErrorEnvelope(t, resp, http.StatusUnauthorized, tt.message)
		})
	}
}

func TestLogoutEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, _ := testutil.NewUserBuilder().
		WithEmail("logout@example.com").
		WithPassword("secret123").
		Build(t, ts.DB.DB)

	resp := postJSON(t, ts.AuthURL("/login"), map[string]string{
		"email":    user.Email,
		"password": "secret123",
	})
	var auth testutil.AuthResponse
	testutil.AssertJSONResponse(t, resp, &auth)
	resp.Body.Close()

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.AuthURL("/logout"), nil, auth.AccessToken)
	logoutResp := doRequest(t, req)
	logoutResp.Body.Close()
	testutil.AssertStatusCode(t, logoutResp, http.StatusOK)

	// The outstanding refresh token is now useless
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.AuthURL("/refresh"), nil, auth.RefreshToken)
	refreshResp := doRequest(t, req)
	defer refreshResp.Body.Close()
	testutil.AssertStatusCode(t, refreshResp, http.StatusForbidden)
}
