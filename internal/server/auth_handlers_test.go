package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_SetsSessionCookies(t *testing.T) {
	ts := newTestServer(t)

	resp, env := ts.call(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"fullName": "Ada Lovelace",
		"username": "Ada",
		"email":    "ADA@example.com",
		"password": "Sup3r-Secret!!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	assert.Equal(t, "User registered successfully", env.Message)
	assert.True(t, env.Success)

	var data struct {
		User struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
		} `json:"user"`
		AccessToken string `json:"accessToken"`
	}
	decode(t, env, &data)
	assert.Equal(t, "ada", data.User.Username)
	assert.Equal(t, "ada@example.com", data.User.Email)
	assert.Empty(t, data.User.Password)
	assert.NotEmpty(t, data.AccessToken)

	refresh := cookieNamed(resp, refreshTokenCookie)
	require.NotNil(t, refresh)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, "/api/v1/auth", refresh.Path)
	require.NotNil(t, cookieNamed(resp, accessTokenCookie))
}

func TestRegister_DuplicateIsConflict(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "ada")

	resp, env := ts.call(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"fullName": "Another Ada",
		"username": "ada",
		"email":    "other@example.com",
		"password": "Sup3r-Secret!!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "User with email or username already exists", env.Message)
}

func TestRegister_MalformedBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, env := ts.do(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "ada")

	tests := []struct {
		name   string
		body   fiber.Map
		status int
	}{
		{"by email", fiber.Map{"email": "ada@example.com", "password": "Sup3r-Secret!!"}, http.StatusOK},
		{"by username", fiber.Map{"username": "ADA", "password": "Sup3r-Secret!!"}, http.StatusOK},
		{"wrong password", fiber.Map{"email": "ada@example.com", "password": "nope-nope-nope"}, http.StatusUnauthorized},
		{"unknown user", fiber.Map{"email": "ghost@example.com", "password": "Sup3r-Secret!!"}, http.StatusUnauthorized},
		{"missing identity", fiber.Map{"password": "Sup3r-Secret!!"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := ts.call(t, http.MethodPost, "/api/v1/auth/login", "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, env.Message)
			if tt.status == http.StatusOK {
				assert.Equal(t, "User logged in successfully", env.Message)
			}
		})
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "ada")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: sess.RefreshToken})
	resp, env := ts.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, "Access token refreshed", env.Message)

	var data struct {
		RefreshToken string `json:"refreshToken"`
	}
	decode(t, env, &data)
	require.NotEmpty(t, data.RefreshToken)
	assert.NotEqual(t, sess.RefreshToken, data.RefreshToken)

	resp, env = ts.call(t, http.MethodPost, "/api/v1/auth/refresh", "", fiber.Map{"refreshToken": sess.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Refresh token is expired or used", env.Message)

	resp, _ = ts.call(t, http.MethodPost, "/api/v1/auth/refresh", "", fiber.Map{"refreshToken": data.RefreshToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRefresh_MissingToken(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.call(t, http.MethodPost, "/api/v1/auth/refresh", "", fiber.Map{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_RevokesAccessToken(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "ada")

	resp, env := ts.call(t, http.MethodPost, "/api/v1/auth/logout", sess.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, "User logged out", env.Message)

	cleared := cookieNamed(resp, refreshTokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	resp, env = ts.call(t, http.MethodGet, "/api/v1/users/me", sess.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token has been revoked", env.Message)
}
