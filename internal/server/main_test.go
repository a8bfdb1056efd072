package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"even/internal/cache"
	"even/internal/config"
	"even/internal/database"
	"even/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testServer struct {
	*Server
	app   *fiber.App
	store *testutil.StoreStub
	mr    *miniredis.Miniredis
}

// envelope mirrors both the success and the error response bodies.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Code       string          `json:"code"`
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                "test",
		AccessTokenSecret:  "test-access-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenSecret: "test-refresh-secret",
		RefreshTokenTTL:    24 * time.Hour,
		CORSOrigin:         "http://localhost:5173",
		ClientURL:          "http://localhost:5173",
	}
}

// newTestServer wires every route against an in-memory SQLite database,
// miniredis and an in-memory image store.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := cache.GetClient()
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(prev)
		_ = rdb.Close()
		_ = sqlDB.Close()
	})

	store := testutil.NewStoreStub()
	srv := newServer(testConfig(), db, rdb, store)
	return &testServer{Server: srv, app: srv.NewApp(), store: store, mr: mr}
}

func (ts *testServer) do(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

// call sends a JSON request, authenticated when token is non-empty.
func (ts *testServer) call(t *testing.T, method, path, token string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.do(t, req)
}

type session struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
}

func (ts *testServer) register(t *testing.T, username string) session {
	t.Helper()
	resp, env := ts.call(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"fullName": "User " + username,
		"username": username,
		"email":    username + "@example.com",
		"password": "Sup3r-Secret!!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	var data struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	decode(t, env, &data)
	return session{UserID: data.User.ID, AccessToken: data.AccessToken, RefreshToken: data.RefreshToken}
}

func decode(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest), string(env.Data))
}

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeJSON(resp *http.Response, dest any) error {
	return json.NewDecoder(resp.Body).Decode(dest)
}
