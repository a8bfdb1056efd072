package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"even/internal/cache"
	"even/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Sup3r-Secret!!"

// memUsers is a small in-memory user store built on userRepoStub.
type memUsers struct {
	mu      sync.Mutex
	byID    map[uint]*models.User
	refresh map[uint]string
	nextID  uint
}

func newMemUsers() (*memUsers, *userRepoStub) {
	m := &memUsers{byID: map[uint]*models.User{}, refresh: map[uint]string{}, nextID: 1}
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		u.ID = m.nextID
		m.nextID++
		m.byID[u.ID] = u
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if u, ok := m.byID[id]; ok {
			return u, nil
		}
		return nil, models.NewNotFoundError("User", id)
	}
	repo.getByEmailFn = func(_ context.Context, email string) (*models.User, error) {
		return m.find(func(u *models.User) bool { return u.Email == email }), nil
	}
	repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return m.find(func(u *models.User) bool { return u.Username == username }), nil
	}
	repo.setRefreshTokenFn = func(_ context.Context, id uint, token string) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.refresh[id] = token
		return nil
	}
	repo.getRefreshTokenFn = func(_ context.Context, id uint) (string, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.byID[id]; !ok {
			return "", models.NewNotFoundError("User", id)
		}
		return m.refresh[id], nil
	}
	return m, repo
}

func (m *memUsers) find(match func(*models.User) bool) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			return u
		}
	}
	return nil
}

func newTestAuth(t *testing.T) (*AuthService, *memUsers) {
	t.Helper()
	store, repo := newMemUsers()
	svc := NewAuthService(repo, newTestTokens())
	svc.hashCost = bcrypt.MinCost
	return svc, store
}

func registerAlice(t *testing.T, svc *AuthService) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Alice Doe",
		Username: "Alice",
		Email:    "Alice@Example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return res
}

func TestAuthService_Register(t *testing.T) {
	svc, store := newTestAuth(t)
	res := registerAlice(t, svc)

	assert.Equal(t, "alice", res.User.Username)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, models.RoleReader, res.User.Role)
	assert.Equal(t, models.DefaultAvatar, res.User.Avatar)
	assert.NotEqual(t, testPassword, res.User.Password)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, res.RefreshToken, store.refresh[res.User.ID])

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName: "Other", Username: "other", Email: "alice@example.com", Password: testPassword,
	})
	assertAppErrorCode(t, err, models.CodeConflict)

	_, err = svc.Register(context.Background(), RegisterInput{
		FullName: "Other", Username: "ALICE", Email: "other@example.com", Password: testPassword,
	})
	assertAppErrorCode(t, err, models.CodeConflict)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuth(t)
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing field", RegisterInput{Username: "bob", Email: "bob@example.com", Password: testPassword}},
		{"bad username", RegisterInput{FullName: "Bob", Username: "b!", Email: "bob@example.com", Password: testPassword}},
		{"bad email", RegisterInput{FullName: "Bob", Username: "bob", Email: "bob@", Password: testPassword}},
		{"weak password", RegisterInput{FullName: "Bob", Username: "bob", Email: "bob@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuth(t)
	registerAlice(t, svc)

	res, err := svc.Login(context.Background(), LoginInput{Email: "ALICE@example.com", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.User.Username)

	res, err = svc.Login(context.Background(), LoginInput{Username: "alice", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RefreshToken)

	_, err = svc.Login(context.Background(), LoginInput{Email: "alice@example.com", Password: "Wrong-Passw0rd!"})
	assertUnauthorizedError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: testPassword})
	assertUnauthorizedError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Password: testPassword})
	assertValidationError(t, err)
}

func TestAuthService_RefreshRotates(t *testing.T) {
	svc, store := newTestAuth(t)
	first := registerAlice(t, svc)

	// Tokens issued in the same second differ only by jti, so rotation is
	// still observable.
	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, second.RefreshToken, store.refresh[first.User.ID])

	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assertUnauthorizedError(t, err)

	_, err = svc.Refresh(context.Background(), second.AccessToken)
	assertUnauthorizedError(t, err)

	_, err = svc.Refresh(context.Background(), "")
	assertUnauthorizedError(t, err)
}

func TestAuthService_Logout(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})

	svc, store := newTestAuth(t)
	res := registerAlice(t, svc)
	claims, err := svc.Tokens().ParseAccess(res.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), Actor{ID: res.User.ID}, claims))
	assert.Empty(t, store.refresh[res.User.ID])
	assert.True(t, cache.IsRevoked(context.Background(), claims.JTI))
	assert.True(t, mr.TTL(cache.DenylistKey(claims.JTI)) > 14*time.Minute)

	_, err = svc.Refresh(context.Background(), res.RefreshToken)
	assertUnauthorizedError(t, err)

	err = svc.Logout(context.Background(), Actor{}, claims)
	assertUnauthorizedError(t, err)
}
