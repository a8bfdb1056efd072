package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "even-api"
	tokenAudience = "even-client"
)

var errInvalidSubject = errors.New("invalid subject claim")

// TokenManager signs and verifies access and refresh tokens. Both are HS256
// JWTs with their own secret and lifetime.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// TokenPair is what login, register and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessClaims is the verified content of an access token.
type AccessClaims struct {
	UserID    uint
	JTI       string
	ExpiresAt time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// Issue creates a fresh access/refresh pair for userID.
func (m *TokenManager) Issue(userID uint) (*TokenPair, error) {
	access, err := m.sign(userID, m.accessSecret, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(userID, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (m *TokenManager) sign(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccess verifies an access token's signature, lifetime, issuer and
// audience.
func (m *TokenManager) ParseAccess(token string) (*AccessClaims, error) {
	claims, err := m.parse(token, m.accessSecret)
	if err != nil {
		return nil, err
	}
	userID, err := subjectID(claims)
	if err != nil {
		return nil, err
	}
	out := &AccessClaims{UserID: userID, JTI: claims.ID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// ParseRefresh verifies a refresh token and returns its user id.
func (m *TokenManager) ParseRefresh(token string) (uint, error) {
	claims, err := m.parse(token, m.refreshSecret)
	if err != nil {
		return 0, err
	}
	return subjectID(claims)
}

func (m *TokenManager) parse(token string, secret []byte) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func subjectID(claims *jwt.RegisteredClaims) (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || id == 0 {
		return 0, errInvalidSubject
	}
	return uint(id), nil
}
