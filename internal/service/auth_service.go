package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"even/internal/cache"
	"even/internal/models"
	"even/internal/repository"
	"even/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *TokenManager
	hashCost int
}

type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// LoginInput identifies the account by email or username.
type LoginInput struct {
	Email    string
	Username string
	Password string
}

// AuthResult is returned by every call that signs a user in.
type AuthResult struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func NewAuthService(userRepo repository.UserRepository, tokens *TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
	}
}

// Tokens exposes the manager; the server's auth middleware verifies access
// tokens through it so both sides share the same secrets.
func (s *AuthService) Tokens() *TokenManager {
	return s.tokens
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	fullName := strings.TrimSpace(in.FullName)
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if fullName == "" || username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("User with email or username already exists")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("User with email or username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FullName: fullName,
		Username: username,
		Email:    email,
		Avatar:   models.DefaultAvatar,
		Role:     models.RoleReader,
		Password: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.signIn(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if (email == "" && username == "") || in.Password == "" {
		return nil, models.NewValidationError("Email or username and password are required")
	}

	var user *models.User
	var err error
	if email != "" {
		user, err = s.userRepo.GetByEmail(ctx, email)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.signIn(ctx, user)
}

// Refresh rotates both tokens. The presented refresh token must be the one
// last stored for the user, so a rotated-out token cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, models.NewUnauthorizedError("Refresh token is required")
	}
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid refresh token")
	}

	stored, err := s.userRepo.GetRefreshToken(ctx, userID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("Invalid refresh token")
		}
		return nil, err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return nil, models.NewUnauthorizedError("Refresh token is expired or used")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, user)
}

// Logout clears the stored refresh token and denylists the access token
// until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, actor Actor, access *AccessClaims) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := s.userRepo.SetRefreshToken(ctx, actor.ID, ""); err != nil {
		return err
	}
	if access == nil || access.JTI == "" {
		return nil
	}
	ttl := time.Until(access.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := cache.RevokeToken(ctx, access.JTI, ttl); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *AuthService) signIn(ctx context.Context, user *models.User) (*AuthResult, error) {
	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
