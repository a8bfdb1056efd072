package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"even/internal/models"
	"even/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateAccountInput holds profile fields; blank fields are left unchanged.
type UpdateAccountInput struct {
	FullName string
	Bio      string
	Avatar   string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetMe(ctx context.Context, actor Actor) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, actor.ID)
}

// GetProfile looks up a public profile by username.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", nil)
	}
	return user, nil
}

func (s *UserService) UpdateAccount(ctx context.Context, actor Actor, in UpdateAccountInput) (*models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.FullName); name != "" {
		updates["full_name"] = name
	}
	if bio := strings.TrimSpace(in.Bio); bio != "" {
		if utf8.RuneCountInString(bio) > models.MaxBioLength {
			return nil, models.NewValidationError("Bio too long (max 250 characters)")
		}
		updates["bio"] = bio
	}
	if avatar := strings.TrimSpace(in.Avatar); avatar != "" {
		updates["avatar"] = avatar
	}
	if len(updates) == 0 {
		return nil, models.NewValidationError("At least one field (fullName, bio, or avatar) is required")
	}

	return s.userRepo.UpdateProfile(ctx, actor.ID, updates)
}
