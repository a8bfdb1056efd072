package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"even/internal/models"
	"even/internal/repository"
	"even/internal/validation"
)

const maxHubNameLen = 80

type HubService struct {
	hubRepo repository.TechHubRepository
}

type CreateHubInput struct {
	Name        string
	Description string
	Image       string
}

func NewHubService(hubRepo repository.TechHubRepository) *HubService {
	return &HubService{hubRepo: hubRepo}
}

func (s *HubService) ListHubs(ctx context.Context) ([]models.TechHub, error) {
	return s.hubRepo.List(ctx)
}

func (s *HubService) GetHubBySlug(ctx context.Context, slug string) (*models.TechHub, error) {
	return s.hubRepo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

// CreateHub is open to any signed-in user. A clash on either the name or
// the derived slug is a Conflict.
func (s *HubService) CreateHub(ctx context.Context, actor Actor, in CreateHubInput) (*models.TechHub, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" || description == "" {
		return nil, models.NewValidationError("Name and description are required")
	}
	if utf8.RuneCountInString(name) > maxHubNameLen {
		return nil, models.NewValidationError("Name too long (max 80 characters)")
	}

	slug := validation.Slugify(name)
	if err := validation.ValidateHubSlug(slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.hubRepo.GetBySlug(ctx, slug)
	if err != nil && !models.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Tech Hub already exists")
	}

	hub := &models.TechHub{
		Name:        name,
		Slug:        slug,
		Description: description,
		Image:       strings.TrimSpace(in.Image),
	}
	if err := s.hubRepo.Create(ctx, hub); err != nil {
		return nil, err
	}
	return hub, nil
}
