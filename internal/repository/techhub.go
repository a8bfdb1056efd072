package repository

import (
	"context"
	"errors"

	"even/internal/cache"
	"even/internal/models"

	"gorm.io/gorm"
)

// TechHubRepository defines persistence operations for tech hubs.
type TechHubRepository interface {
	List(ctx context.Context) ([]models.TechHub, error)
	GetByID(ctx context.Context, id uint) (*models.TechHub, error)
	GetBySlug(ctx context.Context, slug string) (*models.TechHub, error)
	Create(ctx context.Context, hub *models.TechHub) error
	Search(ctx context.Context, query string, limit int) ([]models.TechHub, error)
}

type techHubRepository struct {
	db *gorm.DB
}

// NewTechHubRepository returns a new TechHubRepository implementation.
func NewTechHubRepository(db *gorm.DB) TechHubRepository {
	return &techHubRepository{db: db}
}

func (r *techHubRepository) List(ctx context.Context) ([]models.TechHub, error) {
	var hubs []models.TechHub
	err := cache.Aside(ctx, cache.HubsListKey, &hubs, cache.HubsTTL, func() error {
		return readDB(r.db).WithContext(ctx).Order("name ASC").Find(&hubs).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return hubs, nil
}

func (r *techHubRepository) GetByID(ctx context.Context, id uint) (*models.TechHub, error) {
	var hub models.TechHub
	if err := readDB(r.db).WithContext(ctx).First(&hub, id).Error; err != nil {
		return nil, wrapStoreError(err, "Tech hub", id)
	}
	return &hub, nil
}

func (r *techHubRepository) GetBySlug(ctx context.Context, slug string) (*models.TechHub, error) {
	var hub models.TechHub
	if err := readDB(r.db).WithContext(ctx).Where("slug = ?", slug).First(&hub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tech hub", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return &hub, nil
}

func (r *techHubRepository) Create(ctx context.Context, hub *models.TechHub) error {
	if err := r.db.WithContext(ctx).Create(hub).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Tech hub already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateHubs(ctx)
	return nil
}

func (r *techHubRepository) Search(ctx context.Context, query string, limit int) ([]models.TechHub, error) {
	var hubs []models.TechHub
	err := readDB(r.db).WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(query)).
		Order("subscriber_count DESC, id ASC").
		Limit(limit).
		Find(&hubs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return hubs, nil
}
