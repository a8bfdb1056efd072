package repository

import (
	"context"
	"errors"

	"even/internal/cache"
	"even/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error)
	SetRefreshToken(ctx context.Context, id uint, token string) error
	GetRefreshToken(ctx context.Context, id uint) (string, error)
	Search(ctx context.Context, query string, limit int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID is cached. Cached copies never carry the password hash or refresh
// token, so credential checks go through GetByEmail/GetByUsername.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user matches.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// GetByUsername returns nil, nil when no user matches.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapStoreError(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id uint, token string) error {
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumn("refresh_token", token).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetRefreshToken(ctx context.Context, id uint) (string, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("id", "refresh_token").First(&user, id).Error; err != nil {
		return "", wrapStoreError(err, "User", id)
	}
	return user.RefreshToken, nil
}

// Search matches full name or username, case-insensitively.
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	var users []models.User
	pattern := containsPattern(query)
	err := readDB(r.db).WithContext(ctx).
		Where(`LOWER(full_name) LIKE ? ESCAPE '\' OR LOWER(username) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("followers_count DESC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
