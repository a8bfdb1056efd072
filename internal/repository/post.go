package repository

import (
	"context"
	"errors"

	"even/internal/cache"
	"even/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows the published feed. Zero values mean "no filter".
type PostFilter struct {
	HubID    uint
	AuthorID uint
	Tag      string
	Limit    int
	Offset   int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post, tags []string) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post, tags []string) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) (int, error)
	IncrementShares(ctx context.Context, id uint) (*models.Post, error)
	Trending(ctx context.Context, limit int) ([]*models.Post, error)
	SearchPublished(ctx context.Context, query string, limit int) ([]*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func withPostDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("TechHub").Preload("Tags")
}

// resolveTags upserts the named tags and returns them with their ids.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return []models.Tag{}, nil
	}
	rows := make([]models.Tag, 0, len(names))
	for _, n := range names {
		rows = append(rows, models.Tag{Name: n})
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return nil, err
	}
	var tags []models.Tag
	if err := tx.Where("name IN ?", names).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := resolveTags(tx, tags)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		if len(resolved) > 0 {
			if err := tx.Model(post).Association("Tags").Append(resolved); err != nil {
				return err
			}
		}
		post.Tags = resolved
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Post with this slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withPostDetails(readDB(r.db).WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, wrapStoreError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := withPostDetails(readDB(r.db).WithContext(ctx)).Where("slug = ?", slug).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", nil)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// SlugExists also sees soft-deleted posts, since their slugs still hold the unique index.
func (r *postRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, int64, error) {
	base := readDB(r.db).WithContext(ctx).Model(&models.Post{}).
		Where("posts.status = ?", models.PostStatusPublished)
	if filter.HubID != 0 {
		base = base.Where("posts.tech_hub_id = ?", filter.HubID)
	}
	if filter.AuthorID != 0 {
		base = base.Where("posts.author_id = ?", filter.AuthorID)
	}
	if filter.Tag != "" {
		base = base.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id AND tags.name = ?", filter.Tag)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	posts := []*models.Post{}
	if total == 0 {
		return posts, 0, nil
	}
	err := withPostDetails(base).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

// Update saves scalar fields; a non-nil tags slice replaces the tag set.
func (r *postRepository) Update(ctx context.Context, post *models.Post, tags []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Select("title", "content", "summary", "cover_image", "tech_hub_id", "status", "read_time", "updated_at").
			Updates(post).Error; err != nil {
			return err
		}
		if tags == nil {
			return nil
		}
		resolved, err := resolveTags(tx, tags)
		if err != nil {
			return err
		}
		if err := tx.Model(post).Association("Tags").Replace(resolved); err != nil {
			return err
		}
		post.Tags = resolved
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.TrendingKey)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.TrendingKey)
	return nil
}

// IncrementViews bumps the view counter and returns the new total.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) (int, error) {
	var views int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return tx.Model(&models.Post{}).Where("id = ?", id).Pluck("views", &views).Error
	})
	if err != nil {
		return 0, wrapStoreError(err, "Post", id)
	}
	return views, nil
}

// IncrementShares bumps the share counter and returns the post's title and slug.
func (r *postRepository) IncrementShares(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", id).UpdateColumn("shares_count", gorm.Expr("shares_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return tx.Select("id", "title", "slug", "shares_count").First(&post, id).Error
	})
	if err != nil {
		return nil, wrapStoreError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Trending(ctx context.Context, limit int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := cache.Aside(ctx, cache.TrendingKey, &posts, cache.TrendingTTL, func() error {
		return withPostDetails(readDB(r.db).WithContext(ctx)).
			Where("status = ?", models.PostStatusPublished).
			Order("views DESC, id DESC").
			Limit(limit).
			Find(&posts).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) SearchPublished(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Where("status = ?", models.PostStatusPublished).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, containsPattern(query)).
		Order("views DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
