package repository

import (
	"context"
	"errors"

	"even/internal/models"

	"gorm.io/gorm"
)

// BookmarkRepository stores saved posts. Bookmarks have no counter.
type BookmarkRepository interface {
	Toggle(ctx context.Context, userID, postID uint) (models.ToggleOutcome, error)
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	ListPosts(ctx context.Context, userID uint) ([]*models.Post, error)
}

type bookmarkRepository struct {
	db *gorm.DB
}

// NewBookmarkRepository creates a new BookmarkRepository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{db: db}
}

func (r *bookmarkRepository) Toggle(ctx context.Context, userID, postID uint) (models.ToggleOutcome, error) {
	var outcome models.ToggleOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		var existing models.Bookmark
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Bookmark{UserID: userID, PostID: postID}).Error; err != nil {
				return err
			}
			outcome = models.ToggleAdded
			return nil
		case err != nil:
			return err
		}

		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		outcome = models.ToggleRemoved
		return nil
	})
	if err != nil {
		return "", toggleError(err, "Post", postID)
	}
	return outcome, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ListPosts returns bookmarked posts, most recently saved first. Bookmarks
// of deleted posts are skipped.
func (r *bookmarkRepository) ListPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	var bookmarks []models.Bookmark
	err := readDB(r.db).WithContext(ctx).
		Preload("Post").
		Preload("Post.Author").
		Preload("Post.TechHub").
		Preload("Post.Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	posts := make([]*models.Post, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.Post != nil {
			posts = append(posts, b.Post)
		}
	}
	return posts, nil
}
