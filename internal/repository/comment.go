package repository

import (
	"context"
	"errors"

	"even/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, int64, error)
	ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	ToggleClap(ctx context.Context, userID, commentID uint) (models.ToggleOutcome, int, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment and, for replies, bumps the parent's
// replies_count in the same transaction.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author").Create(comment).Error; err != nil {
			return err
		}
		if comment.ParentCommentID == nil {
			return nil
		}
		return applyCounters(tx, counterDelta{table: "comments", column: "replies_count", id: *comment.ParentCommentID, delta: 1})
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error; err != nil {
		return wrapStoreError(err, "Comment", comment.ID)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, wrapStoreError(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, int64, error) {
	base := readDB(r.db).WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND parent_comment_id IS NULL", postID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	comments := []*models.Comment{}
	err := base.Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := readDB(r.db).WithContext(ctx).
		Preload("Author").
		Where("parent_comment_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Model(comment).Select("content", "updated_at").Updates(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete soft-deletes one comment. Replies, claps and the parent's
// replies_count are left untouched.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ToggleClap flips the actor's clap on a comment and returns the resulting
// claps_count.
func (r *commentRepository) ToggleClap(ctx context.Context, userID, commentID uint) (models.ToggleOutcome, int, error) {
	var outcome models.ToggleOutcome
	var comment models.Comment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Select("id").First(&comment, commentID).Error; err != nil {
			return err
		}

		var clap models.CommentClap
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Take(&clap).Error
		delta := 1
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.CommentClap{CommentID: commentID, UserID: userID}).Error; err != nil {
				return err
			}
			outcome = models.ToggleAdded
		case err != nil:
			return err
		default:
			if err := tx.Delete(&clap).Error; err != nil {
				return err
			}
			outcome = models.ToggleRemoved
			delta = -1
		}

		if err := applyCounters(tx, counterDelta{table: "comments", column: "claps_count", id: commentID, delta: delta}); err != nil {
			return err
		}
		return tx.Select("id", "claps_count").First(&comment, commentID).Error
	})
	if err != nil {
		return "", 0, toggleError(err, "Comment", commentID)
	}
	return outcome, comment.ClapsCount, nil
}
