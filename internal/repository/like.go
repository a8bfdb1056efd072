package repository

import (
	"context"
	"errors"

	"even/internal/models"

	"gorm.io/gorm"
)

// LikeRepository stores like/dislike reactions and keeps the post counters in step.
type LikeRepository interface {
	Toggle(ctx context.Context, userID, postID uint, likeType models.LikeType) (models.ToggleOutcome, *models.Post, error)
	Status(ctx context.Context, userID, postID uint) (*models.LikeType, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle applies one transition of the reaction state machine:
// absent -> added, same type -> removed, other type -> switched.
// The returned post carries only the refreshed counters.
func (r *likeRepository) Toggle(ctx context.Context, userID, postID uint, likeType models.LikeType) (models.ToggleOutcome, *models.Post, error) {
	var outcome models.ToggleOutcome
	var post models.Post

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Select("id").First(&post, postID).Error; err != nil {
			return err
		}

		var existing models.Like
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).Take(&existing).Error

		var deltas []counterDelta
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID, Type: likeType}).Error; err != nil {
				return err
			}
			outcome = models.ToggleAdded
			deltas = append(deltas, counterDelta{table: "posts", column: likeType.CounterColumn(), id: postID, delta: 1})
		case err != nil:
			return err
		case existing.Type == likeType:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			outcome = models.ToggleRemoved
			deltas = append(deltas, counterDelta{table: "posts", column: likeType.CounterColumn(), id: postID, delta: -1})
		default:
			previous := existing.Type
			if err := tx.Model(&existing).Update("type", likeType).Error; err != nil {
				return err
			}
			outcome = models.ToggleSwitched
			deltas = append(deltas,
				counterDelta{table: "posts", column: previous.CounterColumn(), id: postID, delta: -1},
				counterDelta{table: "posts", column: likeType.CounterColumn(), id: postID, delta: 1},
			)
		}

		if err := applyCounters(tx, deltas...); err != nil {
			return err
		}
		return tx.Select("id", "likes_count", "dislikes_count").First(&post, postID).Error
	})
	if err != nil {
		return "", nil, toggleError(err, "Post", postID)
	}
	return outcome, &post, nil
}

// Status returns the actor's current reaction, or nil when there is none.
func (r *likeRepository) Status(ctx context.Context, userID, postID uint) (*models.LikeType, error) {
	var like models.Like
	err := readDB(r.db).WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).Take(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &like.Type, nil
}
