package repository

import (
	"context"
	"errors"

	"even/internal/cache"
	"even/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository stores follows of authors and hubs.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, subscriberID uint, target models.SubscriptionTarget) (models.ToggleOutcome, int, error)
	Exists(ctx context.Context, subscriberID uint, target models.SubscriptionTarget) (bool, error)
	ListHubs(ctx context.Context, subscriberID uint) ([]models.TechHub, error)
	ListAuthors(ctx context.Context, subscriberID uint) ([]models.User, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// targetCounters lists the counters a subscription to target moves.
// Author follows move two rows: the channel's followers and the
// subscriber's following.
func targetCounters(subscriberID uint, target models.SubscriptionTarget, delta int) []counterDelta {
	if target.Kind == models.SubscribeHub {
		return []counterDelta{{table: "tech_hubs", column: "subscriber_count", id: target.ID, delta: delta}}
	}
	return []counterDelta{
		{table: "users", column: "followers_count", id: target.ID, delta: delta},
		{table: "users", column: "following_count", id: subscriberID, delta: delta},
	}
}

// Toggle follows or unfollows target and returns its resulting counter:
// subscriber_count for hubs, followers_count for authors.
func (r *subscriptionRepository) Toggle(ctx context.Context, subscriberID uint, target models.SubscriptionTarget) (models.ToggleOutcome, int, error) {
	var outcome models.ToggleOutcome
	var count int

	resource := "User"
	if target.Kind == models.SubscribeHub {
		resource = "Tech hub"
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if target.Kind == models.SubscribeHub {
			err = lockForUpdate(tx).Select("id").First(&models.TechHub{}, target.ID).Error
		} else {
			err = lockForUpdate(tx).Select("id").First(&models.User{}, target.ID).Error
		}
		if err != nil {
			return err
		}

		var existing models.Subscription
		err = tx.Where("subscriber_id = ? AND "+target.Column()+" = ?", subscriberID, target.ID).Take(&existing).Error
		delta := 1
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(models.NewSubscription(subscriberID, target)).Error; err != nil {
				return err
			}
			outcome = models.ToggleAdded
		case err != nil:
			return err
		default:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			outcome = models.ToggleRemoved
			delta = -1
		}

		if err := applyCounters(tx, targetCounters(subscriberID, target, delta)...); err != nil {
			return err
		}

		if target.Kind == models.SubscribeHub {
			return tx.Model(&models.TechHub{}).Where("id = ?", target.ID).Pluck("subscriber_count", &count).Error
		}
		return tx.Model(&models.User{}).Where("id = ?", target.ID).Pluck("followers_count", &count).Error
	})
	if err != nil {
		return "", 0, toggleError(err, resource, target.ID)
	}

	if target.Kind == models.SubscribeHub {
		cache.InvalidateHubs(ctx)
	} else {
		cache.InvalidateUser(ctx, subscriberID, target.ID)
	}
	return outcome, count, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, subscriberID uint, target models.SubscriptionTarget) (bool, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND "+target.Column()+" = ?", subscriberID, target.ID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *subscriptionRepository) ListHubs(ctx context.Context, subscriberID uint) ([]models.TechHub, error) {
	hubs := []models.TechHub{}
	err := readDB(r.db).WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.tech_hub_id = tech_hubs.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Find(&hubs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return hubs, nil
}

func (r *subscriptionRepository) ListAuthors(ctx context.Context, subscriberID uint) ([]models.User, error) {
	users := []models.User{}
	err := readDB(r.db).WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.channel_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
