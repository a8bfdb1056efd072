package service

import (
	"context"

	"even/internal/models"
	"even/internal/observability"
	"even/internal/repository"
)

type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
}

type HubSubscriptionState struct {
	Subscribed      bool `json:"subscribed"`
	SubscriberCount int  `json:"subscriberCount"`
}

type AuthorSubscriptionState struct {
	Subscribed     bool `json:"subscribed"`
	FollowersCount int  `json:"followersCount"`
}

type SubscriptionStatus struct {
	Subscribed bool `json:"subscribed"`
}

func NewSubscriptionService(subscriptionRepo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subscriptionRepo: subscriptionRepo}
}

func (s *SubscriptionService) ToggleHubSubscription(ctx context.Context, actor Actor, hubID uint) (*HubSubscriptionState, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	outcome, count, err := s.subscriptionRepo.Toggle(ctx, actor.ID, models.HubTarget(hubID))
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("hub_subscription", string(outcome))
	return &HubSubscriptionState{Subscribed: outcome.Active(), SubscriberCount: count}, nil
}

// ToggleAuthorSubscription follows or unfollows an author. Following
// yourself is rejected before the author is even looked up.
func (s *SubscriptionService) ToggleAuthorSubscription(ctx context.Context, actor Actor, authorID uint) (*AuthorSubscriptionState, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if authorID == actor.ID {
		return nil, models.NewValidationError(models.ErrSelfSubscription.Error())
	}
	outcome, count, err := s.subscriptionRepo.Toggle(ctx, actor.ID, models.AuthorTarget(authorID))
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("author_subscription", string(outcome))
	return &AuthorSubscriptionState{Subscribed: outcome.Active(), FollowersCount: count}, nil
}

func (s *SubscriptionService) GetStatus(ctx context.Context, actor Actor, target models.SubscriptionTarget) (*SubscriptionStatus, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	exists, err := s.subscriptionRepo.Exists(ctx, actor.ID, target)
	if err != nil {
		return nil, err
	}
	return &SubscriptionStatus{Subscribed: exists}, nil
}

func (s *SubscriptionService) MySubscribedHubs(ctx context.Context, actor Actor) ([]models.TechHub, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.subscriptionRepo.ListHubs(ctx, actor.ID)
}

func (s *SubscriptionService) MySubscribedAuthors(ctx context.Context, actor Actor) ([]models.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.subscriptionRepo.ListAuthors(ctx, actor.ID)
}
