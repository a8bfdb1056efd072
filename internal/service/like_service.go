package service

import (
	"context"
	"fmt"

	"even/internal/models"
	"even/internal/observability"
	"even/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type LikeService struct {
	likeRepo repository.LikeRepository
}

// ToggleLikeResult is the post's reaction state after a toggle.
// UserInteraction is nil once the reaction has been removed.
type ToggleLikeResult struct {
	LikesCount      int                  `json:"likesCount"`
	DislikesCount   int                  `json:"dislikesCount"`
	UserInteraction *models.LikeType     `json:"userInteraction"`
	Outcome         models.ToggleOutcome `json:"-"`
	requested       models.LikeType
}

// Message describes the transition, e.g. "Switched to dislike".
func (r *ToggleLikeResult) Message() string {
	switch r.Outcome {
	case models.ToggleRemoved:
		return fmt.Sprintf("Removed %s", r.requested)
	case models.ToggleSwitched:
		return fmt.Sprintf("Switched to %s", r.requested)
	default:
		return fmt.Sprintf("Added %s", r.requested)
	}
}

type LikeStatus struct {
	HasLiked    bool `json:"hasLiked"`
	HasDisliked bool `json:"hasDisliked"`
}

func NewLikeService(likeRepo repository.LikeRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo}
}

func (s *LikeService) ToggleLike(ctx context.Context, actor Actor, postID uint, likeType models.LikeType) (result *ToggleLikeResult, err error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !likeType.Valid() {
		return nil, models.NewValidationError("Invalid like type. Must be 'like' or 'dislike'")
	}

	ctx, span := observability.StartSpan(ctx, "likes", "toggle",
		attribute.Int64("post.id", int64(postID)),
		attribute.String("like.type", string(likeType)),
	)
	defer func() { span.End(err) }()
	defer observability.TrackQuery("toggle", "likes")()

	outcome, post, err := s.likeRepo.Toggle(ctx, actor.ID, postID, likeType)
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("like", string(outcome))

	result = &ToggleLikeResult{
		LikesCount:    post.LikesCount,
		DislikesCount: post.DislikesCount,
		Outcome:       outcome,
		requested:     likeType,
	}
	if outcome.Active() {
		t := likeType
		result.UserInteraction = &t
	}
	return result, nil
}

func (s *LikeService) GetLikeStatus(ctx context.Context, actor Actor, postID uint) (*LikeStatus, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	current, err := s.likeRepo.Status(ctx, actor.ID, postID)
	if err != nil {
		return nil, err
	}
	status := &LikeStatus{}
	if current != nil {
		status.HasLiked = *current == models.LikeTypeLike
		status.HasDisliked = *current == models.LikeTypeDislike
	}
	return status, nil
}
