package service

import (
	"context"

	"even/internal/models"
	"even/internal/observability"
	"even/internal/repository"
)

type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
}

type BookmarkState struct {
	IsBookmarked bool `json:"isBookmarked"`
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo}
}

func (s *BookmarkService) ToggleBookmark(ctx context.Context, actor Actor, postID uint) (*BookmarkState, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	outcome, err := s.bookmarkRepo.Toggle(ctx, actor.ID, postID)
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("bookmark", string(outcome))
	return &BookmarkState{IsBookmarked: outcome.Active()}, nil
}

func (s *BookmarkService) GetBookmarkStatus(ctx context.Context, actor Actor, postID uint) (*BookmarkState, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	exists, err := s.bookmarkRepo.Exists(ctx, actor.ID, postID)
	if err != nil {
		return nil, err
	}
	return &BookmarkState{IsBookmarked: exists}, nil
}

func (s *BookmarkService) ListBookmarks(ctx context.Context, actor Actor) ([]*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.bookmarkRepo.ListPosts(ctx, actor.ID)
}
