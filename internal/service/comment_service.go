package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"even/internal/models"
	"even/internal/observability"
	"even/internal/repository"
)

const (
	maxCommentLen       = 10000
	defaultCommentLimit = 10
	maxPageLimit        = 100
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	PostID          uint
	Content         string
	ParentCommentID *uint
}

type UpdateCommentInput struct {
	CommentID uint
	Content   string
}

// CommentPage is one page of top-level comments.
type CommentPage struct {
	Comments   []*models.Comment `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}

type ClapState struct {
	IsClapped  bool `json:"isClapped"`
	ClapsCount int  `json:"clapsCount"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func validateCommentContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return content, nil
}

// AddComment creates a top-level comment or a reply. Replies to replies are
// attached to the thread's top-level comment, so threads stay one level deep.
func (s *CommentService) AddComment(ctx context.Context, actor Actor, in CreateCommentInput) (*models.Comment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	content, err := validateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  content,
		PostID:   in.PostID,
		AuthorID: actor.ID,
	}

	// A zero parent id means a top-level comment.
	if in.ParentCommentID != nil && *in.ParentCommentID != 0 {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if err != nil && !models.IsNotFound(err) {
			return nil, err
		}
		if err != nil || parent.PostID != in.PostID {
			return nil, models.NewNotFoundError("Parent comment", nil)
		}
		parentID := parent.ID
		if parent.IsReply() {
			parentID = *parent.ParentCommentID
		}
		comment.ParentCommentID = &parentID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, page, limit int) (*CommentPage, error) {
	page, limit = normalizePage(page, limit, defaultCommentLimit)
	comments, total, err := s.commentRepo.ListTopLevel(ctx, postID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &CommentPage{
		Comments:   comments,
		Pagination: models.NewPagination(total, page, limit),
	}, nil
}

func (s *CommentService) ListReplies(ctx context.Context, commentID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListReplies(ctx, commentID)
}

func (s *CommentService) UpdateComment(ctx context.Context, actor Actor, in UpdateCommentInput) (*models.Comment, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	content, err := validateCommentContent(in.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor.ID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes only the comment itself; its replies and claps stay.
func (s *CommentService) DeleteComment(ctx context.Context, actor Actor, commentID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actor.ID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *CommentService) ToggleClap(ctx context.Context, actor Actor, commentID uint) (*ClapState, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	outcome, count, err := s.commentRepo.ToggleClap(ctx, actor.ID, commentID)
	if err != nil {
		return nil, err
	}
	observability.RecordToggle("clap", string(outcome))
	return &ClapState{IsClapped: outcome.Active(), ClapsCount: count}, nil
}

// normalizePage applies defaults and the page size cap.
func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
