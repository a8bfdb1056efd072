package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"even/internal/models"
	"even/internal/repository"
	"even/internal/validation"
)

const (
	maxTitleLen      = 300
	maxSummaryRunes  = 150
	wordsPerMinute   = 200
	defaultPostLimit = 10
	maxSlugAttempts  = 100
)

var htmlTags = regexp.MustCompile(`<[^>]*>`)

type PostService struct {
	postRepo repository.PostRepository
	hubRepo  repository.TechHubRepository
	now      func() time.Time
}

type CreatePostInput struct {
	Title      string
	Content    string
	Summary    string
	CoverImage string
	TechHubID  uint
	Tags       []string
	Status     models.PostStatus
}

// UpdatePostInput carries the fields to replace. Empty strings leave a
// field unchanged; a nil Tags slice leaves the tag set unchanged.
type UpdatePostInput struct {
	PostID     uint
	Title      string
	Content    string
	Summary    string
	CoverImage string
	Status     models.PostStatus
	Tags       []string
}

type ListPostsInput struct {
	Hub      string
	AuthorID uint
	Tag      string
	Page     int
	Limit    int
}

// PostPage is one page of the published feed.
type PostPage struct {
	Posts      []*models.Post    `json:"posts"`
	Pagination models.Pagination `json:"pagination"`
}

func NewPostService(
	postRepo repository.PostRepository,
	hubRepo repository.TechHubRepository,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		hubRepo:  hubRepo,
		now:      time.Now,
	}
}

func (s *PostService) CreatePost(ctx context.Context, actor Actor, in CreatePostInput) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || strings.TrimSpace(in.Content) == "" || in.TechHubID == 0 {
		return nil, models.NewValidationError("Title, Content, and Tech Hub are required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}

	status := in.Status
	if status == "" {
		status = models.PostStatusPublished
	}
	if !status.Valid() {
		return nil, models.NewValidationError("Invalid status. Must be 'draft' or 'published'")
	}

	if _, err := s.hubRepo.GetByID(ctx, in.TechHubID); err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewNotFoundError("Selected Tech Hub", nil)
		}
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, title)
	if err != nil {
		return nil, err
	}

	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		summary = summarize(in.Content)
	}

	post := &models.Post{
		Title:      title,
		Slug:       slug,
		Content:    in.Content,
		Summary:    summary,
		CoverImage: strings.TrimSpace(in.CoverImage),
		AuthorID:   actor.ID,
		TechHubID:  in.TechHubID,
		Status:     status,
		ReadTime:   readTime(in.Content),
	}
	if err := s.postRepo.Create(ctx, post, NormalizeTags(in.Tags)); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// uniqueSlug derives a slug from title. A taken slug gets a millisecond
// timestamp suffix, and a numeric counter after that if still taken.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := validation.Slugify(title)
	if base == "" {
		base = "post"
	}

	taken, err := s.postRepo.SlugExists(ctx, base)
	if err != nil || !taken {
		return base, err
	}

	stamped := fmt.Sprintf("%s-%d", base, s.now().UnixMilli())
	candidate := stamped
	for i := 2; i < maxSlugAttempts; i++ {
		taken, err := s.postRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", stamped, i)
	}
	return "", models.NewConflictError("Could not allocate a unique slug")
}

func (s *PostService) UpdatePost(ctx context.Context, actor Actor, in UpdatePostInput) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, models.NewForbiddenError("You are not authorized to update this post")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if utf8.RuneCountInString(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = title
	}
	if strings.TrimSpace(in.Content) != "" {
		post.Content = in.Content
		post.ReadTime = readTime(in.Content)
	}
	if summary := strings.TrimSpace(in.Summary); summary != "" {
		post.Summary = summary
	}
	if cover := strings.TrimSpace(in.CoverImage); cover != "" {
		post.CoverImage = cover
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, models.NewValidationError("Invalid status. Must be 'draft' or 'published'")
		}
		post.Status = in.Status
	}

	var tags []string
	if in.Tags != nil {
		tags = NormalizeTags(in.Tags)
	}
	if err := s.postRepo.Update(ctx, post, tags); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, actor Actor, postID uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID {
		return models.NewForbiddenError("You are not authorized to delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

// GetPostBySlug returns a post. Drafts are visible only to their author;
// any other viewer, anonymous included, gets NotFound.
func (s *PostService) GetPostBySlug(ctx context.Context, viewer Actor, slug string) (*models.Post, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPublished && post.AuthorID != viewer.ID {
		return nil, models.NewNotFoundError("Post", nil)
	}
	return post, nil
}

// ListPosts returns published posts, newest first. An unknown hub slug
// yields an empty page rather than an error.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	page, limit := normalizePage(in.Page, in.Limit, defaultPostLimit)
	filter := repository.PostFilter{
		AuthorID: in.AuthorID,
		Tag:      strings.ToLower(strings.TrimSpace(in.Tag)),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	if hub := strings.TrimSpace(in.Hub); hub != "" {
		techHub, err := s.hubRepo.GetBySlug(ctx, hub)
		if models.IsNotFound(err) {
			return &PostPage{Posts: []*models.Post{}, Pagination: models.NewPagination(0, page, limit)}, nil
		}
		if err != nil {
			return nil, err
		}
		filter.HubID = techHub.ID
	}

	posts, total, err := s.postRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Pagination: models.NewPagination(total, page, limit)}, nil
}

// NormalizeTags trims and lowercases tags, dropping blanks and duplicates
// while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func summarize(content string) string {
	runes := []rune(content)
	if len(runes) > maxSummaryRunes {
		runes = runes[:maxSummaryRunes]
	}
	return string(runes) + "..."
}

// readTime estimates minutes to read HTML content, never less than one.
func readTime(content string) int {
	words := len(strings.Fields(htmlTags.ReplaceAllString(content, " ")))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
