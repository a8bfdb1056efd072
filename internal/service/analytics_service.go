package service

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"even/internal/models"
	"even/internal/observability"
	"even/internal/repository"
)

const trendingLimit = 5

// ViewedPostsCookie holds the ids of posts the browser already counted.
const ViewedPostsCookie = "viewed_posts"

type AnalyticsService struct {
	postRepo  repository.PostRepository
	clientURL string
}

// ViewResult reports whether a view was counted. TotalViews is only set
// when it was.
type ViewResult struct {
	Viewed     bool `json:"viewed"`
	TotalViews int  `json:"totalViews,omitempty"`
}

type ShareLinks struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
	Facebook string `json:"facebook"`
	Copy     string `json:"copy"`
}

func NewAnalyticsService(postRepo repository.PostRepository, clientURL string) *AnalyticsService {
	return &AnalyticsService{
		postRepo:  postRepo,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// TrackView counts one view per post per cookie lifetime. It returns the
// new cookie value, or "" when the cookie should be left alone.
func (s *AnalyticsService) TrackView(ctx context.Context, postID uint, cookie string) (*ViewResult, string, error) {
	viewed := ParseViewedPosts(cookie)
	id := strconv.FormatUint(uint64(postID), 10)
	if slices.Contains(viewed, id) {
		observability.RecordView(false)
		return &ViewResult{Viewed: false}, "", nil
	}

	total, err := s.postRepo.IncrementViews(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	observability.RecordView(true)

	encoded, err := json.Marshal(append(viewed, id))
	if err != nil {
		return nil, "", models.NewInternalError(err)
	}
	return &ViewResult{Viewed: true, TotalViews: total}, string(encoded), nil
}

// ParseViewedPosts decodes the viewed_posts cookie. Anything that is not a
// JSON string array reads as empty.
func ParseViewedPosts(cookie string) []string {
	if cookie == "" {
		return []string{}
	}
	var ids []string
	if err := json.Unmarshal([]byte(cookie), &ids); err != nil {
		return []string{}
	}
	return ids
}

func (s *AnalyticsService) Trending(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.Trending(ctx, trendingLimit)
}

// Share counts a share and builds the social links for the post.
func (s *AnalyticsService) Share(ctx context.Context, postID uint) (*ShareLinks, error) {
	post, err := s.postRepo.IncrementShares(ctx, postID)
	if err != nil {
		return nil, err
	}

	postURL := s.clientURL + "/posts/" + post.Slug
	message := "Check out this article on EVEN: " + post.Title
	return &ShareLinks{
		Twitter:  "https://twitter.com/intent/tweet?url=" + encodeURIComponent(postURL) + "&text=" + encodeURIComponent(message),
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + encodeURIComponent(postURL),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + encodeURIComponent(postURL),
		Copy:     postURL,
	}, nil
}

var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s the way browsers do: spaces become %20 and
// the marks !'()* stay literal.
func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
