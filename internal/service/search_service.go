package service

import (
	"context"
	"strings"

	"even/internal/models"
	"even/internal/observability"
	"even/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const searchLimit = 3

type SearchService struct {
	userRepo repository.UserRepository
	hubRepo  repository.TechHubRepository
	postRepo repository.PostRepository
}

type SearchResults struct {
	Users []models.User    `json:"users"`
	Hubs  []models.TechHub `json:"hubs"`
	Posts []*models.Post   `json:"posts"`
}

func NewSearchService(
	userRepo repository.UserRepository,
	hubRepo repository.TechHubRepository,
	postRepo repository.PostRepository,
) *SearchService {
	return &SearchService{
		userRepo: userRepo,
		hubRepo:  hubRepo,
		postRepo: postRepo,
	}
}

// GlobalSearch runs the user, hub and post lookups concurrently. A blank
// query returns nil without touching the store.
func (s *SearchService) GlobalSearch(ctx context.Context, query string) (_ *SearchResults, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	ctx, span := observability.StartSpan(ctx, "search", "global",
		attribute.Int("query.length", len(query)),
	)
	defer func() { span.End(err) }()

	res := &SearchResults{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := s.userRepo.Search(gctx, query, searchLimit)
		res.Users = users
		return err
	})
	g.Go(func() error {
		hubs, err := s.hubRepo.Search(gctx, query, searchLimit)
		res.Hubs = hubs
		return err
	})
	g.Go(func() error {
		posts, err := s.postRepo.SearchPublished(gctx, query, searchLimit)
		res.Posts = posts
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if res.Users == nil {
		res.Users = []models.User{}
	}
	if res.Hubs == nil {
		res.Hubs = []models.TechHub{}
	}
	if res.Posts == nil {
		res.Posts = []*models.Post{}
	}
	return res, nil
}
