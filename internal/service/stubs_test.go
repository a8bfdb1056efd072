package service

import (
	"context"
	"errors"
	"testing"

	"even/internal/models"
	"even/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post, []string) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	getBySlugFn       func(context.Context, string) (*models.Post, error)
	slugExistsFn      func(context.Context, string) (bool, error)
	listFn            func(context.Context, repository.PostFilter) ([]*models.Post, int64, error)
	updateFn          func(context.Context, *models.Post, []string) error
	deleteFn          func(context.Context, uint) error
	incrementViewsFn  func(context.Context, uint) (int, error)
	incrementSharesFn func(context.Context, uint) (*models.Post, error)
	trendingFn        func(context.Context, int) ([]*models.Post, error)
	searchFn          func(context.Context, string, int) ([]*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post, tags []string) error {
	return s.createFn(ctx, post, tags)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.slugExistsFn(ctx, slug)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, int64, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post, tags []string) error {
	return s.updateFn(ctx, post, tags)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IncrementViews(ctx context.Context, id uint) (int, error) {
	return s.incrementViewsFn(ctx, id)
}
func (s *postRepoStub) IncrementShares(ctx context.Context, id uint) (*models.Post, error) {
	return s.incrementSharesFn(ctx, id)
}
func (s *postRepoStub) Trending(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.trendingFn(ctx, limit)
}
func (s *postRepoStub) SearchPublished(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:          func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		getByIDFn:         func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getBySlugFn:       func(_ context.Context, slug string) (*models.Post, error) { return &models.Post{Slug: slug}, nil },
		slugExistsFn:      func(_ context.Context, _ string) (bool, error) { return false, nil },
		listFn:            func(_ context.Context, _ repository.PostFilter) ([]*models.Post, int64, error) { return nil, 0, nil },
		updateFn:          func(_ context.Context, _ *models.Post, _ []string) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		incrementViewsFn:  func(_ context.Context, _ uint) (int, error) { return 1, nil },
		incrementSharesFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		trendingFn:        func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		searchFn:          func(_ context.Context, _ string, _ int) ([]*models.Post, error) { return nil, nil },
	}
}

// techHubRepoStub is a stub for repository.TechHubRepository.
type techHubRepoStub struct {
	listFn      func(context.Context) ([]models.TechHub, error)
	getByIDFn   func(context.Context, uint) (*models.TechHub, error)
	getBySlugFn func(context.Context, string) (*models.TechHub, error)
	createFn    func(context.Context, *models.TechHub) error
	searchFn    func(context.Context, string, int) ([]models.TechHub, error)
}

func (s *techHubRepoStub) List(ctx context.Context) ([]models.TechHub, error) {
	return s.listFn(ctx)
}
func (s *techHubRepoStub) GetByID(ctx context.Context, id uint) (*models.TechHub, error) {
	return s.getByIDFn(ctx, id)
}
func (s *techHubRepoStub) GetBySlug(ctx context.Context, slug string) (*models.TechHub, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *techHubRepoStub) Create(ctx context.Context, hub *models.TechHub) error {
	return s.createFn(ctx, hub)
}
func (s *techHubRepoStub) Search(ctx context.Context, query string, limit int) ([]models.TechHub, error) {
	return s.searchFn(ctx, query, limit)
}

func noopTechHubRepo() *techHubRepoStub {
	return &techHubRepoStub{
		listFn:    func(_ context.Context) ([]models.TechHub, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.TechHub, error) { return &models.TechHub{ID: id}, nil },
		getBySlugFn: func(_ context.Context, _ string) (*models.TechHub, error) {
			return nil, models.NewNotFoundError("Tech hub", nil)
		},
		createFn: func(_ context.Context, _ *models.TechHub) error { return nil },
		searchFn: func(_ context.Context, _ string, _ int) ([]models.TechHub, error) { return nil, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateProfileFn   func(context.Context, uint, map[string]interface{}) (*models.User, error)
	setRefreshTokenFn func(context.Context, uint, string) error
	getRefreshTokenFn func(context.Context, uint) (string, error)
	searchFn          func(context.Context, string, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, id uint, updates map[string]interface{}) (*models.User, error) {
	return s.updateProfileFn(ctx, id, updates)
}
func (s *userRepoStub) SetRefreshToken(ctx context.Context, id uint, token string) error {
	return s.setRefreshTokenFn(ctx, id, token)
}
func (s *userRepoStub) GetRefreshToken(ctx context.Context, id uint) (string, error) {
	return s.getRefreshTokenFn(ctx, id)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateProfileFn: func(_ context.Context, id uint, _ map[string]interface{}) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		setRefreshTokenFn: func(_ context.Context, _ uint, _ string) error { return nil },
		getRefreshTokenFn: func(_ context.Context, _ uint) (string, error) { return "", nil },
		searchFn:          func(_ context.Context, _ string, _ int) ([]models.User, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listTopLevelFn func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	listRepliesFn  func(context.Context, uint) ([]*models.Comment, error)
	updateFn       func(context.Context, *models.Comment) error
	deleteFn       func(context.Context, uint) error
	toggleClapFn   func(context.Context, uint, uint) (models.ToggleOutcome, int, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListTopLevel(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, int64, error) {
	return s.listTopLevelFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error) {
	return s.listRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) ToggleClap(ctx context.Context, userID, commentID uint) (models.ToggleOutcome, int, error) {
	return s.toggleClapFn(ctx, userID, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listTopLevelFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		listRepliesFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		toggleClapFn: func(_ context.Context, _, _ uint) (models.ToggleOutcome, int, error) {
			return models.ToggleAdded, 1, nil
		},
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	toggleFn func(context.Context, uint, uint, models.LikeType) (models.ToggleOutcome, *models.Post, error)
	statusFn func(context.Context, uint, uint) (*models.LikeType, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, userID, postID uint, likeType models.LikeType) (models.ToggleOutcome, *models.Post, error) {
	return s.toggleFn(ctx, userID, postID, likeType)
}
func (s *likeRepoStub) Status(ctx context.Context, userID, postID uint) (*models.LikeType, error) {
	return s.statusFn(ctx, userID, postID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn: func(_ context.Context, _, postID uint, _ models.LikeType) (models.ToggleOutcome, *models.Post, error) {
			return models.ToggleAdded, &models.Post{ID: postID}, nil
		},
		statusFn: func(_ context.Context, _, _ uint) (*models.LikeType, error) { return nil, nil },
	}
}

// bookmarkRepoStub is a stub for repository.BookmarkRepository.
type bookmarkRepoStub struct {
	toggleFn    func(context.Context, uint, uint) (models.ToggleOutcome, error)
	existsFn    func(context.Context, uint, uint) (bool, error)
	listPostsFn func(context.Context, uint) ([]*models.Post, error)
}

func (s *bookmarkRepoStub) Toggle(ctx context.Context, userID, postID uint) (models.ToggleOutcome, error) {
	return s.toggleFn(ctx, userID, postID)
}
func (s *bookmarkRepoStub) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	return s.existsFn(ctx, userID, postID)
}
func (s *bookmarkRepoStub) ListPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.listPostsFn(ctx, userID)
}

func noopBookmarkRepo() *bookmarkRepoStub {
	return &bookmarkRepoStub{
		toggleFn:    func(_ context.Context, _, _ uint) (models.ToggleOutcome, error) { return models.ToggleAdded, nil },
		existsFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listPostsFn: func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
	}
}

// subscriptionRepoStub is a stub for repository.SubscriptionRepository.
type subscriptionRepoStub struct {
	toggleFn      func(context.Context, uint, models.SubscriptionTarget) (models.ToggleOutcome, int, error)
	existsFn      func(context.Context, uint, models.SubscriptionTarget) (bool, error)
	listHubsFn    func(context.Context, uint) ([]models.TechHub, error)
	listAuthorsFn func(context.Context, uint) ([]models.User, error)
}

func (s *subscriptionRepoStub) Toggle(ctx context.Context, subscriberID uint, target models.SubscriptionTarget) (models.ToggleOutcome, int, error) {
	return s.toggleFn(ctx, subscriberID, target)
}
func (s *subscriptionRepoStub) Exists(ctx context.Context, subscriberID uint, target models.SubscriptionTarget) (bool, error) {
	return s.existsFn(ctx, subscriberID, target)
}
func (s *subscriptionRepoStub) ListHubs(ctx context.Context, subscriberID uint) ([]models.TechHub, error) {
	return s.listHubsFn(ctx, subscriberID)
}
func (s *subscriptionRepoStub) ListAuthors(ctx context.Context, subscriberID uint) ([]models.User, error) {
	return s.listAuthorsFn(ctx, subscriberID)
}

func noopSubscriptionRepo() *subscriptionRepoStub {
	return &subscriptionRepoStub{
		toggleFn: func(_ context.Context, _ uint, _ models.SubscriptionTarget) (models.ToggleOutcome, int, error) {
			return models.ToggleAdded, 1, nil
		},
		existsFn:      func(_ context.Context, _ uint, _ models.SubscriptionTarget) (bool, error) { return false, nil },
		listHubsFn:    func(_ context.Context, _ uint) ([]models.TechHub, error) { return nil, nil },
		listAuthorsFn: func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeUnauthorized)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}
