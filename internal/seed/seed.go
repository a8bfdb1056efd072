package seed

import (
	"context"
	"fmt"
	"log/slog"

	"even/internal/models"
	"even/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// FastHash hashes the demo password at bcrypt's minimum cost.
	FastHash bool
	// FakerSeed makes a run reproducible; zero means random.
	FakerSeed int64
	Logger    *slog.Logger
}

// Summary counts what a run created.
type Summary struct {
	Hubs          int
	Users         int
	Posts         int
	Comments      int
	Likes         int
	Bookmarks     int
	Subscriptions int
}

// Seeder populates a database with a coherent demo dataset.
type Seeder struct {
	db            *gorm.DB
	opts          Options
	log           *slog.Logger
	likes         repository.LikeRepository
	bookmarks     repository.BookmarkRepository
	comments      repository.CommentRepository
	subscriptions repository.SubscriptionRepository
}

// NewSeeder binds a seeder to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers < 2 {
		opts.NumUsers = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:            db,
		opts:          opts,
		log:           logger,
		likes:         repository.NewLikeRepository(db),
		bookmarks:     repository.NewBookmarkRepository(db),
		comments:      repository.NewCommentRepository(db),
		subscriptions: repository.NewSubscriptionRepository(db),
	}
}

// Run seeds hubs, users, posts and the interactions between them. Every
// interaction goes through the same toggles the API uses.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	s.log.Info("starting database seeding", "users", s.opts.NumUsers, "posts", s.opts.NumPosts)

	if s.opts.ShouldClean {
		if err := ClearAll(ctx, s.db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
		s.log.Info("existing data cleared")
	}

	hubs, err := Hubs(ctx, s.db)
	if err != nil {
		return nil, err
	}
	summary := &Summary{Hubs: len(hubs)}

	factory, err := NewFactory(s.db, s.opts.FakerSeed, s.opts.FastHash)
	if err != nil {
		return nil, err
	}
	faker := factory.Faker()

	users, err := s.createUsers(ctx, factory)
	if err != nil {
		return nil, err
	}
	summary.Users = len(users)

	// Roughly a third of the accounts write.
	writers := users[:max(1, len(users)/3)]
	posts := make([]*models.Post, 0, s.opts.NumPosts)
	for i := 0; i < s.opts.NumPosts; i++ {
		author := writers[faker.Number(0, len(writers)-1)]
		hub := hubs[faker.Number(0, len(hubs)-1)]
		post, err := factory.CreatePost(ctx, author, &hub)
		if err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		posts = append(posts, post)
	}
	summary.Posts = len(posts)
	s.log.Info("posts created", "count", len(posts))

	for _, post := range posts {
		n, err := s.seedPostActivity(ctx, factory, users, post)
		if err != nil {
			return nil, err
		}
		summary.Comments += n.Comments
		summary.Likes += n.Likes
		summary.Bookmarks += n.Bookmarks
	}

	for _, user := range users {
		n, err := s.seedSubscriptions(ctx, faker.Number(0, 3), user, writers, hubs)
		if err != nil {
			return nil, err
		}
		summary.Subscriptions += n
	}

	s.log.Info("database seeding completed",
		"hubs", summary.Hubs,
		"users", summary.Users,
		"posts", summary.Posts,
		"comments", summary.Comments,
		"likes", summary.Likes,
		"bookmarks", summary.Bookmarks,
		"subscriptions", summary.Subscriptions,
	)
	return summary, nil
}

func (s *Seeder) createUsers(ctx context.Context, factory *Factory) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)
	writerCount := max(1, s.opts.NumUsers/3)
	for attempts := 0; len(users) < s.opts.NumUsers; attempts++ {
		if attempts > s.opts.NumUsers*3 {
			return nil, fmt.Errorf("create users: too many username collisions")
		}
		role := models.RoleReader
		if len(users) < writerCount {
			role = models.RoleWriter
		}
		user, err := factory.CreateUser(ctx, func(u *models.User) { u.Role = role })
		if models.IsConflict(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	s.log.Info("users created", "count", len(users))
	return users, nil
}

func (s *Seeder) seedPostActivity(ctx context.Context, factory *Factory, users []*models.User, post *models.Post) (Summary, error) {
	var n Summary
	faker := factory.Faker()

	for _, user := range users {
		if user.ID == post.AuthorID {
			continue
		}
		roll := faker.Float64()
		switch {
		case roll < 0.35:
			if _, _, err := s.likes.Toggle(ctx, user.ID, post.ID, models.LikeTypeLike); err != nil {
				return n, fmt.Errorf("like post %d: %w", post.ID, err)
			}
			n.Likes++
		case roll < 0.40:
			if _, _, err := s.likes.Toggle(ctx, user.ID, post.ID, models.LikeTypeDislike); err != nil {
				return n, fmt.Errorf("dislike post %d: %w", post.ID, err)
			}
			n.Likes++
		}
		if faker.Float64() < 0.15 {
			if _, err := s.bookmarks.Toggle(ctx, user.ID, post.ID); err != nil {
				return n, fmt.Errorf("bookmark post %d: %w", post.ID, err)
			}
			n.Bookmarks++
		}
	}

	threads := faker.Number(0, 4)
	for i := 0; i < threads; i++ {
		author := users[faker.Number(0, len(users)-1)]
		root, err := factory.CreateComment(ctx, author, post, nil)
		if err != nil {
			return n, fmt.Errorf("comment on post %d: %w", post.ID, err)
		}
		n.Comments++

		for j := faker.Number(0, 2); j > 0; j-- {
			replier := users[faker.Number(0, len(users)-1)]
			if _, err := factory.CreateComment(ctx, replier, post, root); err != nil {
				return n, fmt.Errorf("reply on post %d: %w", post.ID, err)
			}
			n.Comments++
		}

		clapper := users[faker.Number(0, len(users)-1)]
		if _, _, err := s.comments.ToggleClap(ctx, clapper.ID, root.ID); err != nil {
			return n, fmt.Errorf("clap comment %d: %w", root.ID, err)
		}
	}
	return n, nil
}

// seedSubscriptions follows up to count distinct authors plus one hub.
func (s *Seeder) seedSubscriptions(ctx context.Context, count int, user *models.User, writers []*models.User, hubs []models.TechHub) (int, error) {
	created := 0
	for _, w := range writers {
		if created >= count {
			break
		}
		if w.ID == user.ID {
			continue
		}
		if _, _, err := s.subscriptions.Toggle(ctx, user.ID, models.AuthorTarget(w.ID)); err != nil {
			return created, fmt.Errorf("subscribe %d to author %d: %w", user.ID, w.ID, err)
		}
		created++
	}

	hub := hubs[int(user.ID)%len(hubs)]
	if _, _, err := s.subscriptions.Toggle(ctx, user.ID, models.HubTarget(hub.ID)); err != nil {
		return created, fmt.Errorf("subscribe %d to hub %s: %w", user.ID, hub.Slug, err)
	}
	return created + 1, nil
}

// ClearAll removes every row the application owns, children first. Hubs
// are removed too; Run re-creates them from the catalog.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	tables := []string{
		"comment_claps", "comments", "likes", "bookmarks", "subscriptions",
		"post_tags", "posts", "tags", "tech_hubs", "users",
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
