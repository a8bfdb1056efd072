// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"

	"even/internal/models"
	"even/internal/repository"
	"even/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account logs in with.
const DemoPassword = "password123"

var techTags = []string{
	"go", "javascript", "typescript", "react", "node", "python", "rust",
	"kubernetes", "docker", "aws", "postgres", "redis", "graphql", "testing",
	"architecture", "career", "security", "ai", "css", "linux",
}

// Factory builds domain entities and persists them through the
// repositories, so denormalized counters stay consistent.
type Factory struct {
	faker    *gofakeit.Faker
	users    repository.UserRepository
	posts    *service.PostService
	comments repository.CommentRepository
	password string
}

// NewFactory creates a Factory bound to db. A zero fakerSeed picks a
// random one. fastHash hashes the demo password at bcrypt's minimum cost.
func NewFactory(db *gorm.DB, fakerSeed int64, fastHash bool) (*Factory, error) {
	cost := bcrypt.DefaultCost
	if fastHash {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	password := string(hashed)

	return &Factory{
		faker:    gofakeit.New(fakerSeed),
		users:    repository.NewUserRepository(db),
		posts:    service.NewPostService(repository.NewPostRepository(db), repository.NewTechHubRepository(db)),
		comments: repository.NewCommentRepository(db),
		password: password,
	}, nil
}

// Faker exposes the underlying generator for presets that need extra randomness.
func (f *Factory) Faker() *gofakeit.Faker {
	return f.faker
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	username := strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, f.faker.Number(10, 9999)))
	username = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return -1
	}, username)
	if len(username) > 30 {
		username = username[:30]
	}

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: first + " " + last,
		Bio:      f.faker.Sentence(12),
		Avatar:   models.DefaultAvatar,
		Role:     models.RoleReader,
		Password: f.password,
	}
	if len(user.Bio) > models.MaxBioLength {
		user.Bio = user.Bio[:models.MaxBioLength]
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost writes a post for author in hub through the post service, so
// it gets a real slug, summary and read time.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, hub *models.TechHub, overrides ...func(*service.CreatePostInput)) (*models.Post, error) {
	in := service.CreatePostInput{
		Title:      strings.TrimSuffix(f.faker.HackerPhrase(), "!"),
		Content:    f.content(),
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", f.faker.UUID()),
		TechHubID:  hub.ID,
		Tags:       f.tags(),
		Status:     models.PostStatusPublished,
	}
	for _, override := range overrides {
		override(&in)
	}
	return f.posts.CreatePost(ctx, service.Actor{ID: author.ID}, in)
}

// CreateComment persists a comment by author on post. A non-nil parent
// makes it a reply.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, post *models.Post, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		Content:  f.faker.Sentence(f.faker.Number(6, 20)),
		PostID:   post.ID,
		AuthorID: author.ID,
	}
	if parent != nil {
		comment.ParentCommentID = &parent.ID
	}
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (f *Factory) content() string {
	paragraphs := f.faker.Number(3, 8)
	var sb strings.Builder
	sb.WriteString("<h2>" + f.faker.HackerPhrase() + "</h2>")
	for i := 0; i < paragraphs; i++ {
		sb.WriteString("<p>")
		sb.WriteString(f.faker.Paragraph(1, f.faker.Number(3, 7), 14, " "))
		sb.WriteString("</p>")
	}
	return sb.String()
}

func (f *Factory) tags() []string {
	n := f.faker.Number(1, 4)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, techTags[f.faker.Number(0, len(techTags)-1)])
	}
	return tags
}
