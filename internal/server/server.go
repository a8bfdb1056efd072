package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "even/docs" // swagger docs
	"even/internal/cache"
	"even/internal/config"
	"even/internal/database"
	"even/internal/middleware"
	"even/internal/models"
	"even/internal/repository"
	"even/internal/service"
	"even/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	store          storage.Store

	authService         *service.AuthService
	userService         *service.UserService
	hubService          *service.HubService
	postService         *service.PostService
	likeService         *service.LikeService
	bookmarkService     *service.BookmarkService
	commentService      *service.CommentService
	subscriptionService *service.SubscriptionService
	analyticsService    *service.AnalyticsService
	searchService       *service.SearchService
	imageService        *service.ImageService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional; without it caching and token revocation are skipped.
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}
	return newServer(cfg, db, redisClient, store), nil
}

func newServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.Store) *Server {
	userRepo := repository.NewUserRepository(db)
	hubRepo := repository.NewTechHubRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)

	tokens := service.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("even-api"),
		store:          store,

		authService:         service.NewAuthService(userRepo, tokens),
		userService:         service.NewUserService(userRepo),
		hubService:          service.NewHubService(hubRepo),
		postService:         service.NewPostService(postRepo, hubRepo),
		likeService:         service.NewLikeService(likeRepo),
		bookmarkService:     service.NewBookmarkService(bookmarkRepo),
		commentService:      service.NewCommentService(commentRepo, postRepo),
		subscriptionService: service.NewSubscriptionService(subscriptionRepo),
		analyticsService:    service.NewAnalyticsService(postRepo, cfg.ClientURL),
		searchService:       service.NewSearchService(userRepo, hubRepo, postRepo),
		imageService:        service.NewImageService(store, cfg),
	}
}

// NewApp builds the Fiber application with middleware and routes attached.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Even API",
		BodyLimit:    int(s.imageService.MaxUploadBytes()) + 1<<20,
		ErrorHandler: respondError,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	app.Use(helmet.New(helmet.Config{
		// Uploaded images are embedded by the web client on another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.CORSOrigin
	if origins == "" {
		origins = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later"))
		},
	}))

	app.Use(middleware.RequestTimeout(s.config.RequestTimeout))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to EVEN API"})
	})

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if local, ok := s.store.(*storage.LocalStore); ok {
		app.Static(storage.LocalURLPrefix, local.Dir(), fiber.Static{MaxAge: 86400})
	}

	api := app.Group("/api/v1")
	api.Get("/swagger/*", swagger.HandlerDefault)
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Even API Metrics",
	}))

	authRequired := s.AuthRequired()

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 5, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", middleware.RateLimit(s.redis, 30, 5*time.Minute, "refresh"), s.Refresh)
	auth.Post("/logout", authRequired, s.Logout)

	users := api.Group("/users")
	users.Get("/me", authRequired, s.GetMe)
	users.Patch("/update-account", authRequired, s.UpdateAccount)
	users.Get("/p/:username", s.GetUserProfile)

	hubs := api.Group("/hubs")
	hubs.Get("/", s.ListHubs)
	hubs.Post("/", authRequired, s.CreateHub)
	hubs.Get("/:slug/posts", s.GetHubPosts)
	hubs.Get("/:slug", s.GetHub)

	posts := api.Group("/posts")
	posts.Get("/", s.ListPosts)
	posts.Post("/", authRequired, middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:slug", s.OptionalAuth(), s.GetPost)
	posts.Patch("/:id", authRequired, s.UpdatePost)
	posts.Delete("/:id", authRequired, s.DeletePost)

	likes := api.Group("/likes", authRequired)
	likes.Get("/:postId/status", s.GetLikeStatus)
	likes.Post("/:postId", s.ToggleLike)

	bookmarks := api.Group("/bookmarks", authRequired)
	bookmarks.Get("/", s.ListBookmarks)
	bookmarks.Get("/:postId/status", s.GetBookmarkStatus)
	bookmarks.Post("/:postId", s.ToggleBookmark)

	comments := api.Group("/comments")
	comments.Get("/replies/:commentId", s.GetReplies)
	comments.Post("/clap/:commentId", authRequired, s.ToggleClap)
	comments.Patch("/c/:commentId", authRequired, s.UpdateComment)
	comments.Delete("/c/:commentId", authRequired, s.DeleteComment)
	comments.Get("/:postId", s.GetComments)
	comments.Post("/:postId", authRequired, middleware.RateLimit(s.redis, 20, time.Minute, "create_comment"), s.AddComment)

	subs := api.Group("/subscriptions", authRequired)
	subs.Get("/me/hubs", s.GetMySubscribedHubs)
	subs.Get("/me/authors", s.GetMySubscribedAuthors)
	subs.Get("/hubs/:hubId/status", s.GetHubSubscriptionStatus)
	subs.Post("/hubs/:hubId", s.ToggleHubSubscription)
	subs.Get("/users/:userId/status", s.GetAuthorSubscriptionStatus)
	subs.Post("/users/:userId", s.ToggleAuthorSubscription)

	analytics := api.Group("/analytics")
	analytics.Post("/view/:postId", s.TrackView)
	analytics.Get("/trending", s.GetTrending)

	api.Post("/share/:postId", s.SharePost)
	api.Get("/search", middleware.RateLimit(s.redis, 30, time.Minute, "search"), s.GlobalSearch)
	api.Post("/upload/image", authRequired, middleware.RateLimit(s.redis, 20, 10*time.Minute, "upload"), s.UploadImage)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so
// only a configured-but-failing Redis makes the service unready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// bearerToken returns the access token from the Authorization header,
// falling back to the accessToken cookie.
func bearerToken(c *fiber.Ctx) string {
	if parts := strings.Fields(c.Get(fiber.HeaderAuthorization)); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return c.Cookies(accessTokenCookie)
}

// authenticate verifies the request's access token and checks the denylist.
func (s *Server) authenticate(c *fiber.Ctx) (*service.AccessClaims, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, models.NewUnauthorizedError("Unauthorized request")
	}
	claims, err := s.authService.Tokens().ParseAccess(token)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired access token")
	}
	if cache.IsRevoked(c.UserContext(), claims.JTI) {
		return nil, models.NewUnauthorizedError("Token has been revoked")
	}
	return claims, nil
}

func setAuthLocals(c *fiber.Ctx, claims *service.AccessClaims) {
	c.Locals(localsUserID, claims.UserID)
	c.Locals(localsClaims, claims)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, claims.UserID)
	c.SetUserContext(ctx)
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := s.authenticate(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		setAuthLocals(c, claims)
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through unchanged.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if bearerToken(c) == "" {
			return c.Next()
		}
		if claims, err := s.authenticate(c); err == nil {
			setAuthLocals(c, claims)
		}
		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
