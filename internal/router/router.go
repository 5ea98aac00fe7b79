package router

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/anonto42/buddyscript/backend/internal/feed"
	"github.com/anonto42/buddyscript/backend/internal/handlers"
	"github.com/anonto42/buddyscript/backend/internal/middleware"
	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/anonto42/buddyscript/backend/internal/repositories"
	"github.com/anonto42/buddyscript/backend/pkg/config"
	"github.com/anonto42/buddyscript/backend/pkg/firebase"
	"github.com/anonto42/buddyscript/backend/validators"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Dependencies are the collaborators routes are wired to. Media, Redis and
// FirebaseAuth are optional.
type Dependencies struct {
	Config       *config.Config
	Postgres     *gorm.DB
	Media        repositories.MediaRepository
	Redis        *redis.Client
	FirebaseAuth firebase.TokenVerifier
	Logger       *slog.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, logger *slog.Logger) {
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(logger)
	e.Validator = validators.NewValidator()

	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= 500 {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Metrics())
	e.Use(eMiddleware.SecureWithConfig(cfg.SecureConfig()))
	e.Use(eMiddleware.CORSWithConfig(cfg.CORSConfig()))
	e.Use(eMiddleware.BodyLimit("10M"))
	log.Println("Global middleware configured.")
}

// SetupRoutes migrates the schema and configures all application routes
func SetupRoutes(e *echo.Echo, deps Dependencies) error {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := deps.Postgres.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
	); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	postRepo := repositories.NewPostgresPostRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)

	assembler := feed.NewAssembler(postRepo, commentRepo, likeRepo,
		feed.WithMaxAncestorDepth(cfg.FeedAncestorDepth),
		feed.WithLogger(logger),
	)

	apiLimit := middleware.RateLimit(rateLimitStore(deps, "api", cfg.RateLimitAPI))
	authLimit := middleware.RateLimit(rateLimitStore(deps, "auth", cfg.RateLimitAuth))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth", apiLimit)
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, cfg.JWTTTL, cfg.CookieSecure)
	authHandler.RegisterAuthRoutes(authGroup, authLimit)
	if deps.FirebaseAuth != nil {
		authHandler.RegisterFirebaseRoutes(authGroup, deps.FirebaseAuth, authLimit)
		log.Println("Firebase sign-in enabled.")
	}
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1", apiLimit, middleware.JWTAuthMiddleware(cfg.JWTSecret))

	handlers.NewUserHandler(userRepo).RegisterProfileRoutes(api)
	handlers.NewFeedHandler(assembler, cfg.FeedMaxLimit).RegisterFeedRoutes(api)
	handlers.NewPostHandler(postRepo).RegisterPostRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo, assembler).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(likeRepo, postRepo, commentRepo).RegisterLikeRoutes(api)
	log.Println("Feed, post, comment and like routes configured.")

	if deps.Media != nil {
		uploadHandler := handlers.NewUploadHandler(deps.Media, cfg.UploadMaxBytes)
		uploadHandler.RegisterUploadRoutes(api)
		uploadHandler.RegisterServeRoutes(e)
		log.Println("Upload routes configured.")
	}

	log.Println("All routes configured.")
	return nil
}

func rateLimitStore(deps Dependencies, name string, limit int) eMiddleware.RateLimiterStore {
	if deps.Redis != nil {
		return middleware.NewRedisRateLimiterStore(deps.Redis, name, limit, deps.Config.RateLimitWindow, deps.Logger)
	}
	return middleware.NewMemoryRateLimiterStore(limit, deps.Config.RateLimitWindow)
}
