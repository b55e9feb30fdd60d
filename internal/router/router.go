package router

import (
	"github.com/anonto42/blog-backend/internal/handlers"
	"github.com/anonto42/blog-backend/internal/middleware"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/anonto42/blog-backend/internal/session"
	"github.com/anonto42/blog-backend/pkg/config"
	"github.com/anonto42/blog-backend/pkg/metrics"
	"github.com/anonto42/blog-backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the routes need. Revocations and Verifier may be nil.
type Dependencies struct {
	Config      *config.Config
	Log         *logrus.Logger
	Posts       repositories.PostRepository
	Comments    repositories.CommentRepository
	Wishlist    repositories.WishlistRepository
	Revocations repositories.RevokedTokenRepository
	Verifier    handlers.EmailVerifier
}

// New builds the Echo instance with global middleware and every route.
func New(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e, deps.Config, deps.Log)
	SetupRoutes(e, deps)
	return e
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	log := deps.Log

	e.GET("/", handlers.Root)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", metrics.Handler())

	issuer := session.NewIssuer(deps.Config.AccessTokenSecret, deps.Config.TokenTTL, deps.Config.IsProduction())

	var revocations middleware.RevocationChecker
	if deps.Revocations != nil {
		revocations = deps.Revocations
		log.Info("Session denylist enabled.")
	}
	requireSession := middleware.CookieAuth(issuer, revocations, log)

	root := e.Group("")

	handlers.NewAuthHandler(issuer, deps.Revocations, deps.Verifier, log).RegisterAuthRoutes(root)
	log.Info("Auth routes configured.")

	handlers.NewPostHandler(deps.Posts, deps.Config.FeaturedSort, log).RegisterPostRoutes(root)
	log.Info("Post routes configured.")

	handlers.NewCommentHandler(deps.Comments, log).RegisterCommentRoutes(root)
	log.Info("Comment routes configured.")

	handlers.NewWishlistHandler(deps.Wishlist, log).RegisterWishlistRoutes(root, requireSession)
	log.Info("Wishlist routes configured.")

	log.Info("All routes configured.")
}
