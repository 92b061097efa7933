package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/bookvault/internal/domain"
	"github.com/utafrali/bookvault/internal/service"
	"github.com/utafrali/bookvault/pkg/health"
	"github.com/utafrali/bookvault/pkg/middleware"
)

// RouterConfig holds the knobs the router needs beyond its handlers.
type RouterConfig struct {
	CORS CORSConfig

	// AuthRPS/AuthBurst bound the per-IP request rate on the public auth
	// endpoints, which are the ones worth brute-forcing.
	AuthRPS   int
	AuthBurst int
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	userService *service.UserService,
	bookService *service.BookService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("bookvault"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator bridging to the user service: signature check, user
	// lookup, and stale-password rejection all happen in Authenticate.
	tokenValidator := middleware.TokenValidator(func(ctx context.Context, token string) (*middleware.Claims, error) {
		user, err := userService.Authenticate(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		}, nil
	})

	authHandler := NewAuthHandler(userService, logger)
	userHandler := NewUserHandler(userService, logger)
	bookHandler := NewBookHandler(bookService, logger)

	// Public auth endpoints
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.RateLimit(cfg.AuthRPS, cfg.AuthBurst, logger))

			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgotPassword", authHandler.ForgotPassword)
			r.Post("/resetPassword/{token}", authHandler.ResetPassword)
		})

		// Authenticated password change
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.Auth(tokenValidator))

			r.Post("/updatePassword/{id}", authHandler.UpdatePassword)
		})

		// Admin-only user listing
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Get("/", userHandler.List)
		})
	})

	// Book catalog endpoints (auth required, delete is admin-only)
	r.Route("/api/v1/books", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", bookHandler.List)
		r.Post("/", bookHandler.Create)
		r.Get("/{id}", bookHandler.Get)
		r.Patch("/{id}", bookHandler.Update)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))
			r.Delete("/{id}", bookHandler.Delete)
		})
	})

	return r
}
