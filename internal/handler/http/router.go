package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Deba1597/backendProject/internal/auth"
	"github.com/Deba1597/backendProject/internal/health"
	"github.com/Deba1597/backendProject/internal/middleware"
)

// RouterConfig carries everything the router needs to assemble routes and
// the middleware chain.
type RouterConfig struct {
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	HealthHandler *health.Handler
	TokenManager  *auth.TokenManager
	Redis         *redis.Client
	CORS          middleware.CORSConfig
	AuthRateLimit middleware.RateLimitConfig
	ServiceName   string
	Logger        *slog.Logger
}

// NewRouter builds the HTTP router with the full middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics())

	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.Auth(tokenValidator(cfg.TokenManager))
	rateLimited := middleware.RateLimit(cfg.Redis, cfg.AuthRateLimit, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public session endpoints, rate limited per client IP.
			r.Group(func(r chi.Router) {
				r.Use(rateLimited)
				r.Post("/register", cfg.AuthHandler.Register)
				r.With(ContentTypeJSON).Post("/login", cfg.AuthHandler.Login)
				r.With(ContentTypeJSON).Post("/refresh", cfg.AuthHandler.Refresh)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.With(ContentTypeJSON).Post("/change-password", cfg.AuthHandler.ChangePassword)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", cfg.UserHandler.Me)
			r.With(ContentTypeJSON).Put("/me", cfg.UserHandler.UpdateProfile)
			r.Patch("/me/avatar", cfg.UserHandler.UpdateAvatar)
			r.Patch("/me/cover-image", cfg.UserHandler.UpdateCoverImage)
		})
	})

	return r
}

// tokenValidator bridges the JWT token manager to the auth middleware.
func tokenValidator(tm *auth.TokenManager) middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		claims, err := tm.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:   claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
		}, nil
	}
}
