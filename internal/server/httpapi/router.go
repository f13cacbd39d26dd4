// Package httpapi exposes the account service over HTTP.
package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/inventario-saas/accounts/internal/logging"
	"github.com/inventario-saas/accounts/internal/server/config"
	"github.com/inventario-saas/accounts/internal/server/rate"
)

// NewRouter builds the gin engine with all account routes mounted under
// the configured API prefix. Every route carries its own rate budget,
// keyed by authenticated user id where auth runs first and by client IP
// otherwise; routes without an explicit budget fall back to the
// configured per-minute default.
func NewRouter(cfg *config.Config, log logging.Logger, svc UserService) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := NewHandler(svc, log)
	limit := func(perMinute int) gin.HandlerFunc {
		if perMinute <= 0 {
			perMinute = cfg.RateLimitPerMinute
		}
		return rateLimit(rate.NewKeyedLimiter(rate.PerMinute(perMinute)))
	}

	r.GET("/health", limit(0), h.health)

	users := r.Group(cfg.APIPrefix).Group("/users")

	users.POST("/", limit(5), h.register)
	users.POST("/login", limit(10), h.login)
	users.POST("/refresh", limit(10), h.refresh)
	users.POST("/logout", limit(5), h.logout)

	users.GET("/me", h.requireAuth(), limit(10), h.me)
	users.PUT("/me", h.requireAuth(), limit(5), h.updateMe)

	users.GET("/", limit(10), h.list)
	users.GET("/slug/:slug", limit(10), h.getBySlug)
	users.GET("/:id", limit(10), h.getByID)
	users.PUT("/:id", limit(5), h.update)
	users.DELETE("/:id", limit(3), h.delete)

	return r
}
