package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inventario-saas/accounts/internal/common"
	"github.com/inventario-saas/accounts/internal/logging"
	"github.com/inventario-saas/accounts/internal/server/models"
	"github.com/inventario-saas/accounts/internal/server/rate"
)

const userContextKey = "currentUser"

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not a bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader(common.AuthorizationHeaderName)
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAuth resolves the bearer access token to its user and stores the
// record in the request context. Requests without a valid token are
// rejected with 401.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.svc.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, detailOut{Detail: "invalid or missing credentials"})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// currentUser returns the authenticated user stored by requireAuth, or
// nil on anonymous routes.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// rateLimit enforces a per-route budget. The limiter key is the
// authenticated user id when present, the client IP otherwise; state is
// per-route and process-local.
func rateLimit(l *rate.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if user := currentUser(c); user != nil {
			key = user.ID
		}
		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, detailOut{Detail: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// requestLogger emits one structured log line per request.
func requestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug(c.Request.Context(), "request handled",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}
