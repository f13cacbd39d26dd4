package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inventario-saas/accounts/internal/common"
	"github.com/inventario-saas/accounts/internal/logging"
	"github.com/inventario-saas/accounts/internal/server/models"
	"github.com/inventario-saas/accounts/internal/server/services"
)

// UserService is the slice of the account service the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, plaintext string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, bearerToken string)
	Authenticate(ctx context.Context, bearerToken string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetBySlug(ctx context.Context, slug string) (*models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch, regenerateSlug bool) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter services.ListFilter) (*services.UserPage, error)
}

// Handler holds the route handlers for the account API.
type Handler struct {
	svc UserService
	log logging.Logger
}

func NewHandler(svc UserService, log logging.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// writeError maps service errors onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, detailOut{Detail: err.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		c.JSON(http.StatusBadRequest, detailOut{Detail: "email already registered"})
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, detailOut{Detail: "invalid or missing credentials"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, detailOut{Detail: "user not found"})
	default:
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, detailOut{Detail: "internal server error"})
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, detailOut{Detail: err.Error()})
		return
	}
	user, err := h.svc.Register(c.Request.Context(), services.RegisterInput{
		Email:       req.Email,
		FullName:    req.FullName,
		Password:    req.Password,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, detailOut{Detail: err.Error()})
		return
	}
	pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenOut{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, detailOut{Detail: err.Error()})
		return
	}
	pair, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenOut{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// logout revokes the presented refresh token. It always succeeds so a
// client holding an expired or already-revoked token still logs out
// cleanly.
func (h *Handler) logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(), bearerToken(c))
	c.JSON(http.StatusOK, detailOut{Detail: "successfully logged out"})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, newUserOut(currentUser(c)))
}

func (h *Handler) updateMe(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, detailOut{Detail: err.Error()})
		return
	}
	patch := req.patch()
	// Accounts cannot change their own standing or privileges.
	patch.IsActive = nil
	patch.IsSuperuser = nil

	user, err := h.svc.Update(c.Request.Context(), currentUser(c).ID, patch, regenerateSlugParam(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

func (h *Handler) list(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), services.ListFilter{
		Search: c.Query("search"),
		Page:   intQuery(c, "page"),
		Size:   intQuery(c, "size"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	items := make([]UserOut, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, newUserOut(u))
	}
	c.JSON(http.StatusOK, pageOut{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
		Pages: page.Pages,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

func (h *Handler) getBySlug(c *gin.Context) {
	user, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, detailOut{Detail: err.Error()})
		return
	}
	user, err := h.svc.Update(c.Request.Context(), id, req.patch(), regenerateSlugParam(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		return
	}
	user, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserOut(user))
}

// userIDParam validates the :id path segment. A malformed id can never
// match a record, so it is reported the same way as a missing one.
func userIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, detailOut{Detail: "user not found"})
		return "", false
	}
	return id, true
}

func regenerateSlugParam(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.DefaultQuery("regenerate_slug", "false"))
	return v
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
