package httpapi

import (
	"time"

	"github.com/inventario-saas/accounts/internal/server/models"
)

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	FullName    string `json:"full_name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	IsSuperuser bool   `json:"is_superuser"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type updateRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	FullName    *string `json:"full_name"`
	Password    *string `json:"password" binding:"omitempty,min=8"`
	IsActive    *bool   `json:"is_active"`
	IsSuperuser *bool   `json:"is_superuser"`
}

func (r updateRequest) patch() models.UserPatch {
	return models.UserPatch{
		Email:       r.Email,
		FullName:    r.FullName,
		Password:    r.Password,
		IsActive:    r.IsActive,
		IsSuperuser: r.IsSuperuser,
	}
}

// UserOut is the public representation of a user record. The hashed
// password never leaves the service.
type UserOut struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Slug        string     `json:"slug"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser bool       `json:"is_superuser"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func newUserOut(u *models.User) UserOut {
	return UserOut{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Slug:        u.Slug,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type tokenOut struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type pageOut struct {
	Items []UserOut `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Pages int       `json:"pages"`
}

type detailOut struct {
	Detail string `json:"detail"`
}
