// Package users declares the repository contract for user records in
// persistent storage.
package users

import (
	"context"

	"github.com/inventario-saas/accounts/internal/server/models"
)

// ListFilter narrows and pages a user listing. Listing returns active
// users only; soft-deleted records stay reachable through GetByID.
type ListFilter struct {
	// Search matches email or full name, case-insensitively.
	Search string
	Limit  int
	Offset int
}

// Repository defines operations over user records.
type Repository interface {
	// Create inserts a new user and returns it with generated fields
	// populated. A duplicate email or slug yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID returns the user with the given id, active or not.
	// Missing users yield common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail returns the active user with the given email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetBySlug returns the user with the given slug.
	GetBySlug(ctx context.Context, slug string) (*models.User, error)

	// FindSlugs returns every existing slug equal to base or of the form
	// base-NNN, for collision probing.
	FindSlugs(ctx context.Context, base string) ([]string, error)

	// Update writes the full user row and returns the updated record.
	Update(ctx context.Context, user *models.User) (*models.User, error)

	// List returns a page of active users plus the total count of rows
	// matching the filter.
	List(ctx context.Context, filter ListFilter) ([]*models.User, int64, error)

	// Delete physically removes the user row. Used only by the purge path;
	// ordinary deletion is the soft-delete flip of is_active.
	Delete(ctx context.Context, id string) error
}
