// Package refreshtokens declares the repository contract for persisted
// refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/inventario-saas/accounts/internal/server/models"
)

// Repository defines operations for issuing, validating, and revoking
// refresh tokens.
type Repository interface {
	// Save stores a newly issued token for userID with the given absolute
	// expiry. Storage errors propagate to the caller.
	Save(ctx context.Context, token string, userID string, expiresAt time.Time) (*models.RefreshToken, error)

	// Validate looks up a non-revoked token by its exact string. A token
	// found past its expiry is marked revoked as a side effect and
	// reported as common.ErrorNotFound; expiry is reconciled lazily here
	// instead of by a background sweep.
	Validate(ctx context.Context, token string) (*models.RefreshToken, error)

	// Revoke marks the token revoked regardless of prior state. Revoking
	// an unknown token is a silent no-op.
	Revoke(ctx context.Context, token string) error

	// DeleteByUser removes every token owned by the user. Used by the
	// purge path inside the same transaction as the parent delete.
	DeleteByUser(ctx context.Context, userID string) error
}
