package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/inventario-saas/accounts/internal/common"
	"github.com/inventario-saas/accounts/internal/dbx"
	"github.com/inventario-saas/accounts/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, token string, userID string, expiresAt time.Time) (*models.RefreshToken, error) {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	record := &models.RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	err := r.db.QueryRowContext(ctx, query, token, userID, expiresAt).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return record, nil
}

func (r *PostgresRepository) Validate(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT id, token, user_id, created_at, expires_at, revoked
		FROM refresh_tokens
		WHERE token = $1 AND revoked = FALSE
	`
	record := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&record.ID, &record.Token, &record.UserID,
		&record.CreatedAt, &record.ExpiresAt, &record.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	// Lazy expiry reconciliation: an expired row is flipped to revoked on
	// the validation path rather than by a background sweep.
	if !record.ExpiresAt.After(time.Now()) {
		if err := r.Revoke(ctx, token); err != nil {
			return nil, err
		}
		return nil, common.ErrorNotFound
	}

	return record, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
