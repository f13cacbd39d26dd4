// Package services contains the business logic of the account service.
// UserService composes the credential hasher, the token codec, and the
// repositories into registration, login/logout, token validation, and
// profile CRUD.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/inventario-saas/accounts/internal/common"
	"github.com/inventario-saas/accounts/internal/dbx"
	"github.com/inventario-saas/accounts/internal/logging"
	"github.com/inventario-saas/accounts/internal/server/auth"
	"github.com/inventario-saas/accounts/internal/server/models"
	"github.com/inventario-saas/accounts/internal/server/password"
	"github.com/inventario-saas/accounts/internal/server/repositories/repomanager"
	"github.com/inventario-saas/accounts/internal/server/repositories/users"
	"github.com/inventario-saas/accounts/internal/server/slugify"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email       string
	FullName    string
	Password    string
	IsSuperuser bool
}

// ListFilter narrows and pages the user listing.
type ListFilter struct {
	Search string
	Page   int
	Size   int
}

// UserPage is one page of a user listing.
type UserPage struct {
	Items []*models.User
	Total int64
	Page  int
	Size  int
	Pages int
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// UserService provides account operations. All consistency guarantees are
// delegated to store-level constraints; the service holds no mutable state
// of its own.
type UserService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	hasher *password.Hasher
	codec  *auth.Codec
	log    logging.Logger
}

// NewUserService constructs a UserService from its collaborators.
func NewUserService(db *sql.DB, rm repomanager.RepositoryManager, hasher *password.Hasher, codec *auth.Codec, log logging.Logger) *UserService {
	return &UserService{db: db, rm: rm, hasher: hasher, codec: codec, log: log}
}

// Register creates a new active user. The slug is derived from the full
// name and disambiguated inside the same transaction as the insert, so a
// concurrent registration with the same name surfaces as a constraint
// conflict rather than a silent overwrite.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, common.ErrorValidation
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		slug, err := s.uniqueSlug(ctx, tx, in.FullName)
		if err != nil {
			return err
		}

		created, err = repo.Create(ctx, &models.User{
			Email:          in.Email,
			HashedPassword: hashed,
			FullName:       in.FullName,
			Slug:           slug,
			IsActive:       true,
			IsSuperuser:    in.IsSuperuser,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies the credentials of an active user and mints a token
// pair, persisting the refresh token. A missing or inactive user and a
// wrong password produce the same error so callers cannot tell which
// check failed.
func (s *UserService) Login(ctx context.Context, email, plaintext string) (*TokenPair, error) {
	user, err := s.rm.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(plaintext, user.HashedPassword) {
		return nil, common.ErrorUnauthorized
	}

	return s.issueTokenPair(ctx, s.db, user.ID)
}

// Refresh exchanges a valid refresh token for a fresh pair, revoking the
// old token inside the same transaction (rotation).
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil || claims.TokenType != auth.KindRefresh || claims.Subject == "" {
		return nil, common.ErrorUnauthorized
	}

	if _, err := s.rm.RefreshTokens(s.db).Validate(ctx, refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error validating refresh token: %w", err)
	}

	var pair *TokenPair
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.RefreshTokens(tx).Revoke(ctx, refreshToken); err != nil {
			return err
		}
		var issueErr error
		pair, issueErr = s.issueTokenPair(ctx, tx, claims.Subject)
		return issueErr
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout revokes the presented refresh token. It is deliberately
// error-free from the caller's perspective: a missing, unknown, or
// already-revoked token is ignored. The token is not decoded first, so
// an expired-but-persisted token is still flipped to revoked.
func (s *UserService) Logout(ctx context.Context, bearerToken string) {
	if bearerToken == "" {
		return
	}
	if err := s.rm.RefreshTokens(s.db).Revoke(ctx, bearerToken); err != nil {
		s.log.Error(ctx, "error revoking refresh token on logout", "error", err)
	}
}

// Authenticate resolves a bearer access token to its active user. Access
// tokens are stateless: they are valid purely by signature and expiry and
// are never checked against the store.
func (s *UserService) Authenticate(ctx context.Context, bearerToken string) (*models.User, error) {
	claims, err := s.codec.Decode(bearerToken)
	if err != nil || claims.TokenType != auth.KindAccess || claims.Subject == "" {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.rm.Users(s.db).GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// GetByID returns the user with the given id, active or not.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.rm.Users(s.db).GetByID(ctx, id)
}

// GetBySlug returns the user with the given slug.
func (s *UserService) GetBySlug(ctx context.Context, slug string) (*models.User, error) {
	return s.rm.Users(s.db).GetBySlug(ctx, slug)
}

// Update applies a partial update. Each patch field is applied
// explicitly; the password is re-hashed only when provided, and the slug
// is regenerated only when the full name changes and the caller asked
// for it.
func (s *UserService) Update(ctx context.Context, id string, patch models.UserPatch, regenerateSlug bool) (*models.User, error) {
	// An empty patch changes nothing; skip the transaction entirely.
	if patch.Empty() && !regenerateSlug {
		return s.rm.Users(s.db).GetByID(ctx, id)
	}

	var updated *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Users(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if patch.Email != nil {
			user.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.Password != nil {
			hashed, err := s.hasher.Hash(*patch.Password)
			if err != nil {
				return fmt.Errorf("error hashing password: %w", err)
			}
			user.HashedPassword = hashed
		}
		if patch.FullName != nil {
			user.FullName = *patch.FullName
			if regenerateSlug {
				slug, err := s.uniqueSlug(ctx, tx, user.FullName)
				if err != nil {
					return err
				}
				user.Slug = slug
			}
		}
		if patch.IsActive != nil {
			user.IsActive = *patch.IsActive
		}
		if patch.IsSuperuser != nil {
			user.IsSuperuser = *patch.IsSuperuser
		}

		updated, err = repo.Update(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete deactivates the user (soft delete) and returns the record. The
// row is retained and stays reachable by id.
func (s *UserService) Delete(ctx context.Context, id string) (*models.User, error) {
	repo := s.rm.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = false
	return repo.Update(ctx, user)
}

// Purge physically removes a user and every refresh token it owns, in one
// transaction. The token delete runs first so the cascade is explicit
// rather than left to the schema.
func (s *UserService) Purge(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.rm.RefreshTokens(tx).DeleteByUser(ctx, id); err != nil {
			return err
		}
		return s.rm.Users(tx).Delete(ctx, id)
	})
}

// List returns one page of the active-user listing.
func (s *UserService) List(ctx context.Context, filter ListFilter) (*UserPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = defaultPageSize
	}
	if filter.Size > maxPageSize {
		filter.Size = maxPageSize
	}

	items, total, err := s.rm.Users(s.db).List(ctx, users.ListFilter{
		Search: filter.Search,
		Limit:  filter.Size,
		Offset: (filter.Page - 1) * filter.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	pages := int((total + int64(filter.Size) - 1) / int64(filter.Size))

	return &UserPage{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
		Pages: pages,
	}, nil
}

func (s *UserService) issueTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	access, _, err := s.codec.IssueAccess(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, expiresAt, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if _, err := s.rm.RefreshTokens(db).Save(ctx, refresh, userID, expiresAt); err != nil {
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *UserService) uniqueSlug(ctx context.Context, db dbx.DBTX, fullName string) (string, error) {
	base := slugify.Base(fullName)

	taken, err := s.rm.Users(db).FindSlugs(ctx, base)
	if err != nil {
		return "", fmt.Errorf("error probing slugs: %w", err)
	}

	return slugify.Unique(base, taken), nil
}
