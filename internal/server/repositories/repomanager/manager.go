// Package repomanager wires repositories to a database handle. Services
// ask the manager for a repository bound to either the shared *sql.DB or
// a transaction, which keeps transactional flows explicit.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/inventario-saas/accounts/internal/dbx"
	"github.com/inventario-saas/accounts/internal/server/repositories/refreshtokens"
	"github.com/inventario-saas/accounts/internal/server/repositories/users"
)

// RepositoryManager constructs repositories bound to a DBTX.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
