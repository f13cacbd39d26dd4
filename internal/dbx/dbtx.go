// Package dbx holds the small database plumbing the account repositories
// share: the DBTX query interface and a transactional helper.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface a repository needs. Both *sql.DB and *sql.Tx
// satisfy it, so the same repository code runs standalone or inside a
// transaction opened by the service layer.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx opens a transaction and hands it to fn. The transaction commits
// when fn returns nil and rolls back when it returns an error or panics;
// a panic is rethrown after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    created, err = s.rm.Users(tx).Create(ctx, user)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
