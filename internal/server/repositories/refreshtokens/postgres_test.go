package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventario-saas/accounts/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func tokenRows(userID, token string, expires time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "token", "user_id", "created_at", "expires_at", "revoked"}).
		AddRow(int64(1), token, userID, time.Now(), expires, false)
}

func TestSave_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	expires := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+refresh_tokens\b.*RETURNING\s+id,\s*created_at`).
		WithArgs("tok123", "u1", expires).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	record, err := repo.Save(context.Background(), "tok123", "u1", expires)
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.ID)
	assert.Equal(t, "u1", record.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+refresh_tokens\b`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Save(context.Background(), "tok123", "u1", time.Now())
	assert.ErrorContains(t, err, "db down")
}

func TestValidate_LiveToken(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	expires := time.Now().Add(time.Hour)
	mock.ExpectQuery(`(?s)SELECT .* FROM refresh_tokens\s+WHERE token = \$1 AND revoked = FALSE`).
		WithArgs("tok123").
		WillReturnRows(tokenRows("u1", "tok123", expires))

	record, err := repo.Validate(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, "u1", record.UserID)
	assert.True(t, record.Valid(time.Now()))
}

func TestValidate_ExpiredTokenIsLazilyRevoked(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	expires := time.Now().Add(-time.Minute)
	mock.ExpectQuery(`(?s)SELECT .* FROM refresh_tokens\s+WHERE token = \$1 AND revoked = FALSE`).
		WithArgs("stale").
		WillReturnRows(tokenRows("u1", "stale", expires))
	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE WHERE token = \$1`).
		WithArgs("stale").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.Validate(context.Background(), "stale")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidate_ExpiredTokenIdempotent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	// Second call after reconciliation: the revoked row no longer matches.
	mock.ExpectQuery(`(?s)SELECT .* FROM refresh_tokens\s+WHERE token = \$1 AND revoked = FALSE`).
		WithArgs("stale").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Validate(context.Background(), "stale")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestValidate_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)SELECT .* FROM refresh_tokens\b`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Validate(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRevoke_UnknownTokenIsNoop(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE refresh_tokens SET revoked = TRUE WHERE token = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), "missing")
	assert.NoError(t, err)
}

func TestDeleteByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM refresh_tokens WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.DeleteByUser(context.Background(), "u1"))
}
