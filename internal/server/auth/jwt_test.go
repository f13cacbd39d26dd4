package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventario-saas/accounts/internal/common"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("test-secret"), 15*time.Minute, 7*24*time.Hour)
}

func TestEncodeDecode_Roundtrip(t *testing.T) {
	c := newTestCodec()

	token, expiresAt, err := c.Encode("user-42", time.Minute, KindAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)

	claims, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, KindAccess, claims.TokenType)
}

func TestDecode_ExpiredToken(t *testing.T) {
	c := newTestCodec()

	token, _, err := c.Encode("user-42", -time.Minute, KindAccess)
	require.NoError(t, err)

	_, err = c.Decode(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestDecode_WrongSecret(t *testing.T) {
	c := newTestCodec()
	other := NewCodec([]byte("different-secret"), time.Minute, time.Hour)

	token, _, err := other.Encode("user-42", time.Minute, KindAccess)
	require.NoError(t, err)

	_, err = c.Decode(token)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestDecode_Garbage(t *testing.T) {
	c := newTestCodec()

	for _, tok := range []string{"", "abc", "a.b.c", "…"} {
		_, err := c.Decode(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	}
}

func TestIssueAccessAndRefresh_Kinds(t *testing.T) {
	c := newTestCodec()

	access, _, err := c.IssueAccess("u1")
	require.NoError(t, err)
	refresh, refreshExp, err := c.IssueRefresh("u1")
	require.NoError(t, err)

	require.NotEqual(t, access, refresh)

	ac, err := c.Decode(access)
	require.NoError(t, err)
	assert.Equal(t, KindAccess, ac.TokenType)

	rc, err := c.Decode(refresh)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, rc.TokenType)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), refreshExp, 2*time.Second)
}
