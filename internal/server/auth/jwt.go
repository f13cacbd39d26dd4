// Package auth implements the signed-token codec used for access and
// refresh credentials. Tokens are HS256 JWTs carrying the user id as
// subject plus a kind discriminator.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inventario-saas/accounts/internal/common"
)

// Token kinds carried in the "type" claim.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims extends the registered JWT claims with the token kind.
type Claims struct {
	jwt.RegisteredClaims
	TokenType string `json:"type"`
}

// Codec encodes and decodes signed, expiring claims with a shared secret.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec constructs a Codec from the shared secret and the configured
// access/refresh lifetimes.
func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Encode mints a token for the subject with the given lifetime and kind.
// It returns the token string together with its absolute expiry.
func (c *Codec) Encode(subject string, ttl time.Duration, kind string) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		TokenType: kind,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode parses and verifies a token string. Any failure — bad signature,
// malformed structure, unexpected algorithm, or expiry in the past —
// yields common.ErrInvalidToken; decode never panics or leaks parser
// errors across the service boundary.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// IssueAccess mints a short-lived stateless access token for the user.
func (c *Codec) IssueAccess(userID string) (string, time.Time, error) {
	return c.Encode(userID, c.accessTTL, KindAccess)
}

// IssueRefresh mints a refresh token for the user. The caller persists it
// alongside the returned expiry.
func (c *Codec) IssueRefresh(userID string) (string, time.Time, error) {
	return c.Encode(userID, c.refreshTTL, KindRefresh)
}
