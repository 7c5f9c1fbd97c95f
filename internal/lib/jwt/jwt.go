package jwt

import (
	"time"

	"github.com/Jairamjavv/quizda-v2-sub000/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Both kinds are signed with the same secret, so each carries a typ claim
// and each verifier rejects the other kind.
const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

type accessClaims struct {
	UserID   int64       `json:"uid"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	GoogleID string      `json:"gid,omitempty"`
	Kind     string      `json:"typ"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID       int64  `json:"uid"`
	Email        string `json:"email"`
	TokenVersion int64  `json:"tv"`
	Kind         string `json:"typ"`
	jwt.RegisteredClaims
}

// Codec mints and verifies the two token kinds. Tokens are HMAC-SHA256
// signed with a server-held secret; a token that does not verify is
// indistinguishable from a malformed one to callers.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return NewCodecWithClock(secret, time.Now)
}

// NewCodecWithClock fixes the clock used for stamping and expiry checks.
func NewCodecWithClock(secret []byte, now func() time.Time) *Codec {
	return &Codec{
		secret: secret,
		now:    now,
	}
}

// IssueAccessToken stamps issued-at and a fixed 15 minute expiry.
func (c *Codec) IssueAccessToken(user models.User) (string, error) {
	now := c.now()

	claims := accessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		GoogleID: user.GoogleID,
		Kind:     tokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// IssueRefreshToken stamps issued-at and a fixed 7 day expiry. The user's
// current token version is embedded so the whole generation can be
// invalidated by bumping the stored counter.
func (c *Codec) IssueRefreshToken(user models.User) (string, error) {
	now := c.now()

	claims := refreshClaims{
		UserID:       user.ID,
		Email:        user.Email,
		TokenVersion: user.TokenVersion,
		Kind:         tokenKindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// VerifyAccessToken decodes and authenticates a candidate access token.
// Malformed, tampered and expired tokens all come back as ok=false; no
// error ever reaches the caller, it branches on the boolean.
func (c *Codec) VerifyAccessToken(raw string) (models.SessionPayload, bool) {
	var claims accessClaims

	token, err := jwt.ParseWithClaims(raw, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuedAt(),
	)
	if err != nil || !token.Valid {
		return models.SessionPayload{}, false
	}

	if claims.Kind != tokenKindAccess {
		return models.SessionPayload{}, false
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return models.SessionPayload{}, false
	}

	// now == exp counts as expired
	if !c.now().Before(claims.ExpiresAt.Time) {
		return models.SessionPayload{}, false
	}

	return models.SessionPayload{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		GoogleID:  claims.GoogleID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}

// VerifyRefreshToken is the 7 day counterpart of VerifyAccessToken.
func (c *Codec) VerifyRefreshToken(raw string) (models.RefreshPayload, bool) {
	var claims refreshClaims

	token, err := jwt.ParseWithClaims(raw, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuedAt(),
	)
	if err != nil || !token.Valid {
		return models.RefreshPayload{}, false
	}

	if claims.Kind != tokenKindRefresh {
		return models.RefreshPayload{}, false
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return models.RefreshPayload{}, false
	}

	if !c.now().Before(claims.ExpiresAt.Time) {
		return models.RefreshPayload{}, false
	}

	return models.RefreshPayload{
		UserID:       claims.UserID,
		Email:        claims.Email,
		TokenVersion: claims.TokenVersion,
		IssuedAt:     claims.IssuedAt.Time,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, true
}

func (c *Codec) keyFunc(_ *jwt.Token) (interface{}, error) {
	return c.secret, nil
}
