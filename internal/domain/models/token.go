package models

import "time"

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionPayload is the decoded contents of an access token. The token
// itself is the whole session record: there is no server-side session
// table to consult.
type SessionPayload struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	GoogleID  string    `json:"google_id,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RefreshPayload is the decoded contents of a refresh token. TokenVersion
// is compared against the per-user counter on refresh, so bumping the
// counter invalidates every outstanding refresh token at once.
type RefreshPayload struct {
	UserID       int64     `json:"user_id"`
	Email        string    `json:"email"`
	TokenVersion int64     `json:"token_version"`
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}
