package models

import (
	"time"
)

// Role is the closed set of permissions a user can hold. Authorization
// matches on it exhaustively; free-form role strings are rejected at the
// transport boundary.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleContributor Role = "contributor"
	RoleAttempter   Role = "attempter"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleContributor, RoleAttempter:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	Email        string `db:"email" json:"email"`
	Role         Role   `db:"role" json:"role"`
	PasswordHash []byte `db:"password_hash" json:"-"`
	// GoogleID links the user to the external identity provider's subject.
	// Empty for users registered with a local password.
	GoogleID     string    `db:"google_id" json:"google_id,omitempty"`
	TokenVersion int64     `db:"token_version" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	LastLogin    time.Time `db:"last_login" json:"last_login,omitempty"`
}
