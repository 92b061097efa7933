package domain

import (
	"time"
)

// User represents a registered user in the system.
//
// PasswordHash and the reset-token fields are write-only secrets: they are
// never serialized into API responses.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`

	// PasswordChangedAt is set whenever the password is established or
	// changed after registration. Tokens issued before it are stale.
	PasswordChangedAt *time.Time `json:"-"`

	// PasswordResetTokenHash and PasswordResetExpiresAt are both set while a
	// reset token is outstanding, and both nil otherwise.
	PasswordResetTokenHash *string    `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token-issuance time. Both sides are compared at second precision
// because JWT iat claims carry no sub-second information.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt.Truncate(time.Second))
}

// HasPendingReset reports whether a reset token is outstanding on this user.
func (u *User) HasPendingReset() bool {
	return u.PasswordResetTokenHash != nil && u.PasswordResetExpiresAt != nil
}
