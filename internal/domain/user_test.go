package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Role Validation Tests
// ============================================================================

func TestIsValidRole_ValidRoles(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleAdmin))
}

func TestIsValidRole_Invalid(t *testing.T) {
	assert.False(t, IsValidRole("unknown"))
	assert.False(t, IsValidRole(""))
	assert.False(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole("superadmin"))
}

// ============================================================================
// User Struct Tests
// ============================================================================

func TestUser_SecretsExcludedFromJSON(t *testing.T) {
	now := time.Now()
	tokenHash := "sha256-of-reset-token"
	u := User{
		ID:                     "user-1",
		Email:                  "test@example.com",
		PasswordHash:           "$2a$12$secret",
		PasswordChangedAt:      &now,
		PasswordResetTokenHash: &tokenHash,
		PasswordResetExpiresAt: &now,
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "sha256-of-reset-token")
	assert.Contains(t, string(data), "test@example.com")
}

func TestUser_HasPendingReset(t *testing.T) {
	assert.False(t, (&User{}).HasPendingReset())

	tokenHash := "hash"
	expires := time.Now().Add(10 * time.Minute)
	u := User{PasswordResetTokenHash: &tokenHash, PasswordResetExpiresAt: &expires}
	assert.True(t, u.HasPendingReset())
}

// ============================================================================
// ChangedPasswordAfter Tests
// ============================================================================

func TestChangedPasswordAfter_NeverChanged(t *testing.T) {
	u := User{}
	assert.False(t, u.ChangedPasswordAfter(time.Now()))
}

func TestChangedPasswordAfter_ChangedAfterIssuance(t *testing.T) {
	issued := time.Now()
	changed := issued.Add(5 * time.Second)
	u := User{PasswordChangedAt: &changed}
	assert.True(t, u.ChangedPasswordAfter(issued))
}

func TestChangedPasswordAfter_ChangedBeforeIssuance(t *testing.T) {
	changed := time.Now()
	issued := changed.Add(5 * time.Second)
	u := User{PasswordChangedAt: &changed}
	assert.False(t, u.ChangedPasswordAfter(issued))
}

func TestChangedPasswordAfter_SubSecondDifferenceIgnored(t *testing.T) {
	// JWT iat claims carry second precision, so a change within the same
	// second as issuance must not invalidate the token.
	issued := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	changed := issued.Add(400 * time.Millisecond)
	u := User{PasswordChangedAt: &changed}
	assert.False(t, u.ChangedPasswordAfter(issued))
}
