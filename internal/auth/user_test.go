// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CineScope Contributors

package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope/internal/auth"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with default role", func(t *testing.T) {
		user, err := auth.NewUser("a@x.com", "$argon2id$digest", "Ada", "Lovelace")
		require.NoError(t, err)
		assert.Equal(t, auth.RoleUser, user.Role)
		assert.Equal(t, "a@x.com", user.Email)
		assert.NotZero(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := auth.NewUser("not-an-email", "$argon2id$digest", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty hash", func(t *testing.T) {
		_, err := auth.NewUser("a@x.com", "", "", "")
		assert.Error(t, err)
	})
}

func TestPublicProjectionOmitsDigest(t *testing.T) {
	user, err := auth.NewUser("a@x.com", "$argon2id$digest", "Ada", "Lovelace")
	require.NoError(t, err)

	pub := user.Public()
	assert.Equal(t, user.ID.String(), pub.ID)
	assert.Equal(t, user.Email, pub.Email)
	assert.Equal(t, user.Role, pub.Role)

	// The serialized projection must never leak the digest.
	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "argon2id")
	assert.NotContains(t, string(raw), "password")
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "user@example.com", false},
		{"valid with subdomain", "user@mail.example.com", false},
		{"empty", "", true},
		{"missing at", "userexample.com", true},
		{"missing domain", "user@", true},
		{"missing tld", "user@example", true},
		{"spaces", "us er@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Run("accepts reasonable password", func(t *testing.T) {
		assert.NoError(t, auth.ValidatePassword("correcthorse1"))
	})

	t.Run("rejects short password", func(t *testing.T) {
		assert.Error(t, auth.ValidatePassword("short"))
	})

	t.Run("rejects overlong password", func(t *testing.T) {
		long := make([]byte, auth.MaxPasswordLength+1)
		for i := range long {
			long[i] = 'a'
		}
		assert.Error(t, auth.ValidatePassword(string(long)))
	})
}

func TestRoleValid(t *testing.T) {
	assert.True(t, auth.RoleUser.Valid())
	assert.True(t, auth.RoleAdmin.Valid())
	assert.False(t, auth.Role("superuser").Valid())
	assert.False(t, auth.Role("").Valid())
}
