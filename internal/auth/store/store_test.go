package store

import (
	"testing"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestValidateLookup(t *testing.T) {
	tests := []struct {
		name    string
		lookup  domain.Lookup
		wantErr error
	}{
		{"by id", domain.ByID("01HQ"), nil},
		{"by email", domain.ByEmail("a@x.com"), nil},
		{"by session", domain.BySessionID("fp"), nil},
		{"by reset token", domain.ByResetToken("fp"), nil},
		{"empty criteria", domain.Lookup{}, ErrInvalidQuery},
		{"unsupported field", domain.Lookup{Field: domain.FieldHashedPassword, Value: "x"}, ErrInvalidQuery},
		{"unknown field", domain.Lookup{Field: "nickname", Value: "x"}, ErrInvalidQuery},
		{"empty value", domain.ByEmail(""), ErrInvalidQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLookup(tt.lookup)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateNewUser(t *testing.T) {
	require.NoError(t, ValidateNewUser("a@x.com", "hash"))
	require.ErrorIs(t, ValidateNewUser("", "hash"), ErrInvalidField)
	require.ErrorIs(t, ValidateNewUser("a@x.com", ""), ErrInvalidField)
}

func TestValidateChanges(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		u, err := ValidateChanges(domain.Changes{}.
			Set(domain.FieldHashedPassword, "hash").
			Set(domain.FieldSessionID, "sess").
			Clear(domain.FieldResetToken))
		require.NoError(t, err)

		require.True(t, u.SetHashedPassword)
		require.Equal(t, "hash", u.HashedPassword)
		require.True(t, u.SetSessionID)
		require.Equal(t, "sess", *u.SessionID)
		require.True(t, u.SetResetToken)
		require.Nil(t, u.ResetToken)
	})

	t.Run("untouched fields are not flagged", func(t *testing.T) {
		u, err := ValidateChanges(domain.Changes{}.Clear(domain.FieldSessionID))
		require.NoError(t, err)
		require.False(t, u.SetHashedPassword)
		require.False(t, u.SetResetToken)
		require.True(t, u.SetSessionID)
	})

	t.Run("empty token is stored as null", func(t *testing.T) {
		u, err := ValidateChanges(domain.Changes{}.Set(domain.FieldResetToken, ""))
		require.NoError(t, err)
		require.Nil(t, u.ResetToken)
	})

	tests := []struct {
		name    string
		changes domain.Changes
	}{
		{"nil changes", nil},
		{"empty changes", domain.Changes{}},
		{"email is immutable", domain.Changes{}.Set(domain.FieldEmail, "b@x.com")},
		{"id is immutable", domain.Changes{}.Set(domain.FieldID, "other")},
		{"unknown field", domain.Changes{}.Set("is_admin", "true")},
		{"cleared password", domain.Changes{}.Clear(domain.FieldHashedPassword)},
		{"empty password", domain.Changes{}.Set(domain.FieldHashedPassword, "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateChanges(tt.changes)
			require.ErrorIs(t, err, ErrInvalidField)
		})
	}
}
