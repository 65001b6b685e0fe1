package domain

import "time"

type User struct {
	ID             string
	Email          string
	HashedPassword string  // PHC argon2id or bcrypt encoding
	SessionID      *string // fingerprint of the active session token, nil when logged out
	ResetToken     *string // fingerprint of the pending reset token, nil when none
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Field names a user column that can be looked up or updated.
type Field string

const (
	FieldID             Field = "id"
	FieldEmail          Field = "email"
	FieldHashedPassword Field = "hashed_password"
	FieldSessionID      Field = "session_id"
	FieldResetToken     Field = "reset_token"
)

// Lookup selects a single user by one field.
type Lookup struct {
	Field Field
	Value string
}

func ByID(id string) Lookup                 { return Lookup{Field: FieldID, Value: id} }
func ByEmail(email string) Lookup           { return Lookup{Field: FieldEmail, Value: email} }
func BySessionID(sessionID string) Lookup   { return Lookup{Field: FieldSessionID, Value: sessionID} }
func ByResetToken(resetToken string) Lookup { return Lookup{Field: FieldResetToken, Value: resetToken} }

// Changes maps updatable fields to their new values. A nil value clears a
// nullable column. Only hashed_password, session_id and reset_token are
// accepted by the store.
type Changes map[Field]*string

// Set returns c with field set to value. A nil c is allocated.
func (c Changes) Set(field Field, value string) Changes {
	if c == nil {
		c = make(Changes, 1)
	}
	c[field] = &value
	return c
}

// Clear returns c with field set to NULL. A nil c is allocated.
func (c Changes) Clear(field Field) Changes {
	if c == nil {
		c = make(Changes, 1)
	}
	c[field] = nil
	return c
}
