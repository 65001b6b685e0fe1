package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
)

var (
	ErrNotFound           = errors.New("store: not found")
	ErrAlreadyExists      = errors.New("store: already exists")
	ErrDuplicateEmail     = errors.New("store: duplicate email")
	ErrInvalidQuery       = errors.New("store: invalid query")
	ErrInvalidField       = errors.New("store: invalid field")
	ErrInvariantViolation = errors.New("store: invariant violation")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are reached through methods so a Tx-scoped
// Store hands out repos bound to the same transaction.
type Store interface {
	Users() Users

	// ApplyMigrations brings the schema up to date.
	ApplyMigrations() error

	// Migrator exposes fine grained schema control for the CLI.
	Migrator() (*Migrator, error)

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// AddUser inserts a user with no session and no reset token. Returns
	// ErrInvalidField for an empty email or hash and ErrDuplicateEmail when
	// the email is taken.
	AddUser(ctx context.Context, email, hashedPassword string) (domain.User, error)

	// FindUserBy returns the single user matching q. Returns ErrInvalidQuery
	// for an unsupported or empty lookup, ErrNotFound when nothing matches
	// and ErrInvariantViolation when more than one row matches.
	FindUserBy(ctx context.Context, q domain.Lookup) (domain.User, error)

	// UpdateUser applies all changes in one statement. Returns
	// ErrInvalidField for a field outside the updatable set, ErrNotFound
	// when no user has id, and ErrAlreadyExists when a new session or reset
	// token collides with another user's.
	UpdateUser(ctx context.Context, id string, changes domain.Changes) error

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int64, error)
}

// ValidateLookup checks that q names a lookup field and carries a value.
func ValidateLookup(q domain.Lookup) error {
	switch q.Field {
	case domain.FieldID, domain.FieldEmail, domain.FieldSessionID, domain.FieldResetToken:
	case "":
		return fmt.Errorf("%w: no criteria", ErrInvalidQuery)
	default:
		return fmt.Errorf("%w: unsupported field %q", ErrInvalidQuery, q.Field)
	}
	if q.Value == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidQuery, q.Field)
	}
	return nil
}

// ValidateNewUser checks the required columns of a user about to be
// inserted.
func ValidateNewUser(email, hashedPassword string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidField)
	}
	if hashedPassword == "" {
		return fmt.Errorf("%w: hashed_password is required", ErrInvalidField)
	}
	return nil
}

// UserUpdate is a validated set of changes with explicit presence flags,
// ready to bind to an UPDATE statement.
type UserUpdate struct {
	SetHashedPassword bool
	HashedPassword    string
	SetSessionID      bool
	SessionID         *string
	SetResetToken     bool
	ResetToken        *string
}

// ValidateChanges checks changes against the updatable field set and
// flattens them into a UserUpdate. An empty change set is rejected, as is
// clearing hashed_password.
func ValidateChanges(changes domain.Changes) (UserUpdate, error) {
	var u UserUpdate
	if len(changes) == 0 {
		return u, fmt.Errorf("%w: no changes", ErrInvalidField)
	}

	for field, value := range changes {
		switch field {
		case domain.FieldHashedPassword:
			if value == nil || *value == "" {
				return u, fmt.Errorf("%w: hashed_password cannot be empty", ErrInvalidField)
			}
			u.SetHashedPassword, u.HashedPassword = true, *value
		case domain.FieldSessionID:
			u.SetSessionID, u.SessionID = true, nonEmpty(value)
		case domain.FieldResetToken:
			u.SetResetToken, u.ResetToken = true, nonEmpty(value)
		default:
			return u, fmt.Errorf("%w: %q", ErrInvalidField, field)
		}
	}
	return u, nil
}

// nonEmpty treats "" like nil so an empty token can never be stored and
// later matched.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
