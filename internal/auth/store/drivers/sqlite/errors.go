package sqlite

import (
	"errors"
	"strings"

	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// mapUnique converts a UNIQUE constraint failure into the matching store
// error. Anything else is returned unchanged.
func mapUnique(err error) error {
	var se *moderncsqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	if se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return err
	}
	if strings.Contains(se.Error(), "users.email") {
		return store.ErrDuplicateEmail
	}
	return store.ErrAlreadyExists
}
