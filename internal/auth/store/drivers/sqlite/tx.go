package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/sqlite/gen"
)

// errNestedTx is returned by transaction-scoped methods that would need a
// savepoint.
var errNestedTx = errors.New("sqlite: nested transactions are not supported")

// txStore is a Store bound to one BEGIN IMMEDIATE transaction. Every repo
// it hands out shares the write lock taken at Begin.
type txStore struct {
	tx *sql.Tx
	q  *gen.Queries
}

func (t *txStore) Commit() error { return t.tx.Commit() }

// Rollback after Commit is a no-op, so callers can always defer it.
func (t *txStore) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}

func (t *txStore) Users() store.Users { return &usersRepo{q: t.q} }

func (t *txStore) Ping(context.Context) error { return nil }
func (t *txStore) Close() error               { return nil }
func (t *txStore) ApplyMigrations() error     { return nil }

func (t *txStore) Tx(context.Context) (store.Tx, error) { return nil, errNestedTx }

func (t *txStore) WithTx(context.Context, func(store.Tx) error) error { return errNestedTx }

func (t *txStore) Migrator() (*store.Migrator, error) { return nil, errNestedTx }
