package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(MemoryPath)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_pragma=foreign_keys(1)&_txlock=immediate", dsn(MemoryPath))
	assert.Contains(t, dsn("auth.db"), "auth.db?")
	assert.Contains(t, dsn("auth.db"), "journal_mode(WAL)")
	assert.Contains(t, dsn("file:auth.db?mode=rwc"), "mode=rwc&_pragma")
}

func TestUsers_AddUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Users().AddUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Nil(t, u.SessionID)
	assert.Nil(t, u.ResetToken)

	got, err := s.Users().FindUserBy(ctx, domain.ByID(u.ID))
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, "hash", got.HashedPassword)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, 0)

	_, err = s.Users().AddUser(ctx, "a@x.com", "other")
	require.ErrorIs(t, err, store.ErrDuplicateEmail)

	_, err = s.Users().AddUser(ctx, "", "hash")
	require.ErrorIs(t, err, store.ErrInvalidField)

	count, err := s.Users().CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUsers_FindUserBy(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Users().AddUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	require.NoError(t, s.Users().UpdateUser(ctx, u.ID, domain.Changes{}.
		Set(domain.FieldSessionID, "sess").
		Set(domain.FieldResetToken, "reset")))

	for _, q := range []domain.Lookup{
		domain.ByID(u.ID),
		domain.ByEmail("a@x.com"),
		domain.BySessionID("sess"),
		domain.ByResetToken("reset"),
	} {
		got, err := s.Users().FindUserBy(ctx, q)
		require.NoError(t, err, q.Field)
		assert.Equal(t, u.ID, got.ID)
		require.NotNil(t, got.SessionID)
		assert.Equal(t, "sess", *got.SessionID)
	}

	_, err = s.Users().FindUserBy(ctx, domain.ByEmail("b@x.com"))
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().FindUserBy(ctx, domain.ByID("missing"))
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().FindUserBy(ctx, domain.Lookup{})
	require.ErrorIs(t, err, store.ErrInvalidQuery)

	_, err = s.Users().FindUserBy(ctx, domain.Lookup{Field: domain.FieldHashedPassword, Value: "hash"})
	require.ErrorIs(t, err, store.ErrInvalidQuery)
}

func TestUsers_FindUserBy_multipleMatches(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Simulate a corrupted table without the unique index.
	_, err := s.db.ExecContext(ctx, `DROP INDEX users_session_id_key`)
	require.NoError(t, err)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		u, err := s.Users().AddUser(ctx, email, "hash")
		require.NoError(t, err)
		require.NoError(t, s.Users().UpdateUser(ctx, u.ID, domain.Changes{}.Set(domain.FieldSessionID, "dup")))
	}

	_, err = s.Users().FindUserBy(ctx, domain.BySessionID("dup"))
	require.ErrorIs(t, err, store.ErrInvariantViolation)
}

func TestUsers_UpdateUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u, err := s.Users().AddUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)

	t.Run("applies all changes together", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateUser(ctx, u.ID, domain.Changes{}.
			Set(domain.FieldHashedPassword, "new-hash").
			Set(domain.FieldSessionID, "sess")))

		got, err := s.Users().FindUserBy(ctx, domain.ByID(u.ID))
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.HashedPassword)
		require.NotNil(t, got.SessionID)
		assert.Equal(t, "sess", *got.SessionID)
		assert.Nil(t, got.ResetToken)
	})

	t.Run("clears nullable fields", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateUser(ctx, u.ID, domain.Changes{}.Clear(domain.FieldSessionID)))

		got, err := s.Users().FindUserBy(ctx, domain.ByID(u.ID))
		require.NoError(t, err)
		assert.Nil(t, got.SessionID)
		assert.Equal(t, "new-hash", got.HashedPassword)
	})

	t.Run("rejects fields outside the updatable set", func(t *testing.T) {
		err := s.Users().UpdateUser(ctx, u.ID, domain.Changes{}.Set(domain.FieldEmail, "b@x.com"))
		require.ErrorIs(t, err, store.ErrInvalidField)

		got, err := s.Users().FindUserBy(ctx, domain.ByID(u.ID))
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", got.Email)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := s.Users().UpdateUser(ctx, "missing", domain.Changes{}.Set(domain.FieldSessionID, "x"))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("token collision", func(t *testing.T) {
		other, err := s.Users().AddUser(ctx, "b@x.com", "hash")
		require.NoError(t, err)
		require.NoError(t, s.Users().UpdateUser(ctx, other.ID, domain.Changes{}.Set(domain.FieldResetToken, "taken")))

		err = s.Users().UpdateUser(ctx, u.ID, domain.Changes{}.Set(domain.FieldResetToken, "taken"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})
}

func TestStore_WithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().AddUser(ctx, "a@x.com", "hash")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().FindUserBy(ctx, domain.ByEmail("a@x.com"))
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back")

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().AddUser(ctx, "a@x.com", "hash")
		return err
	}))

	_, err = s.Users().FindUserBy(ctx, domain.ByEmail("a@x.com"))
	require.NoError(t, err)
}

func TestStore_WithTx_serialisesWriters(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(t.TempDir() + "/auth.db")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	u, err := s.Users().AddUser(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	require.NoError(t, s.Users().UpdateUser(ctx, u.ID, domain.Changes{}.Set(domain.FieldResetToken, "reset")))

	// Each writer consumes the token only if it is still present.
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		consumed int
	)
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithTx(ctx, func(tx store.Tx) error {
				found, err := tx.Users().FindUserBy(ctx, domain.ByResetToken("reset"))
				if err != nil {
					return err
				}
				return tx.Users().UpdateUser(ctx, found.ID, domain.Changes{}.Clear(domain.FieldResetToken))
			})
			if err == nil {
				mu.Lock()
				consumed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, consumed)
}

func TestStore_Migrator(t *testing.T) {
	s, err := NewStore(t.TempDir() + "/auth.db")
	require.NoError(t, err)

	m, err := s.Migrator()
	require.NoError(t, err)

	require.NoError(t, m.Up())
	v, dirty, err := m.Version()
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	assert.False(t, dirty)

	require.NoError(t, m.Down())
	v, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, m.Close())
}
