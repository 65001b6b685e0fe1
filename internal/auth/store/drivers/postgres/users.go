package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/idx"
)

const userColumns = `id, email, hashed_password, session_id, reset_token, created_at, updated_at`

// lookupQueries selects at most two rows so a broken uniqueness invariant
// is detected without scanning the table.
var lookupQueries = map[domain.Field]string{
	domain.FieldID:         `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 2`,
	domain.FieldEmail:      `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 2`,
	domain.FieldSessionID:  `SELECT ` + userColumns + ` FROM users WHERE session_id = $1 LIMIT 2`,
	domain.FieldResetToken: `SELECT ` + userColumns + ` FROM users WHERE reset_token = $1 LIMIT 2`,
}

const updateUserQuery = `
	UPDATE users
	SET hashed_password = CASE WHEN $1::boolean THEN $2 ELSE hashed_password END,
	    session_id      = CASE WHEN $3::boolean THEN $4 ELSE session_id END,
	    reset_token     = CASE WHEN $5::boolean THEN $6 ELSE reset_token END,
	    updated_at      = $7
	WHERE id = $8
`

type usersRepo struct {
	db querier
}

func (r *usersRepo) AddUser(ctx context.Context, email, hashedPassword string) (domain.User, error) {
	if err := store.ValidateNewUser(email, hashedPassword); err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:             idx.New().String(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, u.HashedPassword, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapPgError(err)
	}
	return u, nil
}

func (r *usersRepo) FindUserBy(ctx context.Context, q domain.Lookup) (domain.User, error) {
	if err := store.ValidateLookup(q); err != nil {
		return domain.User{}, err
	}

	rows, err := r.db.Query(ctx, lookupQueries[q.Field], q.Value)
	if err != nil {
		return domain.User{}, err
	}
	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return domain.User{}, err
	}

	switch len(users) {
	case 0:
		return domain.User{}, store.ErrNotFound
	case 1:
		return users[0], nil
	default:
		return domain.User{}, store.ErrInvariantViolation
	}
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, changes domain.Changes) error {
	u, err := store.ValidateChanges(changes)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, updateUserQuery,
		u.SetHashedPassword, u.HashedPassword,
		u.SetSessionID, u.SessionID,
		u.SetResetToken, u.ResetToken,
		time.Now().UTC(), id,
	)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanUser(row pgx.CollectableRow) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.HashedPassword,
		&u.SessionID,
		&u.ResetToken,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, store.ErrNotFound
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, err
}
