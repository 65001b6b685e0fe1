package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/sqlite/gen"
	"github.com/aussiebroadwan/sessionauth/pkg/idx"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) AddUser(ctx context.Context, email, hashedPassword string) (domain.User, error) {
	if err := store.ValidateNewUser(email, hashedPassword); err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	params := gen.CreateUserParams{
		ID:             idx.New().String(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.q.CreateUser(ctx, params); err != nil {
		return domain.User{}, mapUnique(err)
	}

	return domain.User{
		ID:             params.ID,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (r *usersRepo) FindUserBy(ctx context.Context, q domain.Lookup) (domain.User, error) {
	if err := store.ValidateLookup(q); err != nil {
		return domain.User{}, err
	}

	var (
		rows []gen.User
		err  error
	)
	switch q.Field {
	case domain.FieldID:
		row, err := r.q.GetUserByID(ctx, q.Value)
		if err != nil {
			return domain.User{}, mapNotFound(err)
		}
		return mapUser(row), nil
	case domain.FieldEmail:
		rows, err = r.q.ListUsersByEmail(ctx, q.Value)
	case domain.FieldSessionID:
		rows, err = r.q.ListUsersBySessionID(ctx, sql.NullString{String: q.Value, Valid: true})
	case domain.FieldResetToken:
		rows, err = r.q.ListUsersByResetToken(ctx, sql.NullString{String: q.Value, Valid: true})
	}
	if err != nil {
		return domain.User{}, err
	}

	switch len(rows) {
	case 0:
		return domain.User{}, store.ErrNotFound
	case 1:
		return mapUser(rows[0]), nil
	default:
		return domain.User{}, store.ErrInvariantViolation
	}
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, changes domain.Changes) error {
	u, err := store.ValidateChanges(changes)
	if err != nil {
		return err
	}

	n, err := r.q.UpdateUser(ctx, gen.UpdateUserParams{
		SetHashedPassword: u.SetHashedPassword,
		HashedPassword:    u.HashedPassword,
		SetSessionID:      u.SetSessionID,
		SessionID:         mapOptionalString(u.SessionID),
		SetResetToken:     u.SetResetToken,
		ResetToken:        mapOptionalString(u.ResetToken),
		UpdatedAt:         time.Now().UTC(),
		ID:                id,
	})
	if err != nil {
		return mapUnique(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.q.CountUsers(ctx)
}
