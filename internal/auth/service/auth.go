package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aussiebroadwan/sessionauth/internal/auth/domain"
	"github.com/aussiebroadwan/sessionauth/internal/auth/metrics"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
	"github.com/aussiebroadwan/sessionauth/pkg/errutil"
	"github.com/aussiebroadwan/sessionauth/pkg/idx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

var (
	ErrAlreadyExists = errors.New("user already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidToken  = errors.New("invalid reset token")
	ErrEmailRequired = errors.New("email is required")
)

// Operation names used for spans and metrics.
const (
	OpRegisterUser          = "register_user"
	OpValidLogin            = "valid_login"
	OpCreateSession         = "create_session"
	OpGetUserFromSession    = "get_user_from_session_id"
	OpDestroySession        = "destroy_session"
	OpGetResetPasswordToken = "get_reset_password_token"
	OpUpdatePassword        = "update_password"
)

// dummyPassword is hashed once and verified against when the email is
// unknown, so a failed login costs the same whether or not the user exists.
const dummyPassword = "correct horse battery staple"

var tracer = otel.Tracer("github.com/aussiebroadwan/sessionauth/internal/auth/service")

// AuthManager owns the account lifecycle: registration, credential checks,
// sessions and password reset. Session and reset tokens are handed to the
// caller in the clear and stored only as fingerprints.
type AuthManager struct {
	Store   store.Store
	Hasher  cryptox.PasswordHasher
	Tokens  cryptox.TokenGenerator
	Metrics *metrics.Metrics

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthManager wires an AuthManager. A nil tokens generator defaults to
// 256-bit random tokens; m may be nil.
func NewAuthManager(s store.Store, h cryptox.PasswordHasher, tokens cryptox.TokenGenerator, m *metrics.Metrics) *AuthManager {
	if tokens == nil {
		tokens = cryptox.RandomTokens{Size: cryptox.TokenSize256}
	}
	return &AuthManager{
		Store:   s,
		Hasher:  h,
		Tokens:  tokens,
		Metrics: m,
	}
}

// RegisterUser hashes password and creates the account.
func (a *AuthManager) RegisterUser(ctx context.Context, email, password string) (domain.User, error) {
	ctx, span := a.start(ctx, OpRegisterUser)
	defer span.End()

	if email == "" {
		a.reject(span, OpRegisterUser)
		return domain.User{}, ErrEmailRequired
	}

	hashed, err := a.Hasher.Hash(password)
	if err != nil {
		return domain.User{}, a.fail(ctx, span, OpRegisterUser, oops.Code("HASH_FAILED").Wrap(err))
	}

	u, err := a.Store.Users().AddUser(ctx, email, hashed)
	if errors.Is(err, store.ErrInvalidField) {
		a.reject(span, OpRegisterUser)
		return domain.User{}, ErrEmailRequired
	}
	if errors.Is(err, store.ErrDuplicateEmail) {
		slogx.FromContext(ctx).Warn("registration for existing email", slog.String("email", email))
		a.reject(span, OpRegisterUser)
		return domain.User{}, ErrAlreadyExists
	}
	if err != nil {
		return domain.User{}, a.fail(ctx, span, OpRegisterUser, storeFailure(OpRegisterUser, err))
	}

	span.SetAttributes(attribute.String("user.id", u.ID))
	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID))
	a.Metrics.RecordOperation(OpRegisterUser, metrics.OutcomeSuccess)
	return u, nil
}

// ValidLogin reports whether password matches the account for email.
func (a *AuthManager) ValidLogin(ctx context.Context, email, password string) bool {
	ctx, span := a.start(ctx, OpValidLogin)
	defer span.End()

	u, err := a.Store.Users().FindUserBy(ctx, domain.ByEmail(email))
	if err != nil {
		if !noMatch(err) {
			_ = a.fail(ctx, span, OpValidLogin, storeFailure(OpValidLogin, err))
		} else {
			a.reject(span, OpValidLogin)
		}
		a.Hasher.Verify(password, a.dummy())
		return false
	}

	if !a.Hasher.Verify(password, u.HashedPassword) {
		slogx.FromContext(ctx).Warn("invalid password", slog.String("user_id", u.ID))
		a.reject(span, OpValidLogin)
		return false
	}

	a.Metrics.RecordOperation(OpValidLogin, metrics.OutcomeSuccess)
	return true
}

// CreateSession starts a fresh session for email, replacing any previous
// one. It returns the session token to hand to the client.
func (a *AuthManager) CreateSession(ctx context.Context, email string) (string, bool) {
	ctx, span := a.start(ctx, OpCreateSession)
	defer span.End()

	u, err := a.Store.Users().FindUserBy(ctx, domain.ByEmail(email))
	if err != nil {
		if !noMatch(err) {
			_ = a.fail(ctx, span, OpCreateSession, storeFailure(OpCreateSession, err))
		} else {
			a.reject(span, OpCreateSession)
		}
		return "", false
	}

	token, err := a.Tokens.Generate()
	if err != nil {
		_ = a.fail(ctx, span, OpCreateSession, oops.Code("TOKEN_GENERATION_FAILED").Wrap(err))
		return "", false
	}

	err = a.Store.Users().UpdateUser(ctx, u.ID, domain.Changes{}.
		Set(domain.FieldSessionID, cryptox.FingerprintToken(token)))
	if err != nil {
		_ = a.fail(ctx, span, OpCreateSession, storeFailure(OpCreateSession, err))
		return "", false
	}

	slogx.FromContext(ctx).Info("session created", slog.String("user_id", u.ID))
	a.Metrics.RecordOperation(OpCreateSession, metrics.OutcomeSuccess)
	return token, true
}

// GetUserFromSessionID resolves a session token to its user.
func (a *AuthManager) GetUserFromSessionID(ctx context.Context, sessionID string) (domain.User, bool) {
	ctx, span := a.start(ctx, OpGetUserFromSession)
	defer span.End()

	if sessionID == "" {
		a.reject(span, OpGetUserFromSession)
		return domain.User{}, false
	}

	u, err := a.Store.Users().FindUserBy(ctx, domain.BySessionID(cryptox.FingerprintToken(sessionID)))
	if err != nil {
		if !noMatch(err) {
			_ = a.fail(ctx, span, OpGetUserFromSession, storeFailure(OpGetUserFromSession, err))
		} else {
			a.reject(span, OpGetUserFromSession)
		}
		return domain.User{}, false
	}

	a.Metrics.RecordOperation(OpGetUserFromSession, metrics.OutcomeSuccess)
	return u, true
}

// DestroySession logs the user out. Unknown users, including ids that are
// not well-formed, are ignored.
func (a *AuthManager) DestroySession(ctx context.Context, userID string) error {
	ctx, span := a.start(ctx, OpDestroySession)
	defer span.End()

	if _, err := idx.Parse(userID); err != nil {
		a.Metrics.RecordOperation(OpDestroySession, metrics.OutcomeSuccess)
		return nil
	}

	err := a.Store.Users().UpdateUser(ctx, userID, domain.Changes{}.Clear(domain.FieldSessionID))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return a.fail(ctx, span, OpDestroySession, storeFailure(OpDestroySession, err))
	}

	a.Metrics.RecordOperation(OpDestroySession, metrics.OutcomeSuccess)
	return nil
}

// GetResetPasswordToken issues a new reset token for email, replacing any
// pending one.
func (a *AuthManager) GetResetPasswordToken(ctx context.Context, email string) (string, error) {
	ctx, span := a.start(ctx, OpGetResetPasswordToken)
	defer span.End()

	u, err := a.Store.Users().FindUserBy(ctx, domain.ByEmail(email))
	if noMatch(err) {
		a.reject(span, OpGetResetPasswordToken)
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", a.fail(ctx, span, OpGetResetPasswordToken, storeFailure(OpGetResetPasswordToken, err))
	}

	token, err := a.Tokens.Generate()
	if err != nil {
		return "", a.fail(ctx, span, OpGetResetPasswordToken, oops.Code("TOKEN_GENERATION_FAILED").Wrap(err))
	}

	err = a.Store.Users().UpdateUser(ctx, u.ID, domain.Changes{}.
		Set(domain.FieldResetToken, cryptox.FingerprintToken(token)))
	if err != nil {
		return "", a.fail(ctx, span, OpGetResetPasswordToken, storeFailure(OpGetResetPasswordToken, err))
	}

	slogx.FromContext(ctx).Info("reset token issued", slog.String("user_id", u.ID))
	a.Metrics.RecordOperation(OpGetResetPasswordToken, metrics.OutcomeSuccess)
	return token, nil
}

// UpdatePassword consumes resetToken and sets the new password. The new
// hash and the cleared token are written in one update inside a
// transaction, so a token can be redeemed at most once.
func (a *AuthManager) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	ctx, span := a.start(ctx, OpUpdatePassword)
	defer span.End()

	if resetToken == "" {
		a.reject(span, OpUpdatePassword)
		return ErrInvalidToken
	}

	hashed, err := a.Hasher.Hash(newPassword)
	if err != nil {
		return a.fail(ctx, span, OpUpdatePassword, oops.Code("HASH_FAILED").Wrap(err))
	}

	fingerprint := cryptox.FingerprintToken(resetToken)
	var userID string
	err = a.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().FindUserBy(ctx, domain.ByResetToken(fingerprint))
		if err != nil {
			return err
		}
		userID = u.ID
		return tx.Users().UpdateUser(ctx, u.ID, domain.Changes{}.
			Set(domain.FieldHashedPassword, hashed).
			Clear(domain.FieldResetToken))
	})
	if errors.Is(err, store.ErrNotFound) {
		a.reject(span, OpUpdatePassword)
		return ErrInvalidToken
	}
	if err != nil {
		return a.fail(ctx, span, OpUpdatePassword, storeFailure(OpUpdatePassword, err))
	}

	slogx.FromContext(ctx).Info("password updated", slog.String("user_id", userID))
	a.Metrics.RecordOperation(OpUpdatePassword, metrics.OutcomeSuccess)
	return nil
}

// CountUsers returns the number of registered accounts.
func (a *AuthManager) CountUsers(ctx context.Context) (int64, error) {
	n, err := a.Store.Users().CountUsers(ctx)
	if err != nil {
		return 0, storeFailure("count_users", err)
	}
	return n, nil
}

func (a *AuthManager) dummy() string {
	a.dummyOnce.Do(func() {
		h, err := a.Hasher.Hash(dummyPassword)
		if err != nil {
			slog.Default().Error("failed to hash dummy password", slog.Any("error", err))
			return
		}
		a.dummyHash = h
	})
	return a.dummyHash
}

func (a *AuthManager) start(ctx context.Context, op string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "AuthManager."+op)
	return slogx.With(ctx, slog.String("operation", op)), span
}

func (a *AuthManager) reject(span trace.Span, op string) {
	span.SetAttributes(attribute.Bool("auth.rejected", true))
	a.Metrics.RecordOperation(op, metrics.OutcomeRejected)
}

// fail records an unexpected error on the span, log and metrics and returns
// it unchanged.
func (a *AuthManager) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	errutil.LogError(ctx, slogx.FromContext(ctx), op+" failed", err)
	a.Metrics.RecordOperation(op, metrics.OutcomeError)
	return err
}

// noMatch reports whether a lookup failed because nothing can match, either
// no row or a lookup value the store refuses such as an empty email.
func noMatch(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidQuery)
}

func storeFailure(op string, err error) error {
	return oops.Code("STORE_FAILURE").With("operation", op).Wrap(err)
}
