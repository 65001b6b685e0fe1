package httpx

import "context"

type ctxKey string

const (
	CtxKeyPrincipal ctxKey = "principal"
	CtxKeySession   ctxKey = "session_id"
)

// Principal is the identity behind a session cookie.
type Principal struct {
	UserID string
	Email  string
}

// PrincipalFromContext returns the principal injected by SessionMiddleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(CtxKeyPrincipal).(Principal)
	return p, ok && p.UserID != ""
}

// SessionFromContext returns the raw session token that authenticated the
// request.
func SessionFromContext(ctx context.Context) string {
	s, _ := ctx.Value(CtxKeySession).(string)
	return s
}
