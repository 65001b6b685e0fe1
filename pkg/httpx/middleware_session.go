package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// SessionResolver maps an opaque session token to the principal that owns
// it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (Principal, bool)
}

// SessionMiddleware reads the session token from the named cookie and
// resolves it. Requests without a cookie or with an unknown session are
// rejected with 403 {"error":"Forbidden"}.
func SessionMiddleware(cookieName string, res SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				WriteError(w, http.StatusForbidden, "")
				return
			}

			principal, ok := res.ResolveSession(ctx, cookie.Value)
			if !ok {
				slogx.FromContext(ctx).Debug("session rejected")
				WriteError(w, http.StatusForbidden, "")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyPrincipal, principal)
			ctx = context.WithValue(ctx, CtxKeySession, cookie.Value)
			ctx = slogx.With(ctx, "user_id", principal.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
