package http

import (
	"context"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

// sessionResolver adapts AuthManager to httpx.SessionResolver.
type sessionResolver struct {
	auth *service.AuthManager
}

func (s sessionResolver) ResolveSession(ctx context.Context, token string) (httpx.Principal, bool) {
	u, ok := s.auth.GetUserFromSessionID(ctx, token)
	if !ok {
		return httpx.Principal{}, false
	}
	return httpx.Principal{UserID: u.ID, Email: u.Email}, true
}
