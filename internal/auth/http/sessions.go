package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/errutil"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

type SessionsHandler struct {
	Auth           *service.AuthManager
	CookieSecure   bool
	LogoutRedirect string
}

// HandleLogin checks credentials and starts a session.
//
//	@Summary		Log in
//	@Description	Sets the session_id cookie on success. Any previous session of the user is replaced.
//	@Tags			Sessions
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string					true	"Email address"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	authsdk.MessageResponse	"logged in"
//	@Failure		400			{object}	authsdk.APIError		"missing field"
//	@Failure		401			{object}	authsdk.APIError		"invalid credentials"
//	@Router			/sessions [post].
func (h *SessionsHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	form, ok := requireForm(w, r, "email", "password")
	if !ok {
		return
	}
	ctx := r.Context()

	if !h.Auth.ValidLogin(ctx, form["email"], form["password"]) {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	token, ok := h.Auth.CreateSession(ctx, form["email"])
	if !ok {
		authsdk.ErrUnauthorized.WriteError(w)
		return
	}

	http.SetCookie(w, sessionCookie(token, h.CookieSecure))
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Email: form["email"], Message: "logged in"})
}

// HandleLogout destroys the caller's session and clears the cookie.
//
//	@Summary	Log out
//	@Tags		Sessions
//	@Produce	json
//	@Success	200	{object}	authsdk.MessageResponse	"logged out, when no redirect is configured"
//	@Success	302	"redirect to the configured location"
//	@Failure	403	{object}	authsdk.APIError	"no valid session"
//	@Router		/sessions [delete].
func (h *SessionsHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	principal, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		authsdk.ErrForbidden.WriteError(w)
		return
	}

	if err := h.Auth.DestroySession(ctx, principal.UserID); err != nil {
		slogx.FromContext(ctx).Warn("failed to destroy session", "code", errutil.Code(err), "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	http.SetCookie(w, clearedSessionCookie(h.CookieSecure))
	if h.LogoutRedirect != "" {
		http.Redirect(w, r, h.LogoutRedirect, http.StatusFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "logged out"})
}

// HandleProfile returns the account behind the session cookie.
//
//	@Summary	Profile
//	@Tags		Sessions
//	@Produce	json
//	@Success	200	{object}	authsdk.ProfileResponse
//	@Failure	403	{object}	authsdk.APIError	"no valid session"
//	@Router		/profile [get].
func HandleProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		authsdk.ErrForbidden.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.ProfileResponse{Email: principal.Email})
}
