package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

type ResetPasswordHandler struct {
	Auth *service.AuthManager
}

// HandleRequest issues a reset token.
//
//	@Summary		Request a password reset token
//	@Description	The token is returned in the response body; delivering it out of band is left to the caller.
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email	formData	string						true	"Email address"
//	@Success		200		{object}	authsdk.ResetTokenResponse
//	@Failure		400		{object}	authsdk.APIError	"missing field"
//	@Failure		403		{object}	authsdk.APIError	"unknown email"
//	@Router			/reset_password [post].
func (h *ResetPasswordHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	form, ok := requireForm(w, r, "email")
	if !ok {
		return
	}

	token, err := h.Auth.GetResetPasswordToken(r.Context(), form["email"])
	if errors.Is(err, service.ErrUserNotFound) {
		authsdk.ErrForbidden.WriteError(w)
		return
	}
	if err != nil {
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ResetTokenResponse{Email: form["email"], ResetToken: token})
}

// HandleUpdate redeems a reset token.
//
//	@Summary	Update password with a reset token
//	@Tags		Accounts
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		email			formData	string					false	"Email address, echoed back"
//	@Param		reset_token		formData	string					true	"Reset token"
//	@Param		new_password	formData	string					true	"New password"
//	@Success	200				{object}	authsdk.MessageResponse	"Password updated"
//	@Failure	400				{object}	authsdk.APIError		"missing field"
//	@Failure	403				{object}	authsdk.APIError		"invalid reset token"
//	@Router		/reset_password [put].
func (h *ResetPasswordHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	form, ok := requireForm(w, r, "reset_token", "new_password")
	if !ok {
		return
	}

	err := h.Auth.UpdatePassword(r.Context(), form["reset_token"], form["new_password"])
	if errors.Is(err, service.ErrInvalidToken) {
		authsdk.ErrForbidden.WriteError(w)
		return
	}
	if err != nil {
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Email: r.PostForm.Get("email"), Message: "Password updated"})
}
