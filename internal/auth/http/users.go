package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

type UsersHandler struct {
	Auth *service.AuthManager
}

// HandleRegister creates an account.
//
//	@Summary		Register a user
//	@Tags			Accounts
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string					true	"Email address"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	authsdk.MessageResponse	"user created"
//	@Failure		400			{object}	authsdk.APIError		"missing field or email already registered"
//	@Router			/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	form, ok := requireForm(w, r, "email", "password")
	if !ok {
		return
	}

	u, err := h.Auth.RegisterUser(r.Context(), form["email"], form["password"])
	if errors.Is(err, service.ErrAlreadyExists) {
		authsdk.ErrEmailRegistered.WriteError(w)
		return
	}
	if err != nil {
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Email: u.Email, Message: "user created"})
}
