package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/pkg/authsdk"
	"github.com/aussiebroadwan/sessionauth/pkg/errutil"
	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
	"github.com/aussiebroadwan/sessionauth/pkg/slogx"
)

// HandleIndex godoc
//
//	@Summary	Greeting
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	authsdk.MessageResponse
//	@Router		/ [get].
func HandleIndex(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "Bienvenue"})
}

// HandleStatus godoc
//
//	@Summary	API status
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	authsdk.StatusResponse
//	@Router		/api/v1/status [get].
func HandleStatus(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.StatusResponse{Status: "OK"})
}

// StatsHandler godoc
//
//	@Summary	Account statistics
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	authsdk.StatsResponse
//	@Failure	500	{object}	authsdk.APIError
//	@Router		/api/v1/stats [get].
func StatsHandler(auth *service.AuthManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := auth.CountUsers(r.Context())
		if err != nil {
			errutil.LogError(r.Context(), slogx.FromContext(r.Context()), "stats failed", err)
			authsdk.ErrServerError.WriteError(w)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, authsdk.StatsResponse{Users: n})
	}
}
