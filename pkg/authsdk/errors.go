package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/sessionauth/pkg/httpx"
)

// APIError is a non-success response. The service reports request
// problems in Message ({"message": ...}) and access problems in Code
// ({"error": ...}).
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	case e.Code != "":
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Code)
	default:
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Is matches any APIError with the same status code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.StatusCode == e.StatusCode
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, e)
}

var (
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized, Code: "Unauthorized"}
	ErrForbidden    = &APIError{StatusCode: http.StatusForbidden, Code: "Forbidden"}
	ErrNotFound     = &APIError{StatusCode: http.StatusNotFound, Code: "Not found"}

	ErrMethodNotAllowed = &APIError{StatusCode: http.StatusMethodNotAllowed, Code: "Method not allowed"}
	ErrServerError      = &APIError{StatusCode: http.StatusInternalServerError, Code: "Internal server error"}

	ErrEmailRegistered = &APIError{StatusCode: http.StatusBadRequest, Message: "email already registered"}
)

// ErrFieldRequired reports a missing form field.
func ErrFieldRequired(field string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: field + " is required"}
}

// parseErrorResponse builds an APIError from a non-success response.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	_ = json.Unmarshal(body, apiErr)
	return apiErr
}
