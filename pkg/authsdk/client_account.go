package authsdk

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Register creates an account.
func (c *SDKClient) Register(ctx context.Context, email, password string) (*MessageResponse, error) {
	return c.formJSON(ctx, http.MethodPost, "/users", url.Values{
		"email":    {email},
		"password": {password},
	})
}

// Login verifies the credentials and stores the session cookie in the
// client's jar.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*MessageResponse, error) {
	return c.formJSON(ctx, http.MethodPost, "/sessions", url.Values{
		"email":    {email},
		"password": {password},
	})
}

// Logout destroys the current session. The service answers with a redirect
// or, when configured without one, a JSON message.
func (c *SDKClient) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodDelete, "/sessions", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusFound, http.StatusSeeOther:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
}

// Profile returns the account behind the current session.
func (c *SDKClient) Profile(ctx context.Context) (*ProfileResponse, error) {
	return expect[ProfileResponse](c.send(ctx, http.MethodGet, "/profile", nil))
}

// ResetPasswordToken requests a password reset token for email.
func (c *SDKClient) ResetPasswordToken(ctx context.Context, email string) (*ResetTokenResponse, error) {
	return expect[ResetTokenResponse](c.send(ctx, http.MethodPost, "/reset_password", url.Values{"email": {email}}))
}

// UpdatePassword redeems resetToken and sets newPassword.
func (c *SDKClient) UpdatePassword(ctx context.Context, email, resetToken, newPassword string) (*MessageResponse, error) {
	return c.formJSON(ctx, http.MethodPut, "/reset_password", url.Values{
		"email":        {email},
		"reset_token":  {resetToken},
		"new_password": {newPassword},
	})
}

func (c *SDKClient) formJSON(ctx context.Context, method, path string, form url.Values) (*MessageResponse, error) {
	return expect[MessageResponse](c.send(ctx, method, path, form))
}
