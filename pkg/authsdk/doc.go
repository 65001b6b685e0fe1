/*
Package authsdk provides a Go client for the session authentication service
and the response types shared with its HTTP handlers.

# Overview

SDKClient wraps an http.Client with a cookie jar, so the session cookie set
by Login is replayed on later calls until Logout clears it:

	client := authsdk.NewSDKClient("http://localhost:8080")

	if _, err := client.Register(ctx, "bob@example.com", "hunter2"); err != nil {
		return err
	}
	if _, err := client.Login(ctx, "bob@example.com", "hunter2"); err != nil {
		return err
	}

	profile, err := client.Profile(ctx)

Password reset is a two step flow. The token is returned directly; a real
deployment would deliver it out of band:

	reset, err := client.ResetPasswordToken(ctx, "bob@example.com")
	_, err = client.UpdatePassword(ctx, "bob@example.com", reset.ResetToken, "correct horse")

# Error Handling

Non-success responses are returned as *APIError. Compare with the
predefined errors using errors.Is, which matches on status code:

	if errors.Is(err, authsdk.ErrForbidden) {
		// no session, or the session was replaced by a newer login
	}
*/
package authsdk
