package authsdk

// ============================================================================
// Account Types
// ============================================================================

// MessageResponse is returned by register, login, password update and the
// index route. Email is omitted where no account is involved.
type MessageResponse struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

// ProfileResponse is returned from GET /profile.
type ProfileResponse struct {
	Email string `json:"email"`
}

// ResetTokenResponse is returned from POST /reset_password.
type ResetTokenResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// ============================================================================
// System Types
// ============================================================================

// StatusResponse is returned from GET /api/v1/status.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatsResponse is returned from GET /api/v1/stats.
type StatsResponse struct {
	Users int64 `json:"users"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`
}
