package authsdk

import (
	"context"
	"net/http"
)

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return expect[HealthResponse](c.send(ctx, http.MethodGet, "/livez", nil))
}

// GetReadiness checks if the service can reach its database. A degraded
// service answers 503 and surfaces as an *APIError.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return expect[HealthResponse](c.send(ctx, http.MethodGet, "/readyz", nil))
}

// Index fetches the greeting served at the root.
func (c *SDKClient) Index(ctx context.Context) (*MessageResponse, error) {
	return expect[MessageResponse](c.send(ctx, http.MethodGet, "/", nil))
}

func (c *SDKClient) Status(ctx context.Context) (*StatusResponse, error) {
	return expect[StatusResponse](c.send(ctx, http.MethodGet, "/api/v1/status", nil))
}

// Stats reports the number of registered users.
func (c *SDKClient) Stats(ctx context.Context) (*StatsResponse, error) {
	return expect[StatsResponse](c.send(ctx, http.MethodGet, "/api/v1/stats", nil))
}
