package fdisms

import (
	"context"
	"net/http"
)

const pathStatus = "/api/v1/status"

// HealthStatus reports service availability.
type HealthStatus struct {
	Success bool   `json:"success"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// Health checks the service status endpoint. It needs no credentials and
// never touches the token state.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	raw, err := c.open(ctx, http.MethodGet, pathStatus, nil)
	if err != nil {
		return nil, err
	}
	var out HealthStatus
	if err := decode(raw, "status", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
