package fdisms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const pathStats = "/api/v1/stats"

// DirectionStats aggregates message counts for one traffic direction.
type DirectionStats struct {
	Sent      int `json:"sent"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Pending   int `json:"pending"`
}

// TrafficStats summarizes MT and MO traffic for a period.
type TrafficStats struct {
	Success bool           `json:"success"`
	Date    string         `json:"date,omitempty"`
	MT      DirectionStats `json:"mt"`
	MO      DirectionStats `json:"mo"`
	Message string         `json:"message,omitempty"`
}

// Stats returns the running traffic summary for the account.
func (c *Client) Stats(ctx context.Context) (*TrafficStats, error) {
	raw, err := c.authorized(ctx, http.MethodGet, pathStats, nil)
	if err != nil {
		return nil, err
	}
	var out TrafficStats
	if err := decode(raw, "stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatsOn returns the traffic summary for one day.
func (c *Client) StatsOn(ctx context.Context, date time.Time) (*TrafficStats, error) {
	if date.IsZero() {
		return nil, errors.New("fdisms: stats date is zero")
	}
	path := fmt.Sprintf("%s/%s", pathStats, date.Format(dateLayout))
	raw, err := c.authorized(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out TrafficStats
	if err := decode(raw, "stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
