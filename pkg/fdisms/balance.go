package fdisms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const pathBalanceNow = "/api/v1/balance/now"

// dateLayout is the wire format for day-scoped endpoints.
const dateLayout = "2006-01-02"

// Balance is an account balance snapshot.
type Balance struct {
	Success  bool    `json:"success"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency,omitempty"`
	Date     string  `json:"date,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// BalanceNow returns the current account balance.
func (c *Client) BalanceNow(ctx context.Context) (*Balance, error) {
	raw, err := c.authorized(ctx, http.MethodGet, pathBalanceNow, nil)
	if err != nil {
		return nil, err
	}
	var out Balance
	if err := decode(raw, "balance", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BalanceOn returns the closing balance for the given day.
func (c *Client) BalanceOn(ctx context.Context, date time.Time) (*Balance, error) {
	if date.IsZero() {
		return nil, errors.New("fdisms: balance date is zero")
	}
	path := fmt.Sprintf("/api/v1/balance/%s/closing", date.Format(dateLayout))
	raw, err := c.authorized(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out Balance
	if err := decode(raw, "balance", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
