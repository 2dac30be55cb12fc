package sinks

import "time"

// Event kinds forwarded downstream.
const (
	KindDeliveryReceipt = "delivery_receipt"
	KindBalanceAlert    = "balance_alert"
)

// Receipt is a delivery report received for a submitted message.
type Receipt struct {
	MsgRef      string    `json:"msgRef"`
	MSISDN      string    `json:"msisdn,omitempty"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// BalanceAlert signals the account balance dropped below the watch threshold.
type BalanceAlert struct {
	Balance   float64 `json:"balance"`
	Currency  string  `json:"currency,omitempty"`
	Threshold float64 `json:"threshold"`
}

// Event represents the payload delivered downstream.
type Event struct {
	Kind       string        `json:"kind"`
	OccurredAt time.Time     `json:"occurred_at"`
	Receipt    *Receipt      `json:"receipt,omitempty"`
	Alert      *BalanceAlert `json:"alert,omitempty"`
}

// NewReceiptEvent wraps a delivery receipt for dispatch.
func NewReceiptEvent(r Receipt) Event {
	return Event{
		Kind:       KindDeliveryReceipt,
		OccurredAt: time.Now().UTC(),
		Receipt:    &r,
	}
}

// NewBalanceAlertEvent wraps a low-balance alert for dispatch.
func NewBalanceAlertEvent(a BalanceAlert) Event {
	return Event{
		Kind:       KindBalanceAlert,
		OccurredAt: time.Now().UTC(),
		Alert:      &a,
	}
}
