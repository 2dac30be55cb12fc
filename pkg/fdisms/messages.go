package fdisms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	pathSendSingle = "/api/v1/mt/single"
	pathSendBulk   = "/api/v1/mt/bulk"
)

// Message is a single mobile-terminated SMS.
type Message struct {
	// MSISDN is the destination number, passed to the API as given.
	MSISDN string
	// Text is the message body.
	Text string
	// Ref is the caller's correlation reference, echoed in delivery receipts.
	Ref string
	// SenderID overrides the originating address when set.
	SenderID string
	// CallbackURL receives delivery receipts for this message when set.
	CallbackURL string
}

func (m Message) validate() error {
	if strings.TrimSpace(m.MSISDN) == "" {
		return errors.New("fdisms: message msisdn is empty")
	}
	if m.Text == "" {
		return errors.New("fdisms: message text is empty")
	}
	if strings.TrimSpace(m.Ref) == "" {
		return errors.New("fdisms: message ref is empty")
	}
	return nil
}

// BulkMessage is one text fanned out to many destinations under a shared
// reference.
type BulkMessage struct {
	MSISDNs     []string
	Text        string
	Ref         string
	SenderID    string
	CallbackURL string
}

func (m BulkMessage) validate() error {
	if len(m.MSISDNs) == 0 {
		return errors.New("fdisms: bulk message has no destinations")
	}
	for i, msisdn := range m.MSISDNs {
		if strings.TrimSpace(msisdn) == "" {
			return fmt.Errorf("fdisms: bulk message msisdn %d is empty", i)
		}
	}
	if m.Text == "" {
		return errors.New("fdisms: bulk message text is empty")
	}
	if strings.TrimSpace(m.Ref) == "" {
		return errors.New("fdisms: bulk message ref is empty")
	}
	return nil
}

type singleSendRequest struct {
	MSISDN   string `json:"msisdn"`
	Message  string `json:"message"`
	MsgRef   string `json:"msgRef"`
	SenderID string `json:"sender_id,omitempty"`
	DLR      string `json:"dlr,omitempty"`
}

type bulkSendRequest struct {
	MSISDNs  []string `json:"msisdn"`
	Message  string   `json:"message"`
	MsgRef   string   `json:"msgRef"`
	SenderID string   `json:"sender_id,omitempty"`
	DLR      string   `json:"dlr,omitempty"`
}

// SendReport acknowledges an accepted send.
type SendReport struct {
	Success bool   `json:"success"`
	MsgRef  string `json:"msgRef,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// BulkSendReport acknowledges an accepted bulk send.
type BulkSendReport struct {
	Success  bool   `json:"success"`
	MsgRef   string `json:"msgRef,omitempty"`
	Accepted int    `json:"accepted,omitempty"`
	Rejected int    `json:"rejected,omitempty"`
	Message  string `json:"message,omitempty"`
}

// SendSingle submits one SMS for delivery.
func (c *Client) SendSingle(ctx context.Context, msg Message) (*SendReport, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}

	req := singleSendRequest{
		MSISDN:   msg.MSISDN,
		Message:  msg.Text,
		MsgRef:   msg.Ref,
		SenderID: msg.SenderID,
		DLR:      msg.CallbackURL,
	}
	raw, err := c.authorized(ctx, http.MethodPost, pathSendSingle, req)
	if err != nil {
		return nil, err
	}
	var out SendReport
	if err := decode(raw, "send", &out); err != nil {
		return nil, err
	}
	c.log.InfoObj("message submitted", "msgRef", msg.Ref)
	return &out, nil
}

// SendBulk submits one text to many destinations in a single request.
func (c *Client) SendBulk(ctx context.Context, msg BulkMessage) (*BulkSendReport, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}

	req := bulkSendRequest{
		MSISDNs:  msg.MSISDNs,
		Message:  msg.Text,
		MsgRef:   msg.Ref,
		SenderID: msg.SenderID,
		DLR:      msg.CallbackURL,
	}
	raw, err := c.authorized(ctx, http.MethodPost, pathSendBulk, req)
	if err != nil {
		return nil, err
	}
	var out BulkSendReport
	if err := decode(raw, "bulk send", &out); err != nil {
		return nil, err
	}
	c.log.InfoObj("bulk message submitted", "msgRef", msg.Ref)
	return &out, nil
}
