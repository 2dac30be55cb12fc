package journal

import (
	"fmt"
	"strings"
	"time"
)

// Package journal provides local persistence for submitted messages and
// delivery-receipt deduplication.

// Entry is one accepted submission.
type Entry struct {
	Ref     string    `json:"ref"`
	MSISDNs []string  `json:"msisdns"`
	Text    string    `json:"text"`
	Status  string    `json:"status,omitempty"`
	Bulk    bool      `json:"bulk,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// Store persists send entries and receipt-dedupe marks.
type Store interface {
	Close() error
	RecordSend(e Entry) error
	// Sends returns entries most recent first. limit <= 0 returns all.
	Sends(limit int) ([]Entry, error)
	SeenReceipt(key string) (bool, error)
	MarkReceipt(key string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ReceiptTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultReceiptTTL      = 5 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured journal backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ReceiptTTL <= 0 {
		opts.ReceiptTTL = defaultReceiptTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                     { return nil }
func (noopStore) RecordSend(Entry) error           { return nil }
func (noopStore) Sends(int) ([]Entry, error)       { return nil, nil }
func (noopStore) SeenReceipt(string) (bool, error) { return false, nil }
func (noopStore) MarkReceipt(string) error         { return nil }
