package dlr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avicennajr/go-fdisms/internal/sinks"
)

// Package dlr receives delivery receipts pushed by the messaging gateway,
// drops duplicates and forwards the rest downstream.

// Dispatcher fans a receipt event out to the configured sinks.
type Dispatcher interface {
	Deliver(ctx context.Context, evt sinks.Event) (int, error)
	Size() int
}

// receiptLog is the journal subset the server needs for deduplication.
type receiptLog interface {
	SeenReceipt(key string) (bool, error)
	MarkReceipt(key string) error
}

// receiptEnvelope is the payload the gateway posts to the callback URL.
type receiptEnvelope struct {
	MsgRef      string `json:"msgRef"`
	MSISDN      string `json:"msisdn"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// Server owns the underlying http.Server instance.
type Server struct {
	http  *http.Server
	store receiptLog
	out   Dispatcher
	log   sinks.Logger
}

// New creates the receipt listener bound to the given address.
func New(addr string, store receiptLog, out Dispatcher, log sinks.Logger) *Server {
	s := &Server{
		store: store,
		out:   out,
		log:   log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /dlr", s.handleReceipt)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start runs the HTTP server and blocks until ListenAndServe returns.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests to complete until the given context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown receipt listener: %w", err)
	}
	return <-errCh
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request) {
	var env receiptEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	env.MsgRef = strings.TrimSpace(env.MsgRef)
	env.Status = strings.TrimSpace(env.Status)
	if env.MsgRef == "" || env.Status == "" {
		respondError(w, http.StatusBadRequest, "msgRef and status are required")
		return
	}

	key := env.MsgRef + "|" + env.Status
	seen, err := s.store.SeenReceipt(key)
	if err != nil {
		s.log.ErrorObj("receipt dedupe lookup failed", "dlr_error", map[string]any{
			"msgRef": env.MsgRef, "error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "receipt lookup failed")
		return
	}
	if seen {
		respondJSON(w, http.StatusOK, map[string]any{"success": true, "duplicate": true})
		return
	}

	evt := sinks.NewReceiptEvent(sinks.Receipt{
		MsgRef:      env.MsgRef,
		MSISDN:      env.MSISDN,
		Status:      env.Status,
		Description: env.Description,
		ReceivedAt:  parseTimestamp(env.Timestamp),
	})

	delivered, err := s.out.Deliver(r.Context(), evt)
	if err != nil {
		if delivered == 0 && s.out.Size() > 0 {
			// Nothing took the event; leave it unmarked so a gateway retry
			// gets another chance.
			s.log.ErrorObj("receipt forwarding failed", "dlr_error", map[string]any{
				"msgRef": env.MsgRef, "error": err.Error(),
			})
			respondError(w, http.StatusBadGateway, "receipt forwarding failed")
			return
		}
		s.log.WarnObj("receipt forwarded partially", "dlr_partial", map[string]any{
			"msgRef": env.MsgRef, "delivered": delivered, "error": err.Error(),
		})
	}

	if err := s.store.MarkReceipt(key); err != nil {
		s.log.ErrorObj("receipt mark failed", "dlr_error", map[string]any{
			"msgRef": env.MsgRef, "error": err.Error(),
		})
	}

	s.log.InfoObj("receipt accepted", "dlr_receipt", map[string]any{
		"msgRef": env.MsgRef, "status": env.Status, "delivered": delivered,
	})
	respondJSON(w, http.StatusAccepted, map[string]any{"success": true})
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Now().UTC()
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]any{"success": false, "error": msg})
}
