package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avicennajr/go-fdisms/internal/journal"
)

// captureStdout redirects os.Stdout for the duration of fn.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("close pipe: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(data)
}

// newGatewayServer serves the auth handshake plus the given extra routes.
func newGatewayServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"access_token":  "cli-access",
			"refresh_token": "cli-refresh",
		})
	})
	for pattern, fn := range routes {
		mux.HandleFunc(pattern, fn)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setGatewayEnv(t *testing.T, baseURL string) {
	t.Helper()
	t.Setenv("FDI_API_KEY", "ops@example.com")
	t.Setenv("FDI_API_SECRET", "hunter2")
	t.Setenv("FDI_BASE_URL", baseURL)
	t.Setenv("JOURNAL_TYPE", "none")
	t.Setenv("LOG_LEVEL", "error")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var err error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(args)
		err = rootCmd.ExecuteContext(context.Background())
	})
	return out, err
}

func TestBalanceCommand(t *testing.T) {
	srv := newGatewayServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/balance/now": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer cli-access" {
				t.Errorf("expected bearer header, got %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success":  true,
				"balance":  1250.5,
				"currency": "RWF",
			})
		},
	})
	setGatewayEnv(t, srv.URL)

	out, err := execute(t, "balance")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"balance": 1250.5`) {
		t.Fatalf("expected balance in output, got %q", out)
	}
}

func TestSendCommandJournals(t *testing.T) {
	var gotBody map[string]any
	srv := newGatewayServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/mt/single": func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("decode send body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"msgRef":  "order-77",
				"status":  "queued",
			})
		},
	})
	setGatewayEnv(t, srv.URL)

	journalPath := filepath.Join(t.TempDir(), "journal.db")
	t.Setenv("JOURNAL_TYPE", "bbolt")
	t.Setenv("JOURNAL_PATH", journalPath)

	out, err := execute(t, "send", "250788123456", "--text", "order shipped", "--ref", "order-77")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"status": "queued"`) {
		t.Fatalf("expected send report in output, got %q", out)
	}
	if gotBody["msgRef"] != "order-77" {
		t.Fatalf("expected msgRef order-77 on the wire, got %v", gotBody["msgRef"])
	}

	store, err := journal.NewStore("bbolt", journalPath, journal.Options{})
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer store.Close()

	entries, err := store.Sends(0)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].Ref != "order-77" {
		t.Fatalf("expected ref order-77, got %q", entries[0].Ref)
	}
	if entries[0].Text != "order shipped" {
		t.Fatalf("expected text preserved, got %q", entries[0].Text)
	}
}

func TestValidateCommand(t *testing.T) {
	srv := newGatewayServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/validate/msisdn": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["countryCode"] != "RW" {
				t.Errorf("expected default country RW, got %v", body["countryCode"])
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"valid":   true,
				"msisdn":  body["msisdn"],
			})
		},
	})
	setGatewayEnv(t, srv.URL)

	out, err := execute(t, "validate", "250788123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"valid": true`) {
		t.Fatalf("expected validation result, got %q", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "fdisms") {
		t.Fatalf("expected version banner, got %q", out)
	}
}
