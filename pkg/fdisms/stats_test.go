package fdisms

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestStats(t *testing.T) {
	srv := smsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{
			"success": true,
			"mt":      map[string]int{"sent": 120, "delivered": 110, "failed": 4, "pending": 6},
			"mo":      map[string]int{"sent": 3},
		})
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.MT.Delivered != 110 || stats.MO.Sent != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestStatsOnBuildsDatePath(t *testing.T) {
	srv := smsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/stats/2026-01-05" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"success": true, "date": "2026-01-05"})
	})
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	day := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	stats, err := c.StatsOn(context.Background(), day)
	if err != nil {
		t.Fatalf("StatsOn: %v", err)
	}
	if stats.Date != "2026-01-05" {
		t.Errorf("unexpected date %s", stats.Date)
	}
}

func TestStatsOnRejectsZeroDate(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	if _, err := c.StatsOn(context.Background(), time.Time{}); err == nil {
		t.Fatal("expected error for zero date")
	}
}
