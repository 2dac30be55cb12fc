package journal

import (
	"testing"
	"time"
)

func TestBoltJournalRecordsSendsInOrder(t *testing.T) {
	dir := t.TempDir()
	storeRaw, err := openBolt(dir+"/journal.db", normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer storeRaw.Close()

	base := time.Date(2026, time.August, 20, 10, 0, 0, 0, time.UTC)
	for i, ref := range []string{"ref-a", "ref-b", "ref-c"} {
		err := storeRaw.RecordSend(Entry{
			Ref:     ref,
			MSISDNs: []string{"250781234567"},
			Text:    "hello",
			SentAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordSend %s: %v", ref, err)
		}
	}

	entries, err := storeRaw.Sends(2)
	if err != nil {
		t.Fatalf("Sends: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Ref != "ref-c" || entries[1].Ref != "ref-b" {
		t.Errorf("expected most recent first, got %s then %s", entries[0].Ref, entries[1].Ref)
	}

	all, err := storeRaw.Sends(0)
	if err != nil {
		t.Fatalf("Sends all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 entries, got %d", len(all))
	}
}

func TestBoltJournalRejectsEmptyRef(t *testing.T) {
	dir := t.TempDir()
	storeRaw, err := openBolt(dir+"/journal.db", normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer storeRaw.Close()

	if err := storeRaw.RecordSend(Entry{Text: "hi"}); err == nil {
		t.Fatal("expected error for empty ref")
	}
}

func TestBoltJournalMarksAndExpiresReceipts(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		ReceiptTTL:      1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(dir+"/journal.db", opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltJournal)
	defer store.Close()

	seen, err := store.SeenReceipt("ref-1|DELIVRD")
	if err != nil || seen {
		t.Fatalf("expected unseen receipt, seen=%v err=%v", seen, err)
	}

	if err := store.MarkReceipt("ref-1|DELIVRD"); err != nil {
		t.Fatalf("MarkReceipt: %v", err)
	}

	seen, err = store.SeenReceipt("ref-1|DELIVRD")
	if err != nil || !seen {
		t.Fatalf("expected receipt marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenReceipt("ref-1|DELIVRD")
	if err != nil {
		t.Fatalf("SeenReceipt after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected mark to expire and be removed")
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.RecordSend(Entry{Ref: "x"}); err != nil {
		t.Fatalf("noop store RecordSend: %v", err)
	}
	if err := store.MarkReceipt("x"); err != nil {
		t.Fatalf("noop store MarkReceipt: %v", err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatal("expected error for unsupported journal type")
	}
}
