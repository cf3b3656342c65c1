package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nathannncurtis/Study-Aggregator/internal/logging"
	"github.com/nathannncurtis/Study-Aggregator/internal/services"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndReadBackEvents(t *testing.T) {
	store := openTestStore(t)
	ctx := services.WithRunID(context.Background(), "run-1")

	store.RecordArchive(ctx, "/input/a.zip", "done", 12, "")
	store.RecordArchive(ctx, "/input/b.zip", "skipped_corrupted", 0, "archive unreadable")

	events, err := store.RunEvents(ctx, "run-1")
	if err != nil {
		t.Fatalf("run events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ArchivePath != "/input/a.zip" || events[0].Records != 12 {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Status != "skipped_corrupted" || events[1].Note == "" {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}

func TestRecentRunsSummarizes(t *testing.T) {
	store := openTestStore(t)

	first := services.WithRunID(context.Background(), "run-1")
	store.RecordArchive(first, "/input/a.zip", "done", 3, "")
	store.RecordArchive(first, "/input/b.zip", "failed", 0, "io error")

	second := services.WithRunID(context.Background(), "run-2")
	store.RecordArchive(second, "/input/c.zip", "done", 5, "")

	summaries, err := store.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(summaries))
	}

	byID := make(map[string]RunSummary, len(summaries))
	for _, summary := range summaries {
		byID[summary.RunID] = summary
	}
	run1 := byID["run-1"]
	if run1.Archives != 2 || run1.Records != 3 || run1.Failures != 1 {
		t.Fatalf("unexpected run-1 summary: %+v", run1)
	}
	run2 := byID["run-2"]
	if run2.Archives != 1 || run2.Records != 5 || run2.Failures != 0 {
		t.Fatalf("unexpected run-2 summary: %+v", run2)
	}
}

func TestOpenRefusesSecondLockHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	first, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	defer first.Close()

	if _, err := Open(path, logging.NewNop()); err == nil {
		t.Fatal("second open should fail while the lock is held")
	}
}

func TestReopenAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	first, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
}
