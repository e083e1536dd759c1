package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestAppendAndRecentRoundTrip(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	rec := Record{
		CycleID:          "cycle-1",
		StartedAt:        started,
		FinishedAt:       started.Add(42 * time.Second),
		NewVideo:         true,
		VideoID:          "abc123",
		VideoTitle:       "Weekly Update",
		TranscriptChars:  9001,
		SummaryGenerated: true,
		NotificationSent: true,
		Message:          "processed video: Weekly Update",
	}
	if err := j.Append(ctx, rec); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records", len(records))
	}
	got := records[0]
	if got.CycleID != rec.CycleID || got.VideoID != rec.VideoID || got.TranscriptChars != rec.TranscriptChars {
		t.Fatalf("got %+v, want %+v", got, rec)
	}
	if !got.StartedAt.Equal(rec.StartedAt) {
		t.Fatalf("started at %v, want %v", got.StartedAt, rec.StartedAt)
	}
	if !got.SummaryGenerated || !got.NotificationSent || !got.NewVideo {
		t.Fatalf("boolean fields lost: %+v", got)
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := Record{
			CycleID:    string(rune('a' + i)),
			StartedAt:  time.Now().UTC(),
			FinishedAt: time.Now().UTC(),
			Message:    "no new videos since last check",
		}
		if err := j.Append(ctx, rec); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].CycleID != "e" || records[2].CycleID != "c" {
		t.Fatalf("unexpected order: %q %q %q", records[0].CycleID, records[1].CycleID, records[2].CycleID)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	_ = second.Close()
}
