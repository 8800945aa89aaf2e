package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := Record{
		ID:          "job-1",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:      StatusDone,
		ClipCount:   3,
		CueCount:    12,
		DurationSec: 21.34,
		VideoURL:    "https://cdn.example.com/videos/job-1.mp4",
		Filename:    "job-1.mp4",
		ElapsedMS:   8421,
	}
	if err := s.Insert(ctx, &rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusDone || got.ClipCount != 3 || got.CueCount != 12 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.DurationSec != 21.34 {
		t.Errorf("DurationSec = %v, want 21.34", got.DurationSec)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(unknown) = %v, want ErrNotFound", err)
	}
}

func TestFailedJobKeepsDiagnostics(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := Record{
		ID:         "job-2",
		CreatedAt:  time.Now().UTC(),
		Status:     StatusFailed,
		ClipCount:  1,
		FailKind:   "engine",
		FailDetail: "engine failed: a referenced font is missing or unreadable",
		ElapsedMS:  350,
	}
	if err := s.Insert(ctx, &rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Get(ctx, "job-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FailKind != "engine" {
		t.Errorf("FailKind = %q, want engine", got.FailKind)
	}
	if got.FailDetail == "" {
		t.Error("FailDetail lost")
	}
	if got.VideoURL != "" {
		t.Errorf("failed job carries VideoURL %q", got.VideoURL)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		rec := Record{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			Status:    StatusDone,
			ClipCount: 1,
		}
		if err := s.Insert(ctx, &rec); err != nil {
			t.Fatalf("Insert %s: %v", id, err)
		}
	}

	recs, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("List returned %d records, want 2", len(recs))
	}
	if recs[0].ID != "new" || recs[1].ID != "mid" {
		t.Errorf("order = %s, %s; want new, mid", recs[0].ID, recs[1].ID)
	}
}

func TestListEmptyLedger(t *testing.T) {
	s := openTestStore(t)
	recs, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("List on empty ledger returned %d records", len(recs))
	}
}

func TestOpenCreatesDataDir(t *testing.T) {
	dir := t.TempDir() + "/nested/data"
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()

	// Reopen against the same file: schema application is idempotent.
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}
