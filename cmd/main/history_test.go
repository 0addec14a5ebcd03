package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func setupHistory(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("OpenHistory() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestHistoryRecordAndRecent(t *testing.T) {
	store := setupHistory(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	older := &Run{
		StartedAt:         base,
		InputPath:         "a.txt",
		InputBytes:        1024,
		TokenCount:        200,
		InitialTokens:     10,
		TransitionSources: 50,
		Output:            "older sentence",
		TrainDuration:     3 * time.Millisecond,
		GenerateDuration:  1 * time.Millisecond,
	}
	newer := &Run{StartedAt: base.Add(time.Minute), InputPath: "b.txt", Output: "newer sentence"}

	for _, run := range []*Run{older, newer} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
		if run.ID == "" {
			t.Fatal("Record() did not assign an ID")
		}
	}
	if older.ID == newer.ID {
		t.Error("expected distinct run IDs")
	}

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("expected newest run first, got %+v", runs[0])
	}

	got := runs[1]
	if got.InputPath != older.InputPath || got.InputBytes != older.InputBytes ||
		got.TokenCount != older.TokenCount || got.InitialTokens != older.InitialTokens ||
		got.TransitionSources != older.TransitionSources || got.Output != older.Output {
		t.Errorf("stored run differs: got %+v, want %+v", got, older)
	}
	if !got.StartedAt.Equal(older.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, older.StartedAt)
	}
	if got.TrainDuration != older.TrainDuration || got.GenerateDuration != older.GenerateDuration {
		t.Errorf("durations differ: got %v/%v", got.TrainDuration, got.GenerateDuration)
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent(1) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to be honored, got %d runs", len(limited))
	}
}

func TestHistoryDuplicateID(t *testing.T) {
	store := setupHistory(t)
	ctx := context.Background()

	run := &Run{ID: "fixed", StartedAt: time.Now(), InputPath: "x"}
	if err := store.Record(ctx, run); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if err := store.Record(ctx, run); err == nil {
		t.Error("expected an error when recording a duplicate run ID")
	}
}

func TestHistoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	store, err := OpenHistory(path, logger)
	if err != nil {
		t.Fatalf("OpenHistory() failed: %v", err)
	}
	if err = store.Record(ctx, &Run{StartedAt: time.Now(), InputPath: "x"}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	_ = store.Close()

	store, err = OpenHistory(path, logger)
	if err != nil {
		t.Fatalf("reopening history failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected the run to survive a reopen, got %d runs", len(runs))
	}
}
