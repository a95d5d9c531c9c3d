package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTopScoresOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	records := []Score{
		{Username: "ann", Score: 12, Layout: "dvorak", CreatedAt: base},
		{Username: "bob", Score: 40, Layout: "qwerty", CreatedAt: base.Add(time.Minute)},
		{Username: "cid", Score: 12, Layout: "dvorak", CreatedAt: base.Add(-time.Minute)},
		{Username: "dee", Score: 3, Layout: "qwerty", CreatedAt: base},
	}
	for _, r := range records {
		if _, err := s.RecordScore(ctx, r); err != nil {
			t.Fatalf("RecordScore: %v", err)
		}
	}

	top, err := s.TopScores(ctx, 3)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	want := []string{"bob", "cid", "ann"}
	if len(top) != len(want) {
		t.Fatalf("got %d scores, want %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].Username != name {
			t.Errorf("rank %d = %s, want %s", i+1, top[i].Username, name)
		}
	}
}

func TestRecordScoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	created := time.UnixMilli(time.Now().UnixMilli())

	id, err := s.RecordScore(ctx, Score{
		Username:  "eve",
		Score:     77,
		Mistakes:  3,
		Speed:     3,
		Layout:    "dvorak",
		Duration:  95 * time.Second,
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("RecordScore: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero id")
	}

	top, err := s.TopScores(ctx, 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("got %d scores, want 1", len(top))
	}
	got := top[0]
	if got.ID != id || got.Score != 77 || got.Mistakes != 3 || got.Speed != 3 ||
		got.Layout != "dvorak" || got.Duration != 95*time.Second || !got.CreatedAt.Equal(created) {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "scores.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}
