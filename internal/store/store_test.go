package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"crashcourse/internal/game"
)

func run(id string, total float64, finished time.Time) game.RunResult {
	return game.RunResult{
		ID:         id,
		Scenario:   "2008 Market Simulation",
		Days:       300,
		TotalValue: total,
		FinishedAt: finished,
	}
}

func exerciseStore(t *testing.T, s ResultStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows, err := s.Top(ctx, 5)
	if err != nil {
		t.Fatalf("Top on empty store: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("empty store returned %d rows", len(rows))
	}

	for _, r := range []game.RunResult{
		run("a", 900, base),
		run("b", 1200, base.Add(time.Minute)),
		run("c", 1200, base),
		run("d", 1000, base),
	} {
		if err := s.Record(ctx, r); err != nil {
			t.Fatalf("record %s: %v", r.ID, err)
		}
	}
	if err := s.Record(ctx, run("a", 1, base)); !errors.Is(err, ErrDuplicateRun) {
		t.Fatalf("duplicate record err = %v", err)
	}

	rows, err = s.Top(ctx, 3)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	want := []string{"c", "b", "d"}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, id := range want {
		if rows[i].ID != id || rows[i].Rank != i+1 {
			t.Fatalf("row %d = %s rank %d, want %s rank %d", i, rows[i].ID, rows[i].Rank, id, i+1)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.json")
	exerciseStore(t, NewFileStore(path))

	// A second handle on the same file sees the recorded runs.
	rows, err := NewFileStore(path).Top(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("reopened store has %d rows, want 4", len(rows))
	}
}

func TestNormalizeLimit(t *testing.T) {
	tests := []struct{ in, want int }{{0, DefaultLimit}, {-4, DefaultLimit}, {3, 3}, {1000, 100}}
	for _, tc := range tests {
		if got := normalizeLimit(tc.in); got != tc.want {
			t.Fatalf("normalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		spec    string
		backend string
		arg     string
	}{
		{spec: "", backend: BackendMemory},
		{spec: "memory", backend: BackendMemory},
		{spec: "MEMORY", backend: BackendMemory},
		{spec: "file:/tmp/r.json", backend: BackendFile, arg: "/tmp/r.json"},
		{spec: "scores.json", backend: BackendFile, arg: "scores.json"},
		{spec: "postgres://u:p@localhost/crash", backend: BackendPostgres, arg: "postgres://u:p@localhost/crash"},
		{spec: "redis:6379", backend: "redis", arg: "6379"},
	}
	for _, tc := range tests {
		backend, arg := parseSpec(tc.spec)
		if backend != tc.backend || arg != tc.arg {
			t.Fatalf("parseSpec(%q) = %q, %q, want %q, %q", tc.spec, backend, arg, tc.backend, tc.arg)
		}
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, _, err := Open(context.Background(), "redis:6379"); err == nil {
		t.Fatalf("expected error for unsupported backend")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	s, backend, err := Open(context.Background(), "file:"+path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	fs, ok := s.(*FileStore)
	if !ok || backend != BackendFile || fs.Path() != path {
		t.Fatalf("Open returned %T %q", s, backend)
	}
}
