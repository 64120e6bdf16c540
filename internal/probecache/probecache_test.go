package probecache

import (
	"context"
	"path/filepath"
	"testing"

	"loom/internal/media/audioinfo"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "probes.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	info := audioinfo.Info{SampleRate: 16000, Channels: 1, NumSamples: 48000}
	if err := store.Put(ctx, "/corpus/a.wav", 96044, 1700000000, info); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := store.Get(ctx, "/corpus/a.wav", 96044, 1700000000)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.SampleRate != 16000 || got.Channels != 1 || got.NumSamples != 48000 {
		t.Fatalf("unexpected info: %+v", got)
	}
	if got.Duration != 3.0 {
		t.Fatalf("Duration = %v, want 3.0", got.Duration)
	}
}

func TestStoreMissOnUnknownPath(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Get(context.Background(), "/corpus/missing.wav", 1, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected cache miss")
	}
}

func TestStoreMissOnChangedFile(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	info := audioinfo.Info{SampleRate: 8000, Channels: 2, NumSamples: 8000}
	if err := store.Put(ctx, "/corpus/b.wav", 100, 1700000000, info); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "/corpus/b.wav", 200, 1700000000); ok {
		t.Fatal("size change should miss")
	}
	if _, ok, _ := store.Get(ctx, "/corpus/b.wav", 100, 1700000999); ok {
		t.Fatal("mtime change should miss")
	}
}

func TestPutEvictsStaleRows(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	old := audioinfo.Info{SampleRate: 8000, Channels: 1, NumSamples: 4000}
	if err := store.Put(ctx, "/corpus/c.wav", 100, 1700000000, old); err != nil {
		t.Fatalf("Put old: %v", err)
	}
	updated := audioinfo.Info{SampleRate: 16000, Channels: 1, NumSamples: 16000}
	if err := store.Put(ctx, "/corpus/c.wav", 200, 1700000500, updated); err != nil {
		t.Fatalf("Put updated: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "/corpus/c.wav", 100, 1700000000); ok {
		t.Fatal("stale row survived rewrite")
	}
	got, ok, err := store.Get(ctx, "/corpus/c.wav", 200, 1700000500)
	if err != nil || !ok {
		t.Fatalf("Get updated: ok=%v err=%v", ok, err)
	}
	if got.SampleRate != 16000 {
		t.Fatalf("SampleRate = %d, want 16000", got.SampleRate)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "probes.db")
	ctx := context.Background()

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	info := audioinfo.Info{SampleRate: 44100, Channels: 2, NumSamples: 44100}
	if err := store.Put(ctx, "/corpus/d.wav", 500, 1700001000, info); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	_, ok, err := reopened.Get(ctx, "/corpus/d.wav", 500, 1700001000)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if !ok {
		t.Fatal("entry did not survive reopen")
	}
}
