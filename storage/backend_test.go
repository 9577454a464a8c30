package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// exerciseBackend runs the behaviour every backend shares
func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := backend.Read(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := backend.Write(ctx, "meetings", []byte(`[{"id":1}]`)); err != nil {
		t.Fatal(err)
	}
	if err := backend.Write(ctx, "meetings", []byte(`[{"id":2}]`)); err != nil {
		t.Fatal(err)
	}

	data, err := backend.Read(ctx, "meetings")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, []byte(`[{"id":2}]`)) {
		t.Fatalf("expected the last write, got %s", data)
	}
}

func TestMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()
	exerciseBackend(t, backend)

	if backend.Writes() != 2 {
		t.Errorf("expected 2 writes, got %d", backend.Writes())
	}
}

func TestFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	exerciseBackend(t, NewFileBackend(dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "meetings.json" {
		t.Errorf("expected only meetings.json, got %v", entries)
	}
}

func TestSQLiteBackend(t *testing.T) {
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "agora.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer backend.Close()

	exerciseBackend(t, backend)
}

func TestSQLiteBackendReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agora.db")
	ctx := context.Background()

	backend, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = backend.Write(ctx, "meetings", []byte("[]")); err != nil {
		t.Fatal(err)
	}
	backend.Close()

	backend, err = NewSQLiteBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	defer backend.Close()

	data, err := backend.Read(ctx, "meetings")
	if err != nil || string(data) != "[]" {
		t.Fatalf("expected the document to survive a reopen, got %q %v", data, err)
	}
}

func TestRedisBackend(t *testing.T) {
	address := os.Getenv("REDIS_ADDR")
	if address == "" {
		t.Skip("REDIS_ADDR not set")
	}

	backend, err := NewRedisBackend(address, "agora-test:")
	if err != nil {
		t.Fatal(err)
	}
	defer backend.Close()
	defer backend.client.Del(context.Background(), backend.key("meetings"))

	exerciseBackend(t, backend)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	for driver, want := range map[string]string{
		"":       "*storage.FileBackend",
		"file":   "*storage.FileBackend",
		"sqlite": "*storage.SQLiteBackend",
		"memory": "*storage.MemoryBackend",
	} {
		backend, err := Open(Config{Driver: driver, DataDir: filepath.Join(dir, driver)})
		if err != nil {
			t.Fatalf("%q: %v", driver, err)
		}
		if got := fmt.Sprintf("%T", backend); got != want {
			t.Errorf("%q: expected %s, got %s", driver, want, got)
		}
		backend.Close()
	}

	if _, err := Open(Config{Driver: "mongodb"}); err == nil {
		t.Error("expected an error for an unknown driver")
	}
	if _, err := Open(Config{Driver: "redis"}); err == nil {
		t.Error("expected an error without a redis address")
	}
}
