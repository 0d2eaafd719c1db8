// Package testutil provides shared test helpers for setting up state
// databases and document directories.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raudvere/lectern/internal/state"
)

// TestStateDB creates a temporary SQLite state database that is
// automatically cleaned up.
func TestStateDB(t *testing.T) *state.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "lectern-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := state.Open(dbFile.Name(), TestLogger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDocsDir creates a temporary directory for Markdown documents.
func TestDocsDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// WriteDoc writes a document under dir and returns its absolute path.
func WriteDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatal(err)
	}
	return resolved
}

// TestLogger returns a logger that only surfaces errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// Eventually polls fn until it returns true or the timeout elapses.
func Eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Fatal(msg)
}
