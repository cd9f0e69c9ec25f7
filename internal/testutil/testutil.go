// Package testutil provides shared test helpers for setting up sites and databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/topictree/internal/index"
	"github.com/starford/topictree/internal/storage"
)

// Default layout used by TestSite.
const (
	TopicsFile = "metadata/topics"
	EntriesDir = "entries"
)

// ExampleTopics is a small topic definition used across package tests.
const ExampleTopics = "Algorithms\n  Sorting\nData Structures\n"

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "topictree-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSite creates a temporary site with the given topic definition and
// entries (keyed by path relative to EntriesDir).
func TestSite(t *testing.T, topicsSrc string, entries map[string]string) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, TopicsFile, topicsSrc)
	if err := os.MkdirAll(filepath.Join(root, EntriesDir), 0o755); err != nil {
		t.Fatal(err)
	}
	for rel, content := range entries {
		WriteFile(t, root, EntriesDir+"/"+rel, content)
	}
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store
}

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Entry renders a Markdown entry with the given title and topic paths.
func Entry(title string, topicPaths ...string) string {
	s := "---\ntitle: " + title + "\n"
	if len(topicPaths) > 0 {
		s += "topics:\n"
		for _, p := range topicPaths {
			s += "  - " + p + "\n"
		}
	}
	return s + "---\n" + title + " body.\n"
}

// Logger returns a logger that discards its output.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
