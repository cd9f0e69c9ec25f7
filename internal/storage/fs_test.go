package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempSite(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs, dir
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRead(t *testing.T) {
	s, root := tempSite(t)
	writeFile(t, root, "metadata/topics", "Algorithms\n")
	got, err := s.Read("metadata/topics")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "Algorithms\n" {
		t.Errorf("content = %q", got)
	}
}

func TestRead_Missing(t *testing.T) {
	s, _ := tempSite(t)
	_, err := s.Read("nope.md")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestList(t *testing.T) {
	s, root := tempSite(t)
	writeFile(t, root, "entries/b.md", "b")
	writeFile(t, root, "entries/a.md", "a")
	writeFile(t, root, "entries/sub/c.md", "c")
	writeFile(t, root, "entries/readme.txt", "not md")
	writeFile(t, root, "entries/.hidden/d.md", "hidden")

	items, err := s.List("entries")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var paths []string
	for _, it := range items {
		paths = append(paths, it.Path)
	}
	want := []string{"entries/a.md", "entries/b.md", "entries/sub/c.md"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
	if items[0].Checksum != Checksum([]byte("a")) {
		t.Errorf("checksum = %q", items[0].Checksum)
	}
}

func TestList_MissingDir(t *testing.T) {
	s, _ := tempSite(t)
	items, err := s.List("entries")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %v", items)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s, _ := tempSite(t)
	for _, p := range []string{"../../etc/passwd", "../outside.md", "/etc/shadow"} {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if _, err := s.List(p); err == nil {
			t.Errorf("expected error listing %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "topictree-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
