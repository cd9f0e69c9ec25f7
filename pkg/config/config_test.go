package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func (s *sample) Validate() error {
	if s.Count < 0 {
		return errors.New("count must be non-negative")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "expanded")
	var s sample
	if err := Load(writeConfig(t, "name: ${SAMPLE_NAME}\ncount: 2\n"), &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "expanded" || s.Count != 2 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_KeepsDefaultsForMissingKeys(t *testing.T) {
	s := sample{Name: "default", Count: 1}
	if err := Load(writeConfig(t, "count: 5\n"), &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" || s.Count != 5 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	s := sample{Name: "default"}
	if err := Load(writeConfig(t, ""), &s); err != nil {
		t.Fatalf("empty file: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	var s sample
	if err := Load(writeConfig(t, "nmae: typo\n"), &s); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad_Validates(t *testing.T) {
	var s sample
	err := Load(writeConfig(t, "count: -1\n"), &s)
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}
