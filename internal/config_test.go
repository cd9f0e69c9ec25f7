package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/topictree/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestSiteConfig_RequiresPaths(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Site.TopicsFile = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty topics_file should fail validation")
	}
}

func TestWatchConfig_DebounceRange(t *testing.T) {
	cfg := WatchConfig{Enabled: true, Debounce: time.Millisecond}
	if err := cfg.Validate(); err == nil {
		t.Error("1ms debounce should fail validation")
	}
	cfg.Debounce = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("zero debounce falls back to the watcher default: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("TOPICTREE_TOKEN", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `app:
  log_level: debug
  http:
    port: 9090
site:
  root: /srv/site
  topics_file: metadata/topics
  entries_dir: entries
sqlite:
  path: /tmp/topictree.db
auth:
  mode: token
  token: ${TOPICTREE_TOKEN}
watch:
  enabled: false
  debounce: 750ms
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := config.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.LogLevel != slog.LevelDebug || cfg.App.HTTP.Address() != ":9090" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Site.Root != "/srv/site" {
		t.Errorf("site = %+v", cfg.Site)
	}
	if cfg.Auth.Token != "from-env" || !cfg.Auth.AuthEnabled() {
		t.Errorf("auth = %+v", cfg.Auth)
	}
	if cfg.Watch.Enabled || cfg.Watch.Debounce != 750*time.Millisecond {
		t.Errorf("watch = %+v", cfg.Watch)
	}
}

func TestLoadConfigFile_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("vault:\n  path: ./vault\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := config.Load(path, NewDefaultConfig()); err == nil {
		t.Fatal("unknown section should be rejected")
	}
}
