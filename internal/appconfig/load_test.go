package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("expected version %d, got %d", CurrentConfigVersion, cfg.ConfigVersion)
	}
	if cfg.API.TimeoutSeconds != 60 {
		t.Fatalf("expected default timeout, got %d", cfg.API.TimeoutSeconds)
	}
	if cfg.Workbench.Theme != "dark" {
		t.Fatalf("expected default theme, got %q", cfg.Workbench.Theme)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
api:
  base_url: https://ade.example.com
defaults:
  workspace: acme
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://ade.example.com" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.Defaults.Workspace != "acme" {
		t.Fatalf("unexpected workspace %q", cfg.Defaults.Workspace)
	}
	// Keys the file omits keep their defaults.
	if cfg.API.TimeoutSeconds != 60 {
		t.Fatalf("expected default timeout, got %d", cfg.API.TimeoutSeconds)
	}
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	path := writeConfig(t, "config_version: 99\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("ADECON_TEST_KEY", "sekrit")
	path := writeConfig(t, `
config_version: 1
api:
  base_url: https://ade.example.com
  key: $ADECON_TEST_KEY
defaults:
  workspace: $ADECON_TEST_UNSET
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Key != "sekrit" {
		t.Fatalf("expected env expansion, got %q", cfg.API.Key)
	}
	// Unset variables stay verbatim rather than collapsing to nothing.
	if cfg.Defaults.Workspace != "$ADECON_TEST_UNSET" {
		t.Fatalf("expected unset variable preserved, got %q", cfg.Defaults.Workspace)
	}
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
api:
  base_url: ade.example.com
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "base_url") {
		t.Fatalf("expected base_url error, got %v", err)
	}
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if written != path {
		t.Fatalf("unexpected path %q", written)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of written default: %v", err)
	}
	if cfg.ConfigVersion != CurrentConfigVersion {
		t.Fatalf("unexpected version %d", cfg.ConfigVersion)
	}
}
