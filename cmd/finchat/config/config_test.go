package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ServerURL == "" {
		t.Fatal("default server URL must not be empty")
	}
	if cfg.Theme != "light" {
		t.Errorf("default theme = %q, want light", cfg.Theme)
	}
	if cfg.HeartbeatSeconds <= 0 {
		t.Errorf("default heartbeat = %d, want positive", cfg.HeartbeatSeconds)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with no config file: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("Load = %+v, want defaults", cfg)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	want := Config{
		ServerURL:        "ws://budget.local:9001/ws/chat",
		Theme:            "dark",
		HeartbeatSeconds: 10,
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Saved under the project-local directory.
	if _, err := os.Stat(filepath.Join(dir, ".finchat", "config.json")); err != nil {
		t.Fatalf("config file not written locally: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != want {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.MkdirAll(filepath.Join(dir, ".finchat"), 0755); err != nil {
		t.Fatal(err)
	}
	raw := []byte(`{"theme": "dark"}`)
	if err := os.WriteFile(filepath.Join(dir, ".finchat", "config.json"), raw, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.Theme)
	}
	if cfg.ServerURL != DefaultConfig().ServerURL {
		t.Errorf("unset server URL should keep the default, got %q", cfg.ServerURL)
	}
}

func TestEnvOverridesServerURL(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("FINCHAT_SERVER_URL", "ws://override:8000/ws/chat")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "ws://override:8000/ws/chat" {
		t.Errorf("env override ignored, got %q", cfg.ServerURL)
	}
}
