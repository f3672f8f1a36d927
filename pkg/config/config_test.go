package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSuccess(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	content := `{
		"telegram": {
			"token": "test-token"
		},
		"data": {
			"matches_file": "state/matches.json"
		},
		"notify": {
			"default_guild": "main",
			"pacing_seconds": 2
		},
		"keepalive": {
			"addr": ":8080"
		}
	}`

	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Telegram.Token != "test-token" {
		t.Errorf("expected token to be test-token, got %q", cfg.Telegram.Token)
	}
	if cfg.Data.MatchesFile != "state/matches.json" {
		t.Errorf("unexpected matches file: %q", cfg.Data.MatchesFile)
	}
	if cfg.Notify.DefaultGuild != "main" {
		t.Errorf("unexpected default guild: %q", cfg.Notify.DefaultGuild)
	}
	if cfg.Notify.PacingSeconds != 2 {
		t.Errorf("expected pacing 2, got %d", cfg.Notify.PacingSeconds)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte(`{"telegram":{"token":"x"}}`), 0o600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Data.MatchesFile != "data/matches.json" {
		t.Errorf("expected default matches file, got %q", cfg.Data.MatchesFile)
	}
	if cfg.Data.SettingsFile != "data/settings.json" {
		t.Errorf("expected default settings file, got %q", cfg.Data.SettingsFile)
	}
	if cfg.Notify.PacingSeconds != 1 {
		t.Errorf("expected default pacing 1, got %d", cfg.Notify.PacingSeconds)
	}
	if cfg.KeepAlive.Addr != ":5000" {
		t.Errorf("expected default keepalive addr, got %q", cfg.KeepAlive.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error when loading a missing config file")
	}
}
