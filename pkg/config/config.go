package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Data      DataConfig      `json:"data"`
	Notify    NotifyConfig    `json:"notify"`
	KeepAlive KeepAliveConfig `json:"keepalive"`
	Logging   LoggingConfig   `json:"logging"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

// DataConfig names the flat JSON files the bot persists to.
type DataConfig struct {
	MatchesFile  string `json:"matches_file"`
	SettingsFile string `json:"settings_file"`
	RosterFile   string `json:"roster_file"`
}

type NotifyConfig struct {
	// DefaultGuild is the roster guild recorded on newly created matches.
	DefaultGuild string `json:"default_guild"`
	// PacingSeconds is the delay between consecutive direct messages.
	PacingSeconds int `json:"pacing_seconds"`
}

type KeepAliveConfig struct {
	Addr    string `json:"addr"`
	SelfURL string `json:"self_url"`
}

type LoggingConfig struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

// Load reads and decodes the config file, applying defaults for
// omitted data paths and pacing.
func Load(filename string) (Config, error) {
	var cfg Config

	file, err := os.Open(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config file: %w", err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Data.MatchesFile == "" {
		cfg.Data.MatchesFile = "data/matches.json"
	}
	if cfg.Data.SettingsFile == "" {
		cfg.Data.SettingsFile = "data/settings.json"
	}
	if cfg.Data.RosterFile == "" {
		cfg.Data.RosterFile = "data/roster.json"
	}
	if cfg.Notify.PacingSeconds <= 0 {
		cfg.Notify.PacingSeconds = 1
	}
	if cfg.KeepAlive.Addr == "" {
		cfg.KeepAlive.Addr = ":5000"
	}
}
