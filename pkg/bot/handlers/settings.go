package handlers

import (
	"slices"

	"github.com/smith3v/tg-match-reminder/pkg/store"
)

// Settings is the admin-managed runtime configuration. It is loaded
// from its file on demand and changed only through the set commands,
// never mutated as ambient state.
type Settings struct {
	AdminIDs        []int64 `json:"admin_ids"`
	AllowedChannels []int64 `json:"allowed_channels"`
	LogChannel      int64   `json:"log_channel"`
}

// IsAdmin reports whether the user may run administrative commands.
func (s Settings) IsAdmin(userID int64) bool {
	return slices.Contains(s.AdminIDs, userID)
}

// ChannelAllowed reports whether a chat may host bot commands. An
// empty list allows every chat.
func (s Settings) ChannelAllowed(chatID int64) bool {
	if len(s.AllowedChannels) == 0 {
		return true
	}
	return slices.Contains(s.AllowedChannels, chatID)
}

// SettingsStore wraps the settings file behind the store's serialized
// handle.
type SettingsStore struct {
	file *store.File[Settings]
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{file: store.NewFile(path, func() Settings { return Settings{} })}
}

func (s *SettingsStore) Get() Settings {
	return s.file.Load()
}

func (s *SettingsStore) Update(fn func(Settings) Settings) {
	s.file.Update(func(current Settings) (Settings, bool) {
		return fn(current), true
	})
}
