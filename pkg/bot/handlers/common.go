// Package handlers implements the bot's command surface. Handlers
// validate input and permissions, then call into the match lifecycle
// and notification dispatch.
package handlers

import (
	"context"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
	"github.com/smith3v/tg-match-reminder/pkg/notify"
)

// Deps are the collaborators every handler works against, wired once
// from main.
type Deps struct {
	Manager      *match.Manager
	Dispatcher   *notify.Dispatcher
	Settings     *SettingsStore
	DefaultGuild string
}

var deps Deps

func Setup(d Deps) {
	deps = d
}

func validMessage(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.From != nil && update.Message.Chat.ID != 0
}

func reply(ctx context.Context, b *telegram.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &telegram.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send reply", "chat_id", chatID, "error", err)
	}
}

// requireAdmin rejects non-admin invokers with a message and reports
// whether the caller may proceed.
func requireAdmin(ctx context.Context, b *telegram.Bot, update *models.Update) bool {
	if deps.Settings.Get().IsAdmin(update.Message.From.ID) {
		return true
	}
	reply(ctx, b, update.Message.Chat.ID, "❌ You don't have permission to use this command.")
	return false
}

// requireAllowedChannel rejects commands sent outside the configured
// channels.
func requireAllowedChannel(ctx context.Context, b *telegram.Bot, update *models.Update) bool {
	if deps.Settings.Get().ChannelAllowed(update.Message.Chat.ID) {
		return true
	}
	reply(ctx, b, update.Message.Chat.ID, "❌ This command can only be used in allowed channels.")
	return false
}

// logActivity mirrors notable bot actions into the configured log
// channel.
func logActivity(ctx context.Context, b *telegram.Bot, originChat int64, text string) {
	logChannel := deps.Settings.Get().LogChannel
	if logChannel == 0 || logChannel == originChat {
		return
	}
	if _, err := b.SendMessage(ctx, &telegram.SendMessageParams{
		ChatID: logChannel,
		Text:   "🤖 " + text,
	}); err != nil {
		logger.Error("failed to log bot activity", "log_channel", logChannel, "error", err)
	}
}
