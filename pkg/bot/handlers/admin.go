package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
)

// HandleSetChannels restricts commands to a comma-separated list of
// chat ids. "/setchannels clear" allows every chat again.
func HandleSetChannels(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleSetChannels")
		return
	}
	if !requireAdmin(ctx, b, update) {
		return
	}

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/setchannels"))
	if args == "" {
		reply(ctx, b, update.Message.Chat.ID, "Please use the format: /setchannels <id,id,...> or /setchannels clear")
		return
	}

	if strings.EqualFold(args, "clear") {
		deps.Settings.Update(func(s Settings) Settings {
			s.AllowedChannels = nil
			return s
		})
		reply(ctx, b, update.Message.Chat.ID, "✅ Channel restrictions cleared. Commands are allowed everywhere.")
		return
	}

	var channels []int64
	for _, field := range strings.Split(args, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Invalid channel id %q.", strings.TrimSpace(field)))
			return
		}
		channels = append(channels, id)
	}

	deps.Settings.Update(func(s Settings) Settings {
		s.AllowedChannels = channels
		return s
	})
	reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Commands restricted to %d channel(s).", len(channels)))
}

// HandleSetLogChannel picks the chat that receives activity logs.
func HandleSetLogChannel(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleSetLogChannel")
		return
	}
	if !requireAdmin(ctx, b, update) {
		return
	}

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/setlogchannel"))
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		reply(ctx, b, update.Message.Chat.ID, "Please use the format: /setlogchannel <chat id>")
		return
	}

	deps.Settings.Update(func(s Settings) Settings {
		s.LogChannel = id
		return s
	})
	reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Activity log channel set to %d.", id))
}
