package handlers

import (
	"context"
	"fmt"
	"strings"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
)

const announceUsage = "Please use the format: /announce title | message"

// HandleAnnounce posts an admin announcement into the invoking chat.
func HandleAnnounce(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleAnnounce")
		return
	}
	if !requireAdmin(ctx, b, update) || !requireAllowedChannel(ctx, b, update) {
		return
	}

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/announce"))
	parts := strings.SplitN(args, "|", 2)
	if len(parts) != 2 {
		reply(ctx, b, update.Message.Chat.ID, announceUsage)
		return
	}
	title := strings.TrimSpace(parts[0])
	body := strings.TrimSpace(parts[1])
	if title == "" || body == "" {
		reply(ctx, b, update.Message.Chat.ID, announceUsage)
		return
	}

	reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("📢 %s\n\n%s", title, body))
	logActivity(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Announcement posted: %s", title))
}
