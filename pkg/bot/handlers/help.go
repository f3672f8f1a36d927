package handlers

import (
	"context"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
)

const helpText = `🏆 Match Reminder Bot

⚽ Match commands
/creatematch team1 | team2 | YYYY-MM-DD HH:MM — schedule a match (admin)
/matches — list scheduled matches (admin)
/endmatch <number> — end a match by its list number (admin)
/matchstats — match statistics overview (admin)

💬 Communication commands
/senddm <@user> message — DM one user (admin)
/roledm <@&role> message — DM all role members (admin)
/announce title | message — post an announcement here (admin)

⚙️ Administration commands
/setchannels <id,id,...> — restrict commands to chats (admin)
/setchannels clear — allow commands everywhere (admin)
/setlogchannel <id> — mirror activity into a chat (admin)

Mention users as <@id> and roles as <@&id> inside team names to have
them notified and reminded 10 and 3 minutes before the match.`

func HandleHelp(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleHelp")
		return
	}
	reply(ctx, b, update.Message.Chat.ID, helpText)
}

// DefaultHandler answers anything that is not a known command.
func DefaultHandler(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.Chat.ID == 0 {
		logger.Error("received invalid update in DefaultHandler")
		return
	}
	reply(ctx, b, update.Message.Chat.ID, "Say /help to see what I can do.")
}
