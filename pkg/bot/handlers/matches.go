package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
	"github.com/smith3v/tg-match-reminder/pkg/notify"
)

// HandleMatches lists the scheduled matches with their display
// numbers, which are what /endmatch takes.
func HandleMatches(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleMatches")
		return
	}
	if !requireAdmin(ctx, b, update) || !requireAllowedChannel(ctx, b, update) {
		return
	}

	matches := deps.Manager.List()
	if len(matches) == 0 {
		reply(ctx, b, update.Message.Chat.ID, "📋 No matches scheduled.")
		return
	}

	var sb strings.Builder
	sb.WriteString("⏰ Scheduled matches:\n")
	for i, m := range matches {
		dir := deps.Dispatcher.DirectoryFor(m)
		when := m.Time
		if parsed, err := m.When(); err == nil {
			when = parsed.Format(matchTimeLayout)
		}
		fmt.Fprintf(&sb, "\n%d. 🏅 %s vs %s — %s",
			i+1,
			notify.RenderMentions(m.Team1, dir),
			notify.RenderMentions(m.Team2, dir),
			when,
		)
		if m.Reminders.TenMinute || m.Reminders.ThreeMinute {
			sb.WriteString(" (reminded)")
		}
	}
	sb.WriteString("\n\nUse /endmatch <number> to end one.")
	reply(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleEndMatch removes a match by its display number.
func HandleEndMatch(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleEndMatch")
		return
	}
	if !requireAdmin(ctx, b, update) || !requireAllowedChannel(ctx, b, update) {
		return
	}

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/endmatch"))
	number, err := strconv.Atoi(args)
	if err != nil || number < 1 {
		reply(ctx, b, update.Message.Chat.ID, "Please use the format: /endmatch <number> (see /matches)")
		return
	}

	removed, err := deps.Manager.End(number)
	if err != nil {
		if errors.Is(err, match.ErrNotFound) {
			reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Match %d not found. Check /matches for current numbers.", number))
			return
		}
		logger.Error("failed to end match", "number", number, "error", err)
		reply(ctx, b, update.Message.Chat.ID, "Failed to end the match. Please try again later.")
		return
	}

	dir := deps.Dispatcher.DirectoryFor(removed)
	reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Match ended: %s vs %s",
		notify.RenderMentions(removed.Team1, dir),
		notify.RenderMentions(removed.Team2, dir),
	))
	logActivity(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Match #%03d ended", removed.ID))
}
