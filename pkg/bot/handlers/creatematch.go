package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/lang"
	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
	"github.com/smith3v/tg-match-reminder/pkg/notify"
)

const createMatchUsage = "Please use the format: /creatematch team1 | team2 | YYYY-MM-DD HH:MM"

const matchTimeLayout = "2006-01-02 15:04"

// HandleCreateMatch schedules a new match and announces it to every
// mentioned user and role member.
func HandleCreateMatch(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleCreateMatch")
		return
	}
	if !requireAdmin(ctx, b, update) || !requireAllowedChannel(ctx, b, update) {
		return
	}

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/creatematch"))
	parts := strings.Split(args, "|")
	if len(parts) != 3 {
		reply(ctx, b, update.Message.Chat.ID, createMatchUsage)
		return
	}
	team1 := strings.TrimSpace(parts[0])
	team2 := strings.TrimSpace(parts[1])
	rawTime := strings.TrimSpace(parts[2])
	if team1 == "" || team2 == "" {
		reply(ctx, b, update.Message.Chat.ID, createMatchUsage)
		return
	}

	when, err := time.ParseInLocation(matchTimeLayout, rawTime, time.Local)
	if err != nil {
		reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Invalid date/time %q. %s", rawTime, createMatchUsage))
		return
	}
	if !when.After(time.Now()) {
		reply(ctx, b, update.Message.Chat.ID, "❌ Match time must be in the future.")
		return
	}

	language := lang.Detect(team1 + " " + team2)
	id := deps.Manager.Create(team1, team2, when, language, update.Message.From.ID, deps.DefaultGuild)

	created := match.Match{
		ID:       id,
		Team1:    team1,
		Team2:    team2,
		Time:     match.FormatClock(when),
		Language: language,
		Creator:  update.Message.From.ID,
		Guild:    deps.DefaultGuild,
	}
	result := deps.Dispatcher.MatchCreated(ctx, created)

	dir := deps.Dispatcher.DirectoryFor(created)
	summary := fmt.Sprintf(
		"🏆 Match #%03d created!\n\nTeams: %s vs %s\nTime: %s\nReminders: 10 and 3 minutes before\nNotified: ✅ %d sent, ❌ %d failed",
		id,
		notify.RenderMentions(team1, dir),
		notify.RenderMentions(team2, dir),
		when.Format(matchTimeLayout),
		result.Sent,
		result.Failed,
	)
	reply(ctx, b, update.Message.Chat.ID, summary)
	logActivity(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Match #%03d created for %s", id, when.Format(matchTimeLayout)))
}
