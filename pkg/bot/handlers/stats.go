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
)

// HandleMatchStats summarizes the scheduled matches: totals, the next
// upcoming match, and a per-language breakdown.
func HandleMatchStats(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleMatchStats")
		return
	}
	if !requireAdmin(ctx, b, update) || !requireAllowedChannel(ctx, b, update) {
		return
	}

	matches := deps.Manager.List()

	var next time.Time
	languages := make(map[lang.Code]int, len(lang.All()))
	for _, m := range matches {
		code := m.Language
		if !lang.Valid(code) {
			code = lang.English
		}
		languages[code]++

		when, err := m.When()
		if err != nil {
			continue
		}
		if next.IsZero() || when.Before(next) {
			next = when
		}
	}

	var sb strings.Builder
	sb.WriteString("📈 Match Statistics\n")
	fmt.Fprintf(&sb, "\n📊 Total matches: %d", len(matches))
	if next.IsZero() {
		sb.WriteString("\n⏰ Next match: none")
	} else {
		fmt.Fprintf(&sb, "\n⏰ Next match: %s", next.Format(matchTimeLayout))
	}

	var breakdown []string
	for _, code := range lang.All() {
		if count := languages[code]; count > 0 {
			breakdown = append(breakdown, fmt.Sprintf("%s: %d", code, count))
		}
	}
	if len(breakdown) == 0 {
		sb.WriteString("\n🌍 Languages: no data")
	} else {
		fmt.Fprintf(&sb, "\n🌍 Languages: %s", strings.Join(breakdown, ", "))
	}

	reply(ctx, b, update.Message.Chat.ID, sb.String())
}
