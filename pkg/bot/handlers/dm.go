package handlers

import (
	"context"
	"fmt"
	"strings"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
	"github.com/smith3v/tg-match-reminder/pkg/notify"
)

// HandleSendDM sends an admin message to one mentioned user.
func HandleSendDM(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleSendDM")
		return
	}
	if !requireAdmin(ctx, b, update) || !requireAllowedChannel(ctx, b, update) {
		return
	}

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/senddm"))
	userIDs, _ := notify.ExtractMentions(args)
	if len(userIDs) == 0 {
		reply(ctx, b, update.Message.Chat.ID, "Please use the format: /senddm <@user> message")
		return
	}
	body := strings.TrimSpace(notify.StripMentionTokens(args))
	if body == "" {
		reply(ctx, b, update.Message.Chat.ID, "Please include a message to send.")
		return
	}

	dir := deps.Dispatcher.DirectoryFor(match.Match{Team1: args})
	if dir == nil {
		reply(ctx, b, update.Message.Chat.ID, "❌ No guild roster configured.")
		return
	}
	member, ok := dir.ResolveMember(userIDs[0])
	if !ok {
		reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ User %s not found in the roster.", userIDs[0]))
		return
	}

	result := deps.Dispatcher.Send(ctx, []notify.Member{member}, notify.Message{
		Body: "💬 Message from Server Admin:\n\n" + body,
	})
	if result.Sent == 1 {
		reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Message sent to @%s.", member.Name))
	} else {
		reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Could not message @%s (DMs may be disabled).", member.Name))
	}
	logActivity(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Admin DM to @%s: %d sent, %d failed", member.Name, result.Sent, result.Failed))
}

// HandleRoleDM sends an admin message to every member of one mentioned
// role.
func HandleRoleDM(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleRoleDM")
		return
	}
	if !requireAdmin(ctx, b, update) || !requireAllowedChannel(ctx, b, update) {
		return
	}

	args := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/roledm"))
	_, roleIDs := notify.ExtractMentions(args)
	if len(roleIDs) == 0 {
		reply(ctx, b, update.Message.Chat.ID, "Please use the format: /roledm <@&role> message")
		return
	}
	body := strings.TrimSpace(notify.StripMentionTokens(args))
	if body == "" {
		reply(ctx, b, update.Message.Chat.ID, "Please include a message to send.")
		return
	}

	dir := deps.Dispatcher.DirectoryFor(match.Match{Team1: args})
	if dir == nil {
		reply(ctx, b, update.Message.Chat.ID, "❌ No guild roster configured.")
		return
	}
	role, ok := dir.ResolveRole(roleIDs[0])
	if !ok {
		reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("❌ Role %s not found in the roster.", roleIDs[0]))
		return
	}

	result := deps.Dispatcher.Send(ctx, dir.MembersOfRole(role.ID), notify.Message{
		Body: "💬 Message from Server Admin:\n\n" + body,
	})
	reply(ctx, b, update.Message.Chat.ID, fmt.Sprintf("📨 Role message to @%s: ✅ %d sent, ❌ %d failed", role.Name, result.Sent, result.Failed))
	logActivity(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Admin DM to role @%s: %d sent, %d failed", role.Name, result.Sent, result.Failed))
}
