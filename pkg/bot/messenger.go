// Package bot adapts the Telegram client to the notification
// boundary and hosts the translation-button plumbing.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	telegram "github.com/go-telegram/bot"

	"github.com/smith3v/tg-match-reminder/pkg/notify"
)

// Messenger delivers direct messages through the Telegram client,
// attaching translation buttons when a message carries localized
// variants.
type Messenger struct {
	b            *telegram.Bot
	translations *TranslationRegistry
}

func NewMessenger(b *telegram.Bot, translations *TranslationRegistry) *Messenger {
	return &Messenger{b: b, translations: translations}
}

func (m *Messenger) SendDirectMessage(ctx context.Context, userID string, msg notify.Message) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid recipient id %q: %w", userID, err)
	}

	params := &telegram.SendMessageParams{
		ChatID: chatID,
		Text:   msg.Body,
	}
	if m.translations != nil && len(msg.Alternates) > 1 {
		params.ReplyMarkup = TranslationKeyboard(m.translations.Register(msg.Alternates))
	}

	if _, err := m.b.SendMessage(ctx, params); err != nil {
		// Telegram answers 403 when the recipient blocked the bot or
		// never opened a chat with it.
		if strings.Contains(strings.ToLower(err.Error()), "forbidden") {
			return notify.ErrForbidden
		}
		return err
	}
	return nil
}
