package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/smith3v/tg-match-reminder/pkg/lang"
	"github.com/smith3v/tg-match-reminder/pkg/logger"
)

const (
	TranslateCallbackPrefix = "tr:"

	// Delivered messages can be re-translated for this long; after
	// that the buttons answer with an expiry notice.
	translationTTL  = 15 * time.Minute
	sweeperInterval = time.Minute
)

type translationEntry struct {
	alternates map[lang.Code]string
	expiresAt  time.Time
}

// TranslationRegistry maps short-lived tokens to the localized
// variants of a delivered message, backing the inline translation
// buttons on DMs.
type TranslationRegistry struct {
	mu      sync.Mutex
	entries map[string]translationEntry
	now     func() time.Time
}

// NewTranslationRegistry initializes a registry with an injectable
// clock.
func NewTranslationRegistry(now func() time.Time) *TranslationRegistry {
	if now == nil {
		now = time.Now
	}
	return &TranslationRegistry{
		entries: make(map[string]translationEntry),
		now:     now,
	}
}

var DefaultTranslations = NewTranslationRegistry(nil)

func ResetDefaultTranslations(now func() time.Time) {
	DefaultTranslations = NewTranslationRegistry(now)
}

// Register stores the localized variants and returns the token to
// embed in callback data.
func (r *TranslationRegistry) Register(alternates map[lang.Code]string) string {
	token := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[token] = translationEntry{
		alternates: alternates,
		expiresAt:  r.now().Add(translationTTL),
	}
	return token
}

// Lookup returns the variants for a token while it is still alive.
func (r *TranslationRegistry) Lookup(token string) (map[lang.Code]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[token]
	if !ok || r.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.alternates, true
}

// StartSweeper drops expired entries once a minute until ctx is
// cancelled.
func (r *TranslationRegistry) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweeperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *TranslationRegistry) sweep() {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, entry := range r.entries {
		if now.After(entry.expiresAt) {
			delete(r.entries, token)
		}
	}
}

// TranslationKeyboard builds one language button per supported
// language.
func TranslationKeyboard(token string) *models.InlineKeyboardMarkup {
	row := make([]models.InlineKeyboardButton, 0, len(lang.All()))
	for _, c := range lang.All() {
		row = append(row, models.InlineKeyboardButton{
			Text:         lang.Name(c),
			CallbackData: TranslateCallbackPrefix + string(c) + ":" + token,
		})
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{row},
	}
}

// HandleTranslateCallback rewrites a delivered DM into the requested
// language when its translation token is still alive.
func HandleTranslateCallback(ctx context.Context, b *telegram.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleTranslateCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answerCallback := func(text string) {
		if callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &telegram.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer callback query", "error", err)
		}
	}

	data := strings.TrimPrefix(update.CallbackQuery.Data, TranslateCallbackPrefix)
	parts := strings.SplitN(data, ":", 2)
	if len(parts) != 2 {
		logger.Error("malformed translate callback", "data", update.CallbackQuery.Data)
		answerCallback("Unknown command")
		return
	}
	code, token := lang.Code(parts[0]), parts[1]
	if !lang.Valid(code) {
		answerCallback("Unknown language")
		return
	}

	alternates, ok := DefaultTranslations.Lookup(token)
	if !ok {
		answerCallback("This message can no longer be translated.")
		return
	}
	text, ok := alternates[code]
	if !ok {
		answerCallback("Unknown language")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil {
		logger.Error("callback query message is inaccessible", "user_id", update.CallbackQuery.From.ID)
		answerCallback("Message is not available")
		return
	}
	msg := message.Message

	answerCallback("")
	if _, err := b.EditMessageText(ctx, &telegram.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: TranslationKeyboard(token),
	}); err != nil {
		logger.Error("failed to edit message translation", "user_id", update.CallbackQuery.From.ID, "error", err)
	}
}
