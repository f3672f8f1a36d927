package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	telegram "github.com/go-telegram/bot"

	"github.com/smith3v/tg-match-reminder/pkg/bot"
	"github.com/smith3v/tg-match-reminder/pkg/bot/handlers"
	"github.com/smith3v/tg-match-reminder/pkg/config"
	"github.com/smith3v/tg-match-reminder/pkg/keepalive"
	"github.com/smith3v/tg-match-reminder/pkg/logger"
	"github.com/smith3v/tg-match-reminder/pkg/match"
	"github.com/smith3v/tg-match-reminder/pkg/notify"
	"github.com/smith3v/tg-match-reminder/pkg/store"
)

func main() {
	cfg, err := config.Load("config.json")
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []telegram.Option{
		telegram.WithDefaultHandler(handlers.DefaultHandler),
	}
	b, err := telegram.New(cfg.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	guilds := notify.LoadRoster(cfg.Data.RosterFile)
	messenger := bot.NewMessenger(b, bot.DefaultTranslations)
	dispatcher := notify.NewDispatcher(messenger, guilds, time.Duration(cfg.Notify.PacingSeconds)*time.Second)

	matchesFile := store.NewFile(cfg.Data.MatchesFile, func() []match.Match { return []match.Match{} })
	manager := match.NewManager(matchesFile, dispatcher, nil)

	handlers.Setup(handlers.Deps{
		Manager:      manager,
		Dispatcher:   dispatcher,
		Settings:     handlers.NewSettingsStore(cfg.Data.SettingsFile),
		DefaultGuild: cfg.Notify.DefaultGuild,
	})

	b.RegisterHandler(telegram.HandlerTypeMessageText, "/help", telegram.MatchTypeExact, handlers.HandleHelp)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/start", telegram.MatchTypeExact, handlers.HandleHelp)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/creatematch", telegram.MatchTypePrefix, handlers.HandleCreateMatch)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/matches", telegram.MatchTypeExact, handlers.HandleMatches)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/endmatch", telegram.MatchTypePrefix, handlers.HandleEndMatch)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/matchstats", telegram.MatchTypeExact, handlers.HandleMatchStats)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/announce", telegram.MatchTypePrefix, handlers.HandleAnnounce)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/senddm", telegram.MatchTypePrefix, handlers.HandleSendDM)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/roledm", telegram.MatchTypePrefix, handlers.HandleRoleDM)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/setchannels", telegram.MatchTypePrefix, handlers.HandleSetChannels)
	b.RegisterHandler(telegram.HandlerTypeMessageText, "/setlogchannel", telegram.MatchTypePrefix, handlers.HandleSetLogChannel)
	b.RegisterHandler(telegram.HandlerTypeCallbackQueryData, bot.TranslateCallbackPrefix, telegram.MatchTypePrefix, bot.HandleTranslateCallback)

	keepalive.New(cfg.KeepAlive.Addr, cfg.KeepAlive.SelfURL).Start(ctx)

	go match.StartPeriodicScans(ctx, manager)
	go bot.DefaultTranslations.StartSweeper(ctx)

	logger.Info("Starting bot...", "guilds", len(guilds))
	b.Start(ctx)
}
