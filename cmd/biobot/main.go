package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/beeper/slack-biobot/pkg/biobot"
	"github.com/beeper/slack-biobot/pkg/bioconfig"
	"github.com/beeper/slack-biobot/pkg/biostore"
	"github.com/beeper/slack-biobot/pkg/slackbridge"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, environment overrides)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
		With().Timestamp().Logger()

	cfg, err := bioconfig.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Bot.LogLevel); err == nil {
		log = log.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	store, err := biostore.Open(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open bio database")
	}
	defer store.Close()

	slackClient := slackbridge.New(cfg.Slack.BotToken, cfg.Slack.AppToken, cfg.Slack.Debug, log)
	selfID, err := slackClient.Connect(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Connection failed")
	}
	log.Info().Msg("BioBot connected and running!")

	engine := biobot.NewEngine(biobot.EngineOpts{
		Transport:    slackClient,
		Files:        slackClient,
		Store:        store,
		SelfID:       selfID,
		Organization: cfg.Bot.Organization,
		PollInterval: cfg.Bot.PollInterval,
		Log:          log,
	})
	if err := engine.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Engine exited with error")
	}
}
