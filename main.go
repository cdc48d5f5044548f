package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"btcbot/internal/bot"
	"btcbot/internal/config"
	"btcbot/internal/format"
	"btcbot/internal/logging"
	"btcbot/internal/presence"
	"btcbot/internal/upbit"
	"btcbot/modules/crypto"
	"btcbot/modules/quote"
)

// Bot parameters
var (
	GuildID        = flag.String("guild", "", "Test guild ID. If not passed - bot registers commands globally")
	ConfigPath     = flag.String("config", "config.yaml", "Path to the YAML config file")
	RemoveCommands = flag.Bool("rmcmd", true, "Remove all commands after shutdowning or not")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*ConfigPath)
	if err != nil {
		log.Fatalf("Cannot start: %v", err)
	}

	logging.Init(cfg.Logging.Level, cfg.Logging.File)
	defer logging.Close()

	slog.Info("Bot starting up...",
		slog.String("market", cfg.Ticker.Market),
		slog.Duration("presence_interval", cfg.Presence.Interval),
		slog.Bool("access_control", cfg.AccessControlEnabled()),
		slog.Bool("quotes", cfg.QuotesEnabled()),
	)

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		slog.Error("Invalid bot parameters", slog.Any("error", err))
		os.Exit(1)
	}

	source := upbit.NewClient(cfg.Ticker.URL, cfg.Ticker.Market, cfg.Ticker.Timeout)
	svc := bot.NewService(source, bot.Options{
		DefaultPremium: cfg.Commands.DefaultPremium,
		AllowedGuildID: cfg.Commands.AllowedGuildID,
		Quotes:         cfg.Commands.Quotes,
		PremiumMode:    format.PremiumMode(cfg.Display.PremiumMode),
		CurrencyUnit:   cfg.Display.CurrencyUnit,
	})

	updater := presence.NewUpdater(
		svc.Quote,
		func(price decimal.Decimal) string { return svc.StatusText(price, cfg.Presence.ExchangeLabel) },
		s,
		cfg.Presence.Interval,
	)

	// Register command handlers
	commands := append([]*discordgo.ApplicationCommand{}, crypto.CryptoCommand...)
	crypto.RegisterCryptoHandler(s, svc)
	if cfg.QuotesEnabled() {
		commands = append(commands, quote.QuoteCommand...)
		quote.RegisterQuoteHandler(s, svc)
	}

	s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Logged in", slog.String("user", r.User.Username+"#"+r.User.Discriminator))
		updater.Ready()
	})
	s.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
		slog.Warn("Gateway disconnected, waiting for reconnect")
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		updater.Run(ctx)
	}()

	if err := s.Open(); err != nil {
		slog.Error("Cannot open the session", slog.Any("error", err))
		os.Exit(1)
	}
	defer s.Close()

	slog.Info("Adding commands...")
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commands))
	for _, v := range commands {
		cmd, err := s.ApplicationCommandCreate(s.State.User.ID, *GuildID, v)
		if err != nil {
			slog.Error("Cannot create command", slog.String("command", v.Name), slog.Any("error", err))
			continue
		}
		registeredCommands = append(registeredCommands, cmd)
		slog.Info("Added command", slog.String("command", v.Name), slog.String("description", v.Description))
	}

	slog.Info("Bot is now running. Press CTRL-C to exit.")
	<-ctx.Done()

	updater.Closed()
	<-loopDone

	if *RemoveCommands {
		slog.Info("Removing commands...")
		for _, v := range registeredCommands {
			if err := s.ApplicationCommandDelete(s.State.User.ID, *GuildID, v.ID); err != nil {
				slog.Error("Cannot delete command", slog.String("command", v.Name), slog.Any("error", err))
			}
		}
	}

	slog.Info("Gracefully shutting down.")
}
