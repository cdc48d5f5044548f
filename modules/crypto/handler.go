package crypto

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"btcbot/internal/bot"
	"btcbot/internal/logging"

	"github.com/bwmarrin/discordgo"
)

const commandTimeout = 15 * time.Second

// Handler answers /btc, /to_krw and /to_btc.
type Handler struct {
	svc *bot.Service
}

// RegisterCryptoHandler adds the crypto command handler to the session.
func RegisterCryptoHandler(session *discordgo.Session, svc *bot.Service) {
	h := &Handler{svc: svc}
	session.AddHandler(h.handleCommand)
}

func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !isCryptoCommand(i) {
		return
	}

	data := i.ApplicationCommandData()

	// Defer the response first to avoid interaction timeout
	if err := acknowledgeInteraction(s, i); err != nil {
		slog.Error("Failed to acknowledge interaction", slog.String("command", data.Name), slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	content, err := h.reply(ctx, i.GuildID, data.Name, data.Options)

	user := getUser(i)
	outcome := "ok"
	if err != nil {
		outcome = err.Error()
	}
	logging.LogCommand(data.Name, user.ID, user.Username, i.GuildID, outcome)

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		slog.Error("Failed to send reply", slog.String("command", data.Name), slog.Any("error", err))
	}
}

// reply checks access, runs the command and renders the reply. On error the
// returned content is the user-facing error message.
func (h *Handler) reply(ctx context.Context, guildID, name string, options []*discordgo.ApplicationCommandInteractionDataOption) (string, error) {
	if err := h.svc.Authorize(guildID); err != nil {
		return bot.ErrorMessage(err), err
	}

	opts := optionMap(options)

	switch name {
	case "btc":
		price, err := h.svc.Quote(ctx)
		if err != nil {
			return bot.ErrorMessage(err), err
		}
		return h.svc.PriceMessage(price), nil

	case "to_krw":
		sats, ok := opts["sats"]
		if !ok {
			err := fmt.Errorf("missing option sats")
			return "❌ Please provide an amount in sats", err
		}
		res, err := h.svc.ConvertCoinToLocal(ctx, sats.IntValue(), premium(opts))
		if err != nil {
			return bot.ErrorMessage(err), err
		}
		return h.svc.CoinToLocalMessage(res), nil

	case "to_btc":
		amount, ok := opts["amount"]
		if !ok {
			err := fmt.Errorf("missing option amount")
			return "❌ Please provide an amount", err
		}
		res, err := h.svc.ConvertLocalToCoin(ctx, amount.FloatValue(), premium(opts))
		if err != nil {
			return bot.ErrorMessage(err), err
		}
		return h.svc.LocalToCoinMessage(res), nil
	}

	return "❌ Unknown command", fmt.Errorf("unknown command %q", name)
}

func premium(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) *float64 {
	opt, ok := opts["premium"]
	if !ok {
		return nil
	}
	v := opt.FloatValue()
	return &v
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// isCryptoCommand checks if interaction is one of the crypto commands
func isCryptoCommand(i *discordgo.InteractionCreate) bool {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return false
	}
	switch i.ApplicationCommandData().Name {
	case "btc", "to_krw", "to_btc":
		return true
	}
	return false
}

func acknowledgeInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func getUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{Username: "Unknown"}
}
