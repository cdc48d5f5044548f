package quote

import (
	"log/slog"

	"btcbot/internal/bot"
	"btcbot/internal/logging"

	"github.com/bwmarrin/discordgo"
)

// RegisterQuoteHandler adds the /quote handler to the session.
func RegisterQuoteHandler(session *discordgo.Session, svc *bot.Service) {
	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !isQuoteCommand(i) {
			return
		}

		content, outcome := reply(svc, i.GuildID)

		user := getUser(i)
		logging.LogCommand("quote", user.ID, user.Username, i.GuildID, outcome)

		if err := respondEphemeral(s, i, content); err != nil {
			slog.Error("Failed to send quote", slog.Any("error", err))
		}
	})
}

func reply(svc *bot.Service, guildID string) (content, outcome string) {
	if err := svc.Authorize(guildID); err != nil {
		return bot.ErrorMessage(err), err.Error()
	}
	return "💬 " + svc.RandomQuoteText(), "ok"
}

func isQuoteCommand(i *discordgo.InteractionCreate) bool {
	return i != nil &&
		i.Interaction != nil &&
		i.Type == discordgo.InteractionApplicationCommand &&
		i.ApplicationCommandData().Name == "quote"
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
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
