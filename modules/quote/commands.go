package quote

import "github.com/bwmarrin/discordgo"

var QuoteCommand = []*discordgo.ApplicationCommand{
	{
		Name:        "quote",
		Description: "Get a random quote",
	},
}
