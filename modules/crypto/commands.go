package crypto

import "github.com/bwmarrin/discordgo"

var minZero = 0.0

var premiumOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionNumber,
	Name:        "premium",
	Description: "Premium % (negative for a discount, optional)",
	Required:    false,
}

var CryptoCommand = []*discordgo.ApplicationCommand{
	{
		Name:        "btc",
		Description: "Show the current Bitcoin price",
	},
	{
		Name:        "to_krw",
		Description: "Convert satoshis to KRW",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "sats",
				Description: "Amount in satoshis (1 BTC = 100,000,000 sats)",
				Required:    true,
				MinValue:    &minZero,
			},
			premiumOption,
		},
	},
	{
		Name:        "to_btc",
		Description: "Convert KRW to satoshis",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "amount",
				Description: "Amount in KRW",
				Required:    true,
				MinValue:    &minZero,
			},
			premiumOption,
		},
	},
}
