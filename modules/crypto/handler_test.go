package crypto

import (
	"context"
	"errors"
	"testing"

	"btcbot/internal/bot"
	"btcbot/internal/format"
	"btcbot/internal/upbit"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
)

type fakeSource struct {
	price decimal.Decimal
	err   error
	calls int
}

func (f *fakeSource) FetchPrice(context.Context) (decimal.Decimal, error) {
	f.calls++
	return f.price, f.err
}

func newHandler(src *fakeSource, allowedGuild string) *Handler {
	return &Handler{svc: bot.NewService(src, bot.Options{
		AllowedGuildID: allowedGuild,
		PremiumMode:    format.Discount,
		CurrencyUnit:   "KRW",
	})}
}

func intOpt(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v),
	}
}

func numOpt(name string, v float64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name: name, Type: discordgo.ApplicationCommandOptionNumber, Value: v,
	}
}

func TestHandler_Reply(t *testing.T) {
	tests := []struct {
		name    string
		command string
		options []*discordgo.ApplicationCommandInteractionDataOption
		want    string
	}{
		{
			"price", "btc", nil,
			"💰 Current BTC price: 150,000,000.0 KRW",
		},
		{
			"sats to krw", "to_krw",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("sats", 2100)},
			"₿ 2,100 sats (0.00002100 BTC) → 💵 3,150.0 KRW (premium 0.00%)",
		},
		{
			"sats to krw with premium", "to_krw",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("sats", 2100), numOpt("premium", 2.5)},
			"₿ 2,100 sats (0.00002100 BTC) → 💵 3,228.75 KRW (premium 2.50%)",
		},
		{
			"krw to sats", "to_btc",
			[]*discordgo.ApplicationCommandInteractionDataOption{numOpt("amount", 10000)},
			"💵 10,000.0 KRW → ₿ 6,666 sats (0.00006666 BTC) (premium 0.00%)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&fakeSource{price: decimal.NewFromInt(150_000_000)}, "")

			got, err := h.reply(context.Background(), "guild", tt.command, tt.options)
			if err != nil {
				t.Fatalf("reply failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandler_Reply_AccessDeniedSkipsFetch(t *testing.T) {
	for _, command := range []string{"btc", "to_krw", "to_btc"} {
		t.Run(command, func(t *testing.T) {
			src := &fakeSource{price: decimal.NewFromInt(150_000_000)}
			h := newHandler(src, "allowed")

			got, err := h.reply(context.Background(), "other", command,
				[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("sats", 1), numOpt("amount", 1)})

			if !errors.Is(err, bot.ErrAccessDenied) {
				t.Fatalf("expected ErrAccessDenied, got %v", err)
			}
			if got != bot.AccessDeniedMessage {
				t.Errorf("reply = %q, want denial message", got)
			}
			if src.calls != 0 {
				t.Errorf("price fetched %d times, want 0", src.calls)
			}
		})
	}
}

func TestHandler_Reply_FetchError(t *testing.T) {
	src := &fakeSource{err: &upbit.FetchError{Op: "payload", Err: upbit.ErrEmptyTicker}}
	h := newHandler(src, "")

	got, err := h.reply(context.Background(), "", "btc", nil)
	if !errors.Is(err, upbit.ErrEmptyTicker) {
		t.Fatalf("expected ErrEmptyTicker, got %v", err)
	}
	if got != bot.ErrorMessage(err) {
		t.Errorf("reply = %q", got)
	}
}

func TestHandler_Reply_InvalidPremium(t *testing.T) {
	src := &fakeSource{price: decimal.NewFromInt(150_000_000)}
	h := newHandler(src, "")

	got, err := h.reply(context.Background(), "", "to_btc",
		[]*discordgo.ApplicationCommandInteractionDataOption{numOpt("amount", 10000), numOpt("premium", -100)})
	if err == nil {
		t.Fatal("expected error for premium -100")
	}
	if got != "❌ invalid premium: must be greater than -100, got -100" {
		t.Errorf("reply = %q", got)
	}
	if src.calls != 0 {
		t.Errorf("price fetched %d times, want 0", src.calls)
	}
}

func TestHandler_Reply_MissingOption(t *testing.T) {
	h := newHandler(&fakeSource{price: decimal.NewFromInt(1)}, "")

	if _, err := h.reply(context.Background(), "", "to_krw", nil); err == nil {
		t.Error("expected error for missing sats")
	}
	if _, err := h.reply(context.Background(), "", "to_btc", nil); err == nil {
		t.Error("expected error for missing amount")
	}
}

func TestCryptoCommandNames(t *testing.T) {
	want := map[string]bool{"btc": true, "to_krw": true, "to_btc": true}
	for _, cmd := range CryptoCommand {
		if !want[cmd.Name] {
			t.Errorf("unexpected command %q", cmd.Name)
		}
		delete(want, cmd.Name)
	}
	if len(want) != 0 {
		t.Errorf("missing commands: %v", want)
	}
}
