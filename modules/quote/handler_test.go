package quote

import (
	"context"
	"strings"
	"testing"

	"btcbot/internal/bot"

	"github.com/shopspring/decimal"
)

type noSource struct{}

func (noSource) FetchPrice(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func TestReply(t *testing.T) {
	svc := bot.NewService(noSource{}, bot.Options{Quotes: []string{"only one"}})

	content, outcome := reply(svc, "any")
	if content != "💬 only one" {
		t.Errorf("content = %q", content)
	}
	if outcome != "ok" {
		t.Errorf("outcome = %q", outcome)
	}
}

func TestReply_AccessDenied(t *testing.T) {
	svc := bot.NewService(noSource{}, bot.Options{
		AllowedGuildID: "allowed",
		Quotes:         []string{"secret"},
	})

	content, outcome := reply(svc, "other")
	if content != bot.AccessDeniedMessage {
		t.Errorf("content = %q, want denial", content)
	}
	if strings.Contains(content, "secret") {
		t.Error("denied reply leaked a quote")
	}
	if outcome == "ok" {
		t.Error("outcome should record the denial")
	}
}
