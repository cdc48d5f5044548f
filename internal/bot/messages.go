package bot

import (
	"errors"
	"fmt"

	"btcbot/internal/convert"
	"btcbot/internal/format"

	"github.com/shopspring/decimal"
)

const fetchFailedMessage = "❌ Could not fetch the current BTC price. Please try again later."

// PriceMessage is the reply to /btc.
func (s *Service) PriceMessage(price decimal.Decimal) string {
	return fmt.Sprintf("💰 Current BTC price: %s %s", format.LocalCurrency(price), s.opts.CurrencyUnit)
}

// CoinToLocalMessage is the reply to /to_krw.
func (s *Service) CoinToLocalMessage(r CoinToLocal) string {
	return fmt.Sprintf("₿ %s sats (%s BTC) → 💵 %s %s (%s)",
		format.UnitAmount(r.Units),
		format.CoinAmount(r.Coin),
		format.LocalCurrency(r.Local),
		s.opts.CurrencyUnit,
		format.Premium(r.Rate, s.opts.PremiumMode),
	)
}

// LocalToCoinMessage is the reply to /to_btc.
func (s *Service) LocalToCoinMessage(r LocalToCoin) string {
	return fmt.Sprintf("💵 %s %s → ₿ %s sats (%s BTC) (%s)",
		format.LocalCurrency(r.Local),
		s.opts.CurrencyUnit,
		format.UnitAmount(r.Units),
		format.CoinAmount(r.Coin),
		format.Premium(r.Rate, s.opts.PremiumMode),
	)
}

// StatusText is the presence line published by the presence loop.
func (s *Service) StatusText(price decimal.Decimal, exchange string) string {
	return fmt.Sprintf("BTC %s %s (%s basis)", format.LocalCurrency(price), s.opts.CurrencyUnit, exchange)
}

// ErrorMessage turns any command error into a short user-facing reply.
// Fetch failures are reported generically.
func ErrorMessage(err error) string {
	if errors.Is(err, ErrAccessDenied) {
		return AccessDeniedMessage
	}

	var inputErr *convert.InvalidInputError
	if errors.As(err, &inputErr) {
		return "❌ " + inputErr.Error()
	}

	return fetchFailedMessage
}
