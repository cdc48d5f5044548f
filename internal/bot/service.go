// Package bot holds the application context shared by the command handlers
// and the presence loop: the price source plus the per-deployment options
// that used to differ between bot versions.
package bot

import (
	"context"
	"errors"
	"math/rand"

	"btcbot/internal/convert"
	"btcbot/internal/format"

	"github.com/shopspring/decimal"
)

// AccessDeniedMessage is the only thing a caller outside the allowed guild
// ever sees.
const AccessDeniedMessage = "⛔ This bot is not available here."

// ErrAccessDenied is returned by Authorize for a disallowed origin.
var ErrAccessDenied = errors.New("access denied")

// PriceSource returns the current trade price in local currency.
type PriceSource interface {
	FetchPrice(ctx context.Context) (decimal.Decimal, error)
}

// Options are the deployment switches.
type Options struct {
	DefaultPremium float64
	AllowedGuildID string // empty disables access control
	Quotes         []string
	PremiumMode    format.PremiumMode
	CurrencyUnit   string
}

// Service answers the bot's commands.
type Service struct {
	source PriceSource
	opts   Options
}

// CoinToLocal is the result of a units -> local currency conversion.
type CoinToLocal struct {
	Units int64
	Coin  decimal.Decimal
	Local decimal.Decimal
	Rate  decimal.Decimal
	Price decimal.Decimal
}

// LocalToCoin is the result of a local currency -> units conversion.
type LocalToCoin struct {
	Local decimal.Decimal
	Units int64
	Coin  decimal.Decimal
	Rate  decimal.Decimal
	Price decimal.Decimal
}

// NewService creates a Service.
func NewService(source PriceSource, opts Options) *Service {
	if opts.PremiumMode == "" {
		opts.PremiumMode = format.Discount
	}
	opts.Quotes = append([]string(nil), opts.Quotes...)
	return &Service{source: source, opts: opts}
}

// Authorize checks the origin guild against the allow-list.
func (s *Service) Authorize(guildID string) error {
	if s.opts.AllowedGuildID != "" && guildID != s.opts.AllowedGuildID {
		return ErrAccessDenied
	}
	return nil
}

// Quote fetches the current price.
func (s *Service) Quote(ctx context.Context) (decimal.Decimal, error) {
	price, err := s.source.FetchPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if err := convert.ValidatePrice(price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// ConvertCoinToLocal values units at the current price. A nil rate uses the
// configured default premium.
func (s *Service) ConvertCoinToLocal(ctx context.Context, units int64, rate *float64) (CoinToLocal, error) {
	r, err := s.rate(rate)
	if err != nil {
		return CoinToLocal{}, err
	}
	if units < 0 {
		return CoinToLocal{}, &convert.InvalidInputError{Field: "units", Reason: "must not be negative"}
	}

	price, err := s.Quote(ctx)
	if err != nil {
		return CoinToLocal{}, err
	}

	local, err := convert.ToLocalCurrency(units, r, price)
	if err != nil {
		return CoinToLocal{}, err
	}

	return CoinToLocal{
		Units: units,
		Coin:  convert.UnitsToCoin(units),
		Local: local,
		Rate:  r,
		Price: price,
	}, nil
}

// ConvertLocalToCoin buys units with amount at the current price. A nil rate
// uses the configured default premium.
func (s *Service) ConvertLocalToCoin(ctx context.Context, amount float64, rate *float64) (LocalToCoin, error) {
	r, err := s.rate(rate)
	if err != nil {
		return LocalToCoin{}, err
	}
	local, err := convert.FromFloat("amount", amount)
	if err != nil {
		return LocalToCoin{}, err
	}
	if local.IsNegative() {
		return LocalToCoin{}, &convert.InvalidInputError{Field: "amount", Reason: "must not be negative"}
	}

	price, err := s.Quote(ctx)
	if err != nil {
		return LocalToCoin{}, err
	}

	units, err := convert.ToCoinUnits(local, r, price)
	if err != nil {
		return LocalToCoin{}, err
	}

	return LocalToCoin{
		Local: local,
		Units: units,
		Coin:  convert.UnitsToCoin(units),
		Rate:  r,
		Price: price,
	}, nil
}

// RandomQuoteText picks one of the configured quotes uniformly. It returns
// "" when no quotes are configured.
func (s *Service) RandomQuoteText() string {
	if len(s.opts.Quotes) == 0 {
		return ""
	}
	return s.opts.Quotes[rand.Intn(len(s.opts.Quotes))]
}

func (s *Service) rate(rate *float64) (decimal.Decimal, error) {
	v := s.opts.DefaultPremium
	if rate != nil {
		v = *rate
	}
	r, err := convert.FromFloat("premium", v)
	if err != nil {
		return decimal.Zero, err
	}
	if err := convert.ValidateRate(r); err != nil {
		return decimal.Zero, err
	}
	return r, nil
}
