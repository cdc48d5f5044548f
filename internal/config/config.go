package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable holding the bot token.
const TokenEnv = "DISCORD_TOKEN"

// Premium display modes.
const (
	PremiumModeDiscount = "discount"
	PremiumModeSigned   = "signed"
)

var (
	// ErrMissingToken is returned when no bot token is present in the environment.
	ErrMissingToken = errors.New("bot token not set")

	// ErrInvalidValue is returned when a configured value is out of range.
	ErrInvalidValue = errors.New("invalid value")
)

// ConfigurationError describes a configuration problem that prevents startup.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Config holds everything the bot needs at runtime. Token is never read from
// the YAML file.
type Config struct {
	Token string `yaml:"-"`

	Ticker struct {
		URL     string        `yaml:"url"`
		Market  string        `yaml:"market"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"ticker"`

	Presence struct {
		Interval      time.Duration `yaml:"interval"`
		ExchangeLabel string        `yaml:"exchange_label"`
	} `yaml:"presence"`

	Display struct {
		CurrencyUnit string `yaml:"currency_unit"`
		PremiumMode  string `yaml:"premium_mode"`
	} `yaml:"display"`

	Commands struct {
		DefaultPremium float64  `yaml:"default_premium"`
		AllowedGuildID string   `yaml:"allowed_guild_id"`
		Quotes         []string `yaml:"quotes"`
	} `yaml:"commands"`

	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
}

// DefaultQuotes is used when the config file does not provide its own list.
var DefaultQuotes = []string{
	"Stay humble, stack sats.",
	"Not your keys, not your coins.",
	"Time in the market beats timing the market.",
	"Tick tock, next block.",
	"Don't trust, verify.",
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.Ticker.URL = "https://api.upbit.com/v1/ticker"
	cfg.Ticker.Market = "KRW-BTC"
	cfg.Ticker.Timeout = 10 * time.Second
	cfg.Presence.Interval = 60 * time.Second
	cfg.Presence.ExchangeLabel = "Upbit"
	cfg.Display.CurrencyUnit = "KRW"
	cfg.Display.PremiumMode = PremiumModeDiscount
	cfg.Commands.Quotes = append([]string(nil), DefaultQuotes...)
	cfg.Logging.Level = "info"
	cfg.Logging.File = "logs/bot.log"
	return cfg
}

// Load reads the YAML file at path on top of the defaults, loads .env if one
// exists, takes the token from the environment and validates the result.
// A missing config file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, &ConfigurationError{Field: "file", Err: err}
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &ConfigurationError{Field: "file", Err: err}
			}
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load(".env")

	cfg.Token = strings.TrimSpace(os.Getenv(TokenEnv))
	if cfg.Token == "" {
		return nil, &ConfigurationError{Field: TokenEnv, Err: ErrMissingToken}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Ticker.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigurationError{Field: "ticker.url", Err: fmt.Errorf("%w: %q", ErrInvalidValue, c.Ticker.URL)}
	}
	if c.Ticker.Market == "" {
		return &ConfigurationError{Field: "ticker.market", Err: fmt.Errorf("%w: empty", ErrInvalidValue)}
	}
	if c.Ticker.Timeout <= 0 {
		return &ConfigurationError{Field: "ticker.timeout", Err: fmt.Errorf("%w: must be positive", ErrInvalidValue)}
	}
	if c.Presence.Interval <= 0 {
		return &ConfigurationError{Field: "presence.interval", Err: fmt.Errorf("%w: must be positive", ErrInvalidValue)}
	}

	switch c.Display.PremiumMode {
	case PremiumModeDiscount, PremiumModeSigned:
	default:
		return &ConfigurationError{Field: "display.premium_mode", Err: fmt.Errorf("%w: %q", ErrInvalidValue, c.Display.PremiumMode)}
	}

	if c.Commands.DefaultPremium <= -100 {
		return &ConfigurationError{Field: "commands.default_premium", Err: fmt.Errorf("%w: must be greater than -100", ErrInvalidValue)}
	}
	for i, q := range c.Commands.Quotes {
		if strings.TrimSpace(q) == "" {
			return &ConfigurationError{Field: fmt.Sprintf("commands.quotes[%d]", i), Err: fmt.Errorf("%w: empty quote", ErrInvalidValue)}
		}
	}
	return nil
}

// QuotesEnabled reports whether the /quote command should be registered.
func (c *Config) QuotesEnabled() bool {
	return len(c.Commands.Quotes) > 0
}

// AccessControlEnabled reports whether commands are limited to one guild.
func (c *Config) AccessControlEnabled() bool {
	return c.Commands.AllowedGuildID != ""
}
