package upbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"btcbot/internal/logging"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnexpectedStatus is returned for any non-2xx ticker response.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrEmptyTicker is returned when the ticker list is empty.
	ErrEmptyTicker = errors.New("empty ticker list")

	// ErrMissingPrice is returned when the first ticker has no trade_price.
	ErrMissingPrice = errors.New("missing trade_price")
)

// FetchError wraps every failure to obtain a price from the ticker endpoint.
type FetchError struct {
	Op  string // "request", "status", "read", "decode", "payload"
	Err error
}

func (e *FetchError) Error() string {
	return "fetch price: " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// tickerResponse is the subset of the Upbit REST ticker we read.
type tickerResponse struct {
	Market     string           `json:"market"`
	TradePrice *decimal.Decimal `json:"trade_price"`
}

// Client fetches the current trade price of one market from the Upbit REST
// ticker endpoint. Each call is a fresh request; nothing is cached.
type Client struct {
	http   *http.Client
	url    string
	market string
}

// NewClient creates a ticker client for market (e.g. "KRW-BTC").
func NewClient(endpoint, market string, timeout time.Duration) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		url:    endpoint,
		market: market,
	}
}

// FetchPrice returns trade_price of the first ticker in the response.
func (c *Client) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	reqURL, err := c.requestURL()
	if err != nil {
		return decimal.Zero, &FetchError{Op: "request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, &FetchError{Op: "request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, &FetchError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	logging.LogAPIRequest(reqURL, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Zero, &FetchError{Op: "status", Err: fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, &FetchError{Op: "read", Err: err}
	}

	var tickers []tickerResponse
	if err := json.Unmarshal(body, &tickers); err != nil {
		return decimal.Zero, &FetchError{Op: "decode", Err: err}
	}

	if len(tickers) == 0 {
		return decimal.Zero, &FetchError{Op: "payload", Err: fmt.Errorf("%w for %s", ErrEmptyTicker, c.market)}
	}
	if tickers[0].TradePrice == nil {
		return decimal.Zero, &FetchError{Op: "payload", Err: fmt.Errorf("%w for %s", ErrMissingPrice, c.market)}
	}

	return *tickers[0].TradePrice, nil
}

func (c *Client) requestURL() (string, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("markets", c.market)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
