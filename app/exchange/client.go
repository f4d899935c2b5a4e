package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/currency"
)

const maxResponseSize = 1 << 20

// RateSource looks up the latest rate for one currency pair.
type RateSource interface {
	Rate(ctx context.Context, base, target string) (float64, bool)
}

type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Client queries an exchangerate-api compatible endpoint (GET <baseURL>/<BASE>).
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	timeout    time.Duration
}

var _ RateSource = (*Client)(nil)

func NewClient(httpClient *http.Client, baseURL, userAgent string, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

// Rate returns the amount of target bought by one unit of base. The second
// result is false when the rate is unavailable for any reason.
func (c *Client) Rate(ctx context.Context, base, target string) (float64, bool) {
	base, err := normalizeCode(base)
	if err != nil {
		slog.Debug("Invalid base currency", "base", base, "error", err)
		return 0, false
	}
	target, err = normalizeCode(target)
	if err != nil {
		slog.Debug("Invalid target currency", "target", target, "error", err)
		return 0, false
	}

	rates, err := c.latest(ctx, base)
	if err != nil {
		slog.Warn("Error fetching exchange rate", "base", base, "target", target, "error", err)
		return 0, false
	}

	rate, ok := rates[target]
	if !ok {
		slog.Debug("Target currency missing from rates", "base", base, "target", target)
		return 0, false
	}
	return rate, true
}

func (c *Client) latest(ctx context.Context, base string) (map[string]float64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+base, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	var payload latestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	if payload.Rates == nil {
		return nil, fmt.Errorf("response has no rates")
	}

	return payload.Rates, nil
}

// normalizeCode upper-cases code and checks it is a known ISO 4217 currency.
func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return code, fmt.Errorf("unknown currency code %q: %w", code, err)
	}
	return unit.String(), nil
}
