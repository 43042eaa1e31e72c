package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// FrankfurterClient fetches historical daily FX rates from the Frankfurter API.
type FrankfurterClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewFrankfurterClient creates a new Frankfurter API client.
func NewFrankfurterClient(baseURL string, baseDelay time.Duration, maxRetries int) *FrankfurterClient {
	return &FrankfurterClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// FetchRate returns the spot rate for the given date: to-currency units per
// one from-currency unit. Frankfurter serves the closest prior banking day for
// weekends and holidays.
func (c *FrankfurterClient) FetchRate(ctx context.Context, date time.Time, from, to string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s?from=%s&to=%s", c.baseURL, date.Format("2006-01-02"), from, to)

	body, err := c.fetchWithRetry(ctx, url)
	if err != nil {
		return decimal.Zero, err
	}

	// Parse: {"amount":1.0,"base":"USD","date":"2025-11-20","rates":{"GBP":0.807}}
	var raw struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return decimal.Zero, fmt.Errorf("parsing Frankfurter response: %w", err)
	}

	num, ok := raw.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s rate in Frankfurter response for %s", to, from)
	}
	rate, err := decimal.NewFromString(num.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q in Frankfurter response: %w", num, err)
	}
	return rate, nil
}

func (c *FrankfurterClient) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := range c.maxRetries + 1 {
		if attempt > 0 {
			baseDelay := c.baseDelay
			if baseDelay == 0 {
				baseDelay = time.Second
			}
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating Frankfurter request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("Frankfurter request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading Frankfurter response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("Frankfurter returned %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("Frankfurter returned %d: %s", resp.StatusCode, body)
		}

		return body, nil
	}
	return nil, fmt.Errorf("Frankfurter request failed after %d retries: %w", c.maxRetries, lastErr)
}
