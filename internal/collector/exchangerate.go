package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

const exchangeRateBaseURL = "https://api.exchangerate-api.com"

// ExchangeRateFetcher implements RateFetcher using the exchangerate-api.com v4 API.
type ExchangeRateFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewExchangeRateFetcher creates a new fetcher with optional proxy support.
func NewExchangeRateFetcher(proxyURL string) *ExchangeRateFetcher {
	return &ExchangeRateFetcher{
		BaseURL: exchangeRateBaseURL,
		Client:  newHTTPClient(proxyURL),
	}
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func (f *ExchangeRateFetcher) Name() string { return "exchangerate-api" }

// FetchRates returns the latest rates for the requested quotes. Quotes the
// API does not list are left out.
func (f *ExchangeRateFetcher) FetchRates(ctx context.Context, base string, quotes []string) (map[string]float64, error) {
	endpoint := fmt.Sprintf("%s/v4/latest/%s", f.BaseURL, url.PathEscape(base))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch rates: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}

	rates := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		if r, ok := result.Rates[q]; ok {
			rates[q] = roundRate(r)
		}
	}
	return rates, nil
}

// roundRate keeps 4 decimals for small rates and 2 once a rate reaches 10.
func roundRate(r float64) float64 {
	places := int32(4)
	if r >= 10 {
		places = 2
	}
	return decimal.NewFromFloat(r).Round(places).InexactFloat64()
}
