package collector

import (
	"context"

	"MarketDigest/internal/model"
)

// Fetcher fetches daily bars for a market ticker.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// RateFetcher fetches the latest exchange rates of base against each quote
// currency. The result is keyed by quote currency.
type RateFetcher interface {
	FetchRates(ctx context.Context, base string, quotes []string) (map[string]float64, error)
	Name() string
}
