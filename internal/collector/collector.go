package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"MarketDigest/internal/changes"
	"MarketDigest/internal/logger"
	"MarketDigest/internal/metrics"
	"MarketDigest/internal/model"
	"MarketDigest/internal/store"
)

// Series kinds, used as metric and record labels.
const (
	KindFX     = "fx"
	KindMarket = "market"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars  map[string][]model.OHLCV
	Rates map[string]float64
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, _ int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no bars for %s", symbol)
	}
	return bars, nil
}

func (m *MockFetcher) FetchRates(_ context.Context, _ string, quotes []string) (map[string]float64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make(map[string]float64)
	for _, q := range quotes {
		if r, ok := m.Rates[q]; ok {
			out[q] = r
		}
	}
	return out, nil
}

// FXSettings configures the currency-pair series.
type FXSettings struct {
	Base       string
	Quotes     []string
	SeriesFile string
	Retention  int
	Anchor     changes.AnchorSelector
	Mode       changes.WindowMode
}

// Pairs returns the instrument keys, e.g. "NZD/USD".
func (s FXSettings) Pairs() []string {
	pairs := make([]string, len(s.Quotes))
	for i, q := range s.Quotes {
		pairs[i] = s.Base + "/" + q
	}
	return pairs
}

// MarketSettings configures the ticker series.
type MarketSettings struct {
	Instruments map[string]model.Instrument
	SeriesFile  string
	Days        int
	Retention   int
	Anchor      changes.AnchorSelector
	Mode        changes.WindowMode
}

// Symbols returns the configured tickers in sorted order.
func (s MarketSettings) Symbols() []string {
	symbols := make([]string, 0, len(s.Instruments))
	for sym := range s.Instruments {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// Collector refreshes the persisted series and computes changes from them.
type Collector struct {
	Market     Fetcher
	Rates      RateFetcher
	FXConf     FXSettings
	MarketConf MarketSettings
	Now        func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(market Fetcher, rates RateFetcher, fx FXSettings, mkt MarketSettings) *Collector {
	return &Collector{
		Market:     market,
		Rates:      rates,
		FXConf:     fx,
		MarketConf: mkt,
		Now:        time.Now,
	}
}

// RefreshFX fetches today's rates and stores them as today's snapshot. A
// successful fetch that returns none of the configured quotes still writes
// an empty snapshot for today.
func (c *Collector) RefreshFX(ctx context.Context) error {
	rates, err := c.Rates.FetchRates(ctx, c.FXConf.Base, c.FXConf.Quotes)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(c.Rates.Name()).Inc()
		return fmt.Errorf("fetch fx rates: %w", err)
	}
	snap := make(model.Snapshot, len(rates))
	for quote, r := range rates {
		snap[c.FXConf.Base+"/"+quote] = model.Number(r)
	}

	now := c.Now()
	today := now.Format(model.DateFormat)
	if err := store.UpsertFX(c.FXConf.SeriesFile, today, snap, c.FXConf.Pairs(), c.FXConf.Retention, now); err != nil {
		return fmt.Errorf("store fx snapshot: %w", err)
	}
	logger.Info("fx snapshot stored",
		zap.String("date", today),
		zap.Int("pairs", len(snap)),
		zap.String("source", c.Rates.Name()))
	c.observeSeries(KindFX)
	return nil
}

// FetchCube fetches daily bars for every configured ticker. Tickers that fail
// are logged and left out; an error is returned only when all of them fail.
func (c *Collector) FetchCube(ctx context.Context) (model.Cube, error) {
	symbols := c.MarketConf.Symbols()
	cube := make(model.Cube, len(symbols))
	var lastErr error
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := c.Market.FetchDailyBars(ctx, sym, c.MarketConf.Days)
		if err != nil {
			metrics.FetchErrors.WithLabelValues(c.Market.Name()).Inc()
			logger.Warn("ticker fetch failed", zap.String("ticker", sym), zap.Error(err))
			lastErr = err
			continue
		}
		cube[sym] = bars
	}
	if len(cube) == 0 && len(symbols) > 0 {
		return nil, fmt.Errorf("all %d tickers failed: %w", len(symbols), lastErr)
	}
	return cube, nil
}

// RefreshMarket fetches recent daily closes and merges them into the ticker series.
func (c *Collector) RefreshMarket(ctx context.Context) error {
	cube, err := c.FetchCube(ctx)
	if err != nil {
		return fmt.Errorf("fetch market data: %w", err)
	}
	fetched := Flatten(cube, model.CloseField)
	if err := store.MergeMarket(c.MarketConf.SeriesFile, fetched, c.MarketConf.Instruments, c.MarketConf.Retention, c.Now()); err != nil {
		return fmt.Errorf("store market series: %w", err)
	}
	logger.Info("market series merged",
		zap.Int("tickers", len(cube)),
		zap.Int("dates", fetched.Len()),
		zap.String("source", c.Market.Name()))
	c.observeSeries(KindMarket)
	return nil
}

// FXChanges loads the currency-pair series and computes its change record.
func (c *Collector) FXChanges() model.Result {
	s, err := store.LoadFX(c.FXConf.SeriesFile)
	res := changes.Evaluate(s, err, changes.Options{
		Anchor: c.FXConf.Anchor,
		Mode:   c.FXConf.Mode,
		Only:   c.FXConf.Pairs(),
	})
	c.observeResult(KindFX, &res)
	return res
}

// MarketChanges loads the ticker series and computes its change record. The
// stored side-table is preferred; configured metadata fills the gaps.
func (c *Collector) MarketChanges() model.Result {
	s, stored, err := store.LoadMarket(c.MarketConf.SeriesFile)
	instruments := make(map[string]model.Instrument, len(c.MarketConf.Instruments))
	for k, v := range c.MarketConf.Instruments {
		instruments[k] = v
	}
	for k, v := range stored {
		instruments[k] = v
	}
	res := changes.Evaluate(s, err, changes.Options{
		Anchor:      c.MarketConf.Anchor,
		Mode:        c.MarketConf.Mode,
		Instruments: instruments,
	})
	c.observeResult(KindMarket, &res)
	return res
}

func (c *Collector) observeResult(kind string, res *model.Result) {
	metrics.EngineRuns.WithLabelValues(kind, res.Status).Inc()
	if !res.OK() {
		logger.Error("change computation failed", zap.String("kind", kind), zap.String("error", res.Error))
		return
	}
	metrics.RecordedInstruments.WithLabelValues(kind).Add(float64(len(res.Records)))
	logger.Info("changes computed",
		zap.String("kind", kind),
		zap.String("anchor", res.Anchor),
		zap.Int("instruments", len(res.Records)))
}

func (c *Collector) observeSeries(kind string) {
	var (
		s   *model.Series
		err error
	)
	if kind == KindFX {
		s, err = store.LoadFX(c.FXConf.SeriesFile)
	} else {
		s, _, err = store.LoadMarket(c.MarketConf.SeriesFile)
	}
	if err != nil {
		logger.Warn("reload series for metrics", zap.String("kind", kind), zap.Error(err))
		return
	}
	metrics.SeriesDates.WithLabelValues(kind).Set(float64(s.Len()))
}
