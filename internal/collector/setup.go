package collector

import (
	"fmt"

	"MarketDigest/internal/changes"
	"MarketDigest/internal/config"
)

// FromConfig builds a Collector backed by the live Yahoo and exchangerate-api
// fetchers.
func FromConfig(cfg *config.Config) (*Collector, error) {
	fx, mkt, err := Settings(cfg)
	if err != nil {
		return nil, err
	}
	return NewCollector(NewYahooFetcher(cfg.Proxy), NewExchangeRateFetcher(cfg.Proxy), fx, mkt), nil
}

// Settings translates the loaded config into per-series settings.
func Settings(cfg *config.Config) (FXSettings, MarketSettings, error) {
	mode := changes.WindowMode(cfg.Engine.WindowMode)
	if mode != changes.ModeEntries && mode != changes.ModeCalendar {
		return FXSettings{}, MarketSettings{}, fmt.Errorf("unknown window mode %q", cfg.Engine.WindowMode)
	}
	fxAnchor, ok := changes.SelectorByName(cfg.FX.Anchor, changes.DefaultLookback)
	if !ok {
		return FXSettings{}, MarketSettings{}, fmt.Errorf("unknown fx anchor policy %q", cfg.FX.Anchor)
	}
	mktAnchor, ok := changes.SelectorByName(cfg.Market.Anchor, cfg.Market.AnchorLookback)
	if !ok {
		return FXSettings{}, MarketSettings{}, fmt.Errorf("unknown market anchor policy %q", cfg.Market.Anchor)
	}

	fx := FXSettings{
		Base:       cfg.FX.Base,
		Quotes:     cfg.FX.Quotes,
		SeriesFile: cfg.FX.SeriesFile,
		Retention:  cfg.FX.RetentionDays,
		Anchor:     fxAnchor,
		Mode:       mode,
	}
	mkt := MarketSettings{
		Instruments: cfg.Market.Instruments,
		SeriesFile:  cfg.Market.SeriesFile,
		Days:        cfg.Market.Days,
		Retention:   cfg.Market.RetentionDays,
		Anchor:      mktAnchor,
		Mode:        mode,
	}
	return fx, mkt, nil
}
