package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketDigest/internal/changes"
	"MarketDigest/internal/config"
	"MarketDigest/internal/model"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.FX.Base = "NZD"
	cfg.FX.Quotes = []string{"USD", "CNY"}
	cfg.FX.SeriesFile = "fx.json"
	cfg.FX.RetentionDays = 45
	cfg.FX.Anchor = "most-recent"
	cfg.Market.SeriesFile = "market.json"
	cfg.Market.Days = 30
	cfg.Market.Anchor = "most-complete"
	cfg.Market.AnchorLookback = 5
	cfg.Market.Instruments = map[string]model.Instrument{"QQQ": {DisplaySymbol: "QQQ"}}
	cfg.Engine.WindowMode = "calendar"
	return cfg
}

func TestSettings(t *testing.T) {
	fx, mkt, err := Settings(testConfig())
	require.NoError(t, err)

	assert.Equal(t, []string{"NZD/USD", "NZD/CNY"}, fx.Pairs())
	assert.Equal(t, changes.MostRecent{}, fx.Anchor)
	assert.Equal(t, changes.ModeCalendar, fx.Mode)
	assert.Equal(t, changes.MostComplete{Lookback: 5}, mkt.Anchor)
	assert.Equal(t, []string{"QQQ"}, mkt.Symbols())
}

func TestSettings_Rejects(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.WindowMode = "weekly"
	_, _, err := Settings(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Market.Anchor = "median"
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	c, err := FromConfig(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "yahoo", c.Market.Name())
	assert.Equal(t, "exchangerate-api", c.Rates.Name())
}
