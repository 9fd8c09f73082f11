package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"MarketDigest/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	FX struct {
		Base          string   `yaml:"base"`
		Quotes        []string `yaml:"quotes"`
		SeriesFile    string   `yaml:"series_file"`
		RetentionDays int      `yaml:"retention_days"`
		Anchor        string   `yaml:"anchor"`
	} `yaml:"fx"`
	Market struct {
		SeriesFile     string                      `yaml:"series_file"`
		Days           int                         `yaml:"days"`
		RetentionDays  int                         `yaml:"retention_days"`
		Anchor         string                      `yaml:"anchor"`
		AnchorLookback int                         `yaml:"anchor_lookback"`
		Instruments    map[string]model.Instrument `yaml:"instruments"`
	} `yaml:"market"`
	Engine struct {
		WindowMode string `yaml:"window_mode"`
	} `yaml:"engine"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		DigestCron  string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`
	Log struct {
		Level       string `yaml:"level"`
		Environment string `yaml:"environment"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// CronParser accepts the six-field (with seconds) specs used by the scheduler.
var CronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// DefaultInstruments is the ticker table used when the config lists none.
func DefaultInstruments() map[string]model.Instrument {
	return map[string]model.Instrument{
		"^GSPC":     {Name: "S&P 500", Category: "US Indices", Currency: "USD", DisplaySymbol: "S&P 500"},
		"^IXIC":     {Name: "NASDAQ Composite", Category: "US Indices", Currency: "USD", DisplaySymbol: "NASDAQ"},
		"^DJI":      {Name: "Dow Jones Industrial Average", Category: "US Indices", Currency: "USD", DisplaySymbol: "Dow Jones"},
		"000001.SS": {Name: "SSE Composite Index", Category: "International Indices", Currency: "CNY", DisplaySymbol: "Shanghai (SSE)"},
		"^AXJO":     {Name: "S&P/ASX 200", Category: "International Indices", Currency: "AUD", DisplaySymbol: "ASX 200"},
		"^NSEI":     {Name: "NIFTY 50", Category: "International Indices", Currency: "INR", DisplaySymbol: "NSE (India)"},
		"^NZ50":     {Name: "S&P/NZX 50 Index", Category: "International Indices", Currency: "NZD", DisplaySymbol: "NZX 50"},
		"GLD":       {Name: "SPDR Gold Shares ETF", Category: "Commodities", Currency: "USD", DisplaySymbol: "Gold (GLD)"},
		"USO":       {Name: "United States Oil Fund", Category: "Commodities", Currency: "USD", DisplaySymbol: "Oil (USO)"},
		"SLV":       {Name: "iShares Silver Trust", Category: "Commodities", Currency: "USD", DisplaySymbol: "Silver (SLV)"},
		"VOO":       {Name: "Vanguard S&P 500 ETF", Category: "ETFs", Currency: "USD", DisplaySymbol: "VOO"},
		"VTI":       {Name: "Vanguard Total Stock Market ETF", Category: "ETFs", Currency: "USD", DisplaySymbol: "VTI"},
		"QQQ":       {Name: "Invesco QQQ Trust", Category: "ETFs", Currency: "USD", DisplaySymbol: "QQQ"},
	}
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("FX_BASE"); v != "" {
		cfg.FX.Base = v
	}
	if v := os.Getenv("FX_QUOTES"); v != "" {
		cfg.FX.Quotes = splitList(v)
	}
	if v := os.Getenv("FX_SERIES_FILE"); v != "" {
		cfg.FX.SeriesFile = v
	}
	if v := os.Getenv("MARKET_SERIES_FILE"); v != "" {
		cfg.Market.SeriesFile = v
	}
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RETENTION_DAYS: %w", err)
		}
		cfg.FX.RetentionDays = n
		cfg.Market.RetentionDays = n
	}
	if v := os.Getenv("WINDOW_MODE"); v != "" {
		cfg.Engine.WindowMode = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Log.Environment = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.FX.Base == "" {
		c.FX.Base = "NZD"
	}
	if len(c.FX.Quotes) == 0 {
		c.FX.Quotes = []string{"USD", "AUD", "INR", "CNY"}
	}
	if c.FX.SeriesFile == "" {
		c.FX.SeriesFile = "data/loading/fx_data.json"
	}
	if c.FX.RetentionDays == 0 {
		c.FX.RetentionDays = 45
	}
	if c.FX.Anchor == "" {
		c.FX.Anchor = "most-recent"
	}
	if c.Market.SeriesFile == "" {
		c.Market.SeriesFile = "data/loading/market_data.json"
	}
	if c.Market.Days == 0 {
		c.Market.Days = 30
	}
	if c.Market.RetentionDays == 0 {
		c.Market.RetentionDays = 45
	}
	if c.Market.Anchor == "" {
		c.Market.Anchor = "most-complete"
	}
	if c.Market.AnchorLookback == 0 {
		c.Market.AnchorLookback = 7
	}
	if len(c.Market.Instruments) == 0 {
		c.Market.Instruments = DefaultInstruments()
	}
	if c.Engine.WindowMode == "" {
		c.Engine.WindowMode = "entries"
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 0 6 * * *"
	}
	if c.Schedule.DigestCron == "" {
		c.Schedule.DigestCron = "0 30 6 * * *"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/market_digest.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Environment == "" {
		c.Log.Environment = "production"
	}
}

// Validate checks the settings every entry point depends on.
func (c *Config) Validate() error {
	if c.FX.Base == "" || len(c.FX.Quotes) == 0 {
		return fmt.Errorf("fx.base and fx.quotes are required")
	}
	for _, anchor := range []string{c.FX.Anchor, c.Market.Anchor} {
		if anchor != "most-recent" && anchor != "most-complete" {
			return fmt.Errorf("anchor %q must be most-recent or most-complete", anchor)
		}
	}
	if c.Market.AnchorLookback < 0 {
		return fmt.Errorf("market.anchor_lookback must not be negative")
	}
	if c.Market.Days <= 0 {
		return fmt.Errorf("market.days must be positive")
	}
	if c.Engine.WindowMode != "entries" && c.Engine.WindowMode != "calendar" {
		return fmt.Errorf("engine.window_mode %q must be entries or calendar", c.Engine.WindowMode)
	}
	if _, err := CronParser.Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	if _, err := CronParser.Parse(c.Schedule.DigestCron); err != nil {
		return fmt.Errorf("schedule.digest_cron: %w", err)
	}
	return nil
}

// ValidateTelegram checks the fields the bot needs to deliver digests.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
