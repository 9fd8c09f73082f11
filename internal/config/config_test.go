package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into a fresh directory so godotenv does not pick up a stray .env.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := chdir(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "NZD", cfg.FX.Base)
	assert.Equal(t, []string{"USD", "AUD", "INR", "CNY"}, cfg.FX.Quotes)
	assert.Equal(t, "most-recent", cfg.FX.Anchor)
	assert.Equal(t, "most-complete", cfg.Market.Anchor)
	assert.Equal(t, 7, cfg.Market.AnchorLookback)
	assert.Len(t, cfg.Market.Instruments, 13)
	assert.Equal(t, "entries", cfg.Engine.WindowMode)
	assert.Error(t, cfg.ValidateTelegram())
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
telegram:
  bot_token: file-token
  chat_id: "100"
fx:
  base: USD
  quotes: [EUR, JPY]
market:
  anchor: most-recent
  instruments:
    BTC-USD:
      name: Bitcoin
      category: Crypto
      currency: USD
      display_symbol: BTC
engine:
  window_mode: calendar
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TELEGRAM_CHAT_ID=200\n"), 0o644))
	t.Setenv("TELEGRAM_CHAT_ID", "")
	os.Unsetenv("TELEGRAM_CHAT_ID")
	t.Setenv("FX_QUOTES", "EUR, GBP ,")
	t.Setenv("RETENTION_DAYS", "10")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateTelegram())

	assert.Equal(t, "file-token", cfg.Telegram.BotToken)
	assert.Equal(t, "200", cfg.Telegram.ChatID)
	assert.Equal(t, "USD", cfg.FX.Base)
	assert.Equal(t, []string{"EUR", "GBP"}, cfg.FX.Quotes)
	assert.Equal(t, 10, cfg.FX.RetentionDays)
	assert.Equal(t, 10, cfg.Market.RetentionDays)
	assert.Equal(t, "calendar", cfg.Engine.WindowMode)
	assert.Equal(t, "BTC", cfg.Market.Instruments["BTC-USD"].DisplaySymbol)
	assert.Len(t, cfg.Market.Instruments, 1)
}

func TestLoad_BadInput(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fx: [unclosed"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")

	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
	t.Setenv("RETENTION_DAYS", "many")
	_, err = Load(path)
	assert.ErrorContains(t, err, "RETENTION_DAYS")
}

func TestValidate(t *testing.T) {
	chdir(t)
	base, err := Load("missing.yaml")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad anchor", func(c *Config) { c.FX.Anchor = "oldest" }},
		{"bad window mode", func(c *Config) { c.Engine.WindowMode = "trading" }},
		{"bad cron", func(c *Config) { c.Schedule.DigestCron = "every morning" }},
		{"five field cron", func(c *Config) { c.Schedule.RefreshCron = "0 6 * * *" }},
		{"no days", func(c *Config) { c.Market.Days = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
