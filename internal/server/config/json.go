package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/repsphere/internal/flagx"
	"github.com/dmitrijs2005/repsphere/internal/timex"
)

// JsonConfig is the on-disk shape of the -c/-config file. Durations accept
// both "1m" strings and integer nanoseconds.
type JsonConfig struct {
	ListenAddr      string         `json:"listen_addr"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	AllowedOrigins  []string       `json:"allowed_origins"`
	LimitsCacheTTL  timex.Duration `json:"limits_cache_ttl"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
	LogBackend      string         `json:"log_backend"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	LogFile         string         `json:"log_file"`

	StripeWebhookSecret string            `json:"stripe_webhook_secret"`
	StripeProductTiers  map[string]string `json:"stripe_product_tiers"`
}

// parseJson overlays Config with the non-empty values of the JSON file, if
// one was given. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var c JsonConfig
	if err := json.Unmarshal(data, &c); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.ListenAddr, c.ListenAddr)
	set(&cfg.DatabaseDSN, c.DatabaseDSN)
	set(&cfg.SecretKey, c.SecretKey)
	if len(c.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = c.AllowedOrigins
	}
	if c.LimitsCacheTTL.Duration > 0 {
		cfg.LimitsCacheTTL = c.LimitsCacheTTL.Duration
	}
	if c.ShutdownTimeout.Duration > 0 {
		cfg.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	set(&cfg.LogBackend, c.LogBackend)
	set(&cfg.LogLevel, c.LogLevel)
	set(&cfg.LogFormat, c.LogFormat)
	set(&cfg.LogFile, c.LogFile)
	set(&cfg.StripeWebhookSecret, c.StripeWebhookSecret)
	if len(c.StripeProductTiers) > 0 {
		cfg.StripeProductTiers = c.StripeProductTiers
	}
}
