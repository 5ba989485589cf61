package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "REPSPHERE_"

// loadEnvFile loads -env-file, or ./.env when present.
func loadEnvFile() {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}
}

func parseEnv(cfg *Config) {
	get := func(name string) string {
		return strings.TrimSpace(os.Getenv(envPrefix + name))
	}
	str := func(name string, dst *string) {
		if v := get(name); v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		if v := get(name); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("ADDR", &cfg.ListenAddr)
	str("DATABASE_DSN", &cfg.DatabaseDSN)
	str("JWT_SECRET", &cfg.SecretKey)
	if v := get("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	dur("LIMITS_CACHE_TTL", &cfg.LimitsCacheTTL)
	dur("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_FILE", &cfg.LogFile)
	str("STRIPE_WEBHOOK_SECRET", &cfg.StripeWebhookSecret)
	if v := get("STRIPE_PRODUCT_TIERS"); v != "" {
		cfg.StripeProductTiers = splitPairs(v)
	}
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitPairs parses "k1=v1,k2=v2". Items without "=" are dropped.
func splitPairs(s string) map[string]string {
	out := make(map[string]string)
	for _, item := range splitList(s) {
		k, v, ok := strings.Cut(item, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if ok && k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
