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

const defaultEnvFile = ".env"

// loadEnvFile loads a dotenv file into the process environment. An explicit
// -env-file that cannot be read panics; a missing default ./.env is ignored.
func loadEnvFile() {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}
}

// parseEnv overlays cfg with REPSPHERE_* variables. Unset or empty
// variables leave the current value alone.
func parseEnv(cfg *Config) {
	str := func(name string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(envPrefix + name)); v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) {
		v := strings.TrimSpace(os.Getenv(envPrefix + name))
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}

	str("BACKEND", &cfg.Backend)
	str("API_URL", &cfg.APIBaseURL)
	str("ANALYSIS_ENDPOINT", &cfg.AnalysisEndpoint)
	dur("ANALYSIS_TIMEOUT", &cfg.AnalysisTimeout)

	str("DATABASE_DSN", &cfg.DatabaseDSN)
	str("DATA_DIR", &cfg.DataDir)

	str("S3_ENDPOINT", &cfg.S3Endpoint)
	str("S3_REGION", &cfg.S3Region)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)
	str("S3_PUBLIC_URL", &cfg.S3PublicBaseURL)
	dur("PRESIGN_TTL", &cfg.PresignTTL)

	str("MEETING_TYPE", &cfg.MeetingType)
	str("APPROACH", &cfg.Approach)

	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FILE", &cfg.LogFile)
}
