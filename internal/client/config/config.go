package config

import "time"

// Backend modes.
const (
	BackendLive = "live"
	BackendMock = "mock"
)

// Config holds runtime settings for the RepSphere CLI.
//
// Storage credentials are optional; without them every storage backed call
// fails with common.ErrorNotConfigured instead of crashing the client.
type Config struct {
	Backend          string
	APIBaseURL       string
	AnalysisEndpoint string
	AnalysisTimeout  time.Duration

	DatabaseDSN string
	DataDir     string

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
	PresignTTL      time.Duration

	MeetingType string
	Approach    string

	LogBackend string
	LogLevel   string
	LogFile    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendLive
	c.APIBaseURL = "http://localhost:3000"
	c.AnalysisEndpoint = "/webhook"
	c.AnalysisTimeout = 30 * time.Second
	c.DataDir = ".repsphere"
	c.S3Region = "us-east-1"
	c.S3Bucket = "recordings"
	c.PresignTTL = 15 * time.Minute
	c.MeetingType = "discovery"
	c.Approach = "socratic"
	c.LogBackend = "slog"
	c.LogLevel = "info"
}

// StorageConfigured reports whether object storage credentials are present.
func (c *Config) StorageConfigured() bool {
	return c.S3Bucket != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the dotenv file, the environment, JSON (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadEnvFile()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
