package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/repsphere/internal/flagx"
	"github.com/dmitrijs2005/repsphere/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Only fields
// present in the file are copied into Config.
type JsonConfig struct {
	Backend          string         `json:"backend"`
	APIBaseURL       string         `json:"api_url"`
	AnalysisEndpoint string         `json:"analysis_endpoint"`
	AnalysisTimeout  timex.Duration `json:"analysis_timeout"`

	DatabaseDSN string `json:"database_dsn"`
	DataDir     string `json:"data_dir"`

	S3Endpoint      string         `json:"s3_endpoint"`
	S3Region        string         `json:"s3_region"`
	S3Bucket        string         `json:"s3_bucket"`
	S3AccessKey     string         `json:"s3_access_key"`
	S3SecretKey     string         `json:"s3_secret_key"`
	S3PublicBaseURL string         `json:"s3_public_url"`
	PresignTTL      timex.Duration `json:"presign_ttl"`

	MeetingType string `json:"meeting_type"`
	Approach    string `json:"approach"`

	LogBackend string `json:"log_backend"`
	LogLevel   string `json:"log_level"`
	LogFile    string `json:"log_file"`
}

// parseJson overlays Config with values loaded from the file named by -c or
// -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.Backend, jc.Backend)
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.AnalysisEndpoint, jc.AnalysisEndpoint)
	if jc.AnalysisTimeout.Duration > 0 {
		cfg.AnalysisTimeout = jc.AnalysisTimeout.Duration
	}

	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.DataDir, jc.DataDir)

	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3PublicBaseURL, jc.S3PublicBaseURL)
	if jc.PresignTTL.Duration > 0 {
		cfg.PresignTTL = jc.PresignTTL.Duration
	}

	setString(&cfg.MeetingType, jc.MeetingType)
	setString(&cfg.Approach, jc.Approach)

	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
