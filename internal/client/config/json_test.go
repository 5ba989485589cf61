package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"backend":          "mock",
		"analysis_timeout": "10s",
		"s3_bucket":        "calls",
		"presign_ttl":      int64(2 * time.Minute),
	})

	t.Run("loads from -c", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{APIBaseURL: "http://keep"}
		parseJson(cfg)

		assert.Equal(t, "mock", cfg.Backend)
		assert.Equal(t, 10*time.Second, cfg.AnalysisTimeout)
		assert.Equal(t, "calls", cfg.S3Bucket)
		assert.Equal(t, 2*time.Minute, cfg.PresignTTL)
		assert.Equal(t, "http://keep", cfg.APIBaseURL, "absent keys must not clear values")
	})

	t.Run("no flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{Backend: "live", AnalysisTimeout: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "live", cfg.Backend)
		assert.Equal(t, 42*time.Second, cfg.AnalysisTimeout)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
