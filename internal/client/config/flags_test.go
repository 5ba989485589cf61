package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		start       Config
		expected    Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name:  "all flags",
			args:  []string{"cmd", "-m", "mock", "-a", "http://api:8080", "-t", "5", "-d", "dsn", "-b", "bkt", "-e", "http://s3", "-l", "debug"},
			start: Config{AnalysisTimeout: 30 * time.Second},
			expected: Config{Backend: "mock", APIBaseURL: "http://api:8080", AnalysisTimeout: 5 * time.Second,
				DatabaseDSN: "dsn", S3Bucket: "bkt", S3Endpoint: "http://s3", LogLevel: "debug"},
		},
		{
			name:     "timeout untouched when -t absent",
			args:     []string{"cmd", "-config", "x.json"},
			start:    Config{AnalysisTimeout: 1500 * time.Millisecond},
			expected: Config{AnalysisTimeout: 1500 * time.Millisecond},
		},
		{
			name:        "bad timeout",
			args:        []string{"cmd", "-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := tt.start

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(&cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(&cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
