package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestRenderReport(t *testing.T) {
	doc := models.AnalysisResult(`{
		"summary": "Short call.",
		"key_moments": [{"timestamp": "01:02", "description": "Pricing raised"}],
		"behavioral_indicators": {"engagement": "high", "objections": ["price", "timing"]},
		"participants": {"Alex": {"role": "buyer", "style": "driver"}}
	}`)

	var buf bytes.Buffer
	renderReport(&buf, doc)
	out := buf.String()

	assert.Contains(t, out, "Short call.")
	assert.Contains(t, out, "- 01:02 Pricing raised")
	assert.Contains(t, out, "Engagement: high")
	assert.Contains(t, out, "Objections: price, timing")
	assert.Contains(t, out, "Alex (buyer)")
	assert.Contains(t, out, "  Style: driver")
	assert.NotContains(t, out, "Role:")
}

func TestRenderReport_NotJSONObject(t *testing.T) {
	var buf bytes.Buffer
	renderReport(&buf, models.AnalysisResult(`"just text"`))
	assert.Empty(t, buf.String())
}

func TestSectionTitle(t *testing.T) {
	assert.Equal(t, "Socratic Questions", sectionTitle("socratic_questions"))
	assert.Equal(t, "Summary", sectionTitle("summary"))
	assert.Equal(t, "Buying Signals", sectionTitle("buying-signals"))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{50 << 20, "50.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.in), tt.in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestAuthMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", fmt.Errorf("%w: email is invalid", common.ErrorValidation), "validation error: email is invalid"},
		{"status", &api.StatusError{StatusCode: 401, Message: "Invalid credentials"}, "Invalid credentials"},
		{"network", fmt.Errorf("login: %w", api.ErrNetwork), "the server could not be reached"},
		{"other", errors.New("pq: relation does not exist"), "unexpected error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authMessage(tt.err))
		})
	}
}
