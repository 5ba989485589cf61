package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/models"
)

// AnalyzeRequest is the body of the analysis call. FileURL travels as
// "filename" because that is the key the gateway reads.
type AnalyzeRequest struct {
	FileURL        string       `json:"filename"`
	ConversationID string       `json:"conversation_id,omitempty"`
	Action         string       `json:"action"`
	Data           AnalyzeInput `json:"data"`
}

type AnalyzeInput struct {
	MeetingType string `json:"meetingType"`
	Approach    string `json:"approach"`
}

type UsageCounter struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
}

// AnalyzeResponse is the gateway reply. When the reply has no "analysis"
// member the whole body is treated as the analysis document.
type AnalyzeResponse struct {
	Message  string                `json:"message"`
	UserID   string                `json:"user_id"`
	Usage    *UsageCounter         `json:"usage,omitempty"`
	Analysis models.AnalysisResult `json:"analysis"`
}

// Analyze posts req to endpoint and waits at most timeout for the reply.
func (c *Client) Analyze(ctx context.Context, token, endpoint string, req AnalyzeRequest, timeout time.Duration) (*AnalyzeResponse, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	if req.Action == "" {
		req.Action = "analyze"
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, endpoint, token, req, &raw, "HTTP error"); err != nil {
		return nil, err
	}

	out := &AnalyzeResponse{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if len(out.Analysis) == 0 || string(out.Analysis) == "null" {
		out.Analysis = models.AnalysisResult(raw)
	}
	return out, nil
}
