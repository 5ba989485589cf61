package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// AnalyzeRequest is what the gateway hands to an Analyzer.
type AnalyzeRequest struct {
	UserID         string
	FileURL        string
	ConversationID string
	MeetingType    string
	Approach       string
}

// Analyzer turns a recording into an analysis document.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (json.RawMessage, error)
}

// CannedAnalyzer returns a fixed document shaped like a real analysis.
// Only the summary mentions the request.
type CannedAnalyzer struct{}

func (CannedAnalyzer) Analyze(ctx context.Context, req AnalyzeRequest) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meeting := req.MeetingType
	if meeting == "" {
		meeting = "sales call"
	}
	name := path.Base(strings.TrimSpace(req.FileURL))

	doc := map[string]any{
		"summary": fmt.Sprintf("Analysis of %s (%s): the buyer is interested but needs a clear ROI case before committing.", name, meeting),
		"key_points": []string{
			"Budget is approved for the next quarter",
			"Current tool is too slow for the support team",
			"Security review is required before purchase",
		},
		"behavioral_indicators": []map[string]string{
			{"timestamp": "02:14", "description": "Buyer leans in when pricing tiers are discussed"},
			{"timestamp": "11:40", "description": "Hesitation when integration timeline comes up"},
		},
		"psychological_profiles": []map[string]string{
			{"name": "Dana", "role": "buyer", "style": "analytical", "motivation": "risk reduction"},
			{"name": "Sam", "role": "seller", "style": "expressive", "motivation": "closing this quarter"},
		},
		"strategic_advice": []string{
			"Lead the next call with a quantified ROI estimate",
			"Bring a security whitepaper to pre-empt the review",
		},
		"socratic_questions": []string{
			"What would make this an easy decision for your CFO?",
			"How are you measuring the cost of the current delays?",
		},
		"key_moments": []map[string]string{
			{"timestamp": "07:05", "description": "Buyer names the internal champion"},
		},
		"next_steps": []string{
			"Send ROI calculator",
			"Schedule security review",
		},
	}
	return json.Marshal(doc)
}
