package facade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/netx"
	"github.com/google/uuid"
)

const mockToken = "mock-session-token"

// CannedAnalysis is the document every Mock analysis returns.
var CannedAnalysis = models.AnalysisResult(`{
  "summary": "Discovery call with a mid-market prospect evaluating a replacement for their current tooling. The buyer is analytical and cost-focused; the champion is enthusiastic but lacks budget authority.",
  "key_points": [
    "Current tool causes roughly 6 hours of manual reporting per week",
    "Budget is approved for Q3 but requires CFO sign-off",
    "Competitor pilot ends in 30 days"
  ],
  "behavioral_indicators": {
    "engagement": "high",
    "objections": ["price", "migration effort"],
    "buying_signals": ["asked about onboarding timeline", "requested references"]
  },
  "psychological_profiles": [
    {"name": "Dana", "role": "buyer", "style": "analytical", "motivators": ["risk reduction", "clear ROI"]},
    {"name": "Sam", "role": "champion", "style": "expressive", "motivators": ["team recognition"]}
  ],
  "strategic_advice": "Lead the next meeting with a quantified ROI model and bring a migration plan that addresses the effort objection directly.",
  "socratic_questions": [
    "What would it mean for your team to get those six hours back each week?",
    "How will the CFO judge whether this project was a success?"
  ],
  "key_moments": [
    {"timestamp": "04:12", "description": "Buyer raises pricing concern"},
    {"timestamp": "17:45", "description": "Champion asks about onboarding"}
  ],
  "next_steps": ["Send ROI model", "Schedule call with CFO", "Share two customer references"]
}`)

// Mock is an in-memory Facade for demos and offline use. Every call
// succeeds; uploads report progress in steps of ProgressStep percent,
// sleeping StepDelay between steps.
type Mock struct {
	StepDelay    time.Duration
	ProgressStep int

	mu            sync.Mutex
	conversations map[string]*models.Conversation
	analyses      map[string]models.AnalysisResult
	participants  map[string][]models.Participant
	activity      []models.Activity
	user          *api.User
	analysesCount int
}

func NewMock() *Mock {
	return &Mock{
		StepDelay:     100 * time.Millisecond,
		ProgressStep:  10,
		conversations: make(map[string]*models.Conversation),
		analyses:      make(map[string]models.AnalysisResult),
		participants:  make(map[string][]models.Participant),
	}
}

func (m *Mock) sleep(ctx context.Context) error {
	if m.StepDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.StepDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *Mock) UploadBinary(ctx context.Context, file FileRef, dest string, onProgress netx.ProgressFunc) (*UploadResult, error) {
	step := m.ProgressStep
	if step <= 0 || step > 100 {
		step = 100
	}
	for p := 0; p < 100; p += step {
		if onProgress != nil {
			onProgress(p)
		}
		if err := m.sleep(ctx); err != nil {
			return nil, err
		}
	}
	if onProgress != nil {
		onProgress(100)
	}
	return &UploadResult{Key: dest, PublicURL: "https://mock.storage.local/recordings/" + dest, Size: file.Size}, nil
}

func (m *Mock) CreateRecord(ctx context.Context, f ConversationFields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	c := &models.Conversation{
		ID: uuid.NewString(), UserID: f.UserID, Filename: f.Filename, FileURL: f.FileURL, FileSize: f.FileSize,
		MeetingType: f.MeetingType, Approach: f.Approach, Status: models.ConversationStatusAnalyzing,
		CreatedAt: now, UpdatedAt: now,
	}
	m.conversations[c.ID] = c
	return c.ID, nil
}

func (m *Mock) UpdateRecordStatus(ctx context.Context, id string, status models.ConversationStatus, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conversations[id]
	if !ok {
		return fmt.Errorf("conversation %s not found", id)
	}
	c.Status = status
	c.ErrorMessage = message
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *Mock) PersistParticipant(ctx context.Context, p models.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.participants[p.ConversationID] = append(m.participants[p.ConversationID], p)
	return nil
}

func (m *Mock) PersistAnalysis(ctx context.Context, conversationID string, result models.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyses[conversationID] = result
	return nil
}

func (m *Mock) InvokeAnalysis(ctx context.Context, token string, req api.AnalyzeRequest, timeout time.Duration) (*api.AnalyzeResponse, error) {
	actx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeoutCause(ctx, timeout, api.ErrTimeout)
		defer cancel()
	}
	if err := m.sleep(actx); err != nil {
		if ctx.Err() == nil && errors.Is(context.Cause(actx), api.ErrTimeout) {
			return nil, fmt.Errorf("%w after %s", api.ErrTimeout, timeout)
		}
		return nil, err
	}

	m.mu.Lock()
	m.analysesCount++
	n := m.analysesCount
	m.mu.Unlock()

	return &api.AnalyzeResponse{
		Message:  "Analysis completed",
		Usage:    &api.UsageCounter{Current: n, Limit: 10},
		Analysis: CannedAnalysis,
	}, nil
}

func (m *Mock) LogActivity(ctx context.Context, a models.Activity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.activity = append(m.activity, a)
}

func (m *Mock) CheckAuthStatus(ctx context.Context, token string) *api.AuthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token != mockToken || m.user == nil {
		return &api.AuthStatus{}
	}
	u := *m.user
	return &api.AuthStatus{Authenticated: true, User: &u}
}

func (m *Mock) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	name := creds.Email
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	return m.signIn(api.User{ID: uuid.NewString(), Name: name, Email: creds.Email}), nil
}

func (m *Mock) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	return m.signIn(api.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email}), nil
}

func (m *Mock) signIn(u api.User) *api.AuthResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &u
	return &api.AuthResponse{Token: mockToken, User: u}
}

func (m *Mock) Logout(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	return nil
}

func (m *Mock) Usage(ctx context.Context, token string) (*api.Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &api.Usage{
		Tier:      "free",
		Usage:     m.analysesCount,
		Quota:     10,
		ResetDate: time.Now().UTC().AddDate(0, 0, 30).Format(time.RFC3339),
	}, nil
}

// Conversation returns a copy of a stored record.
func (m *Mock) Conversation(id string) (models.Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return models.Conversation{}, false
	}
	return *c, true
}

// Activities returns the activity log so far.
func (m *Mock) Activities() []models.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Activity(nil), m.activity...)
}

// Participants returns the participants stored for a conversation.
func (m *Mock) Participants(conversationID string) []models.Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Participant(nil), m.participants[conversationID]...)
}
