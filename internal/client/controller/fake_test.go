package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/auth"
	"github.com/dmitrijs2005/repsphere/internal/client/facade"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/netx"
)

type statusUpdate struct {
	id      string
	status  models.ConversationStatus
	message string
}

// fakeFacade records calls and lets each test script the critical steps.
type fakeFacade struct {
	mu sync.Mutex

	uploadFn  func(ctx context.Context, file facade.FileRef, dest string, p netx.ProgressFunc) (*facade.UploadResult, error)
	createErr error
	analyzeFn func(ctx context.Context, token string, req api.AnalyzeRequest) (*api.AnalyzeResponse, error)
	statusErr error
	persistErr error

	uploads      []string
	created      []facade.ConversationFields
	statuses     []statusUpdate
	analyses     map[string]models.AnalysisResult
	participants []models.Participant
	activities   []models.Activity
	analyzeReqs  []api.AnalyzeRequest
	tokens       []string
	timeouts     []time.Duration
}

func newFakeFacade() *fakeFacade {
	return &fakeFacade{analyses: make(map[string]models.AnalysisResult)}
}

func (f *fakeFacade) UploadBinary(ctx context.Context, file facade.FileRef, dest string, p netx.ProgressFunc) (*facade.UploadResult, error) {
	f.mu.Lock()
	f.uploads = append(f.uploads, dest)
	fn := f.uploadFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, file, dest, p)
	}
	for _, v := range []int{0, 40, 80, 100} {
		p(v)
	}
	return &facade.UploadResult{Key: dest, PublicURL: "https://cdn.example.com/" + dest, Size: file.Size}, nil
}

func (f *fakeFacade) CreateRecord(ctx context.Context, c facade.ConversationFields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, c)
	if f.createErr != nil {
		return "", f.createErr
	}
	return "conv-1", nil
}

func (f *fakeFacade) UpdateRecordStatus(ctx context.Context, id string, status models.ConversationStatus, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, statusUpdate{id, status, message})
	return f.statusErr
}

func (f *fakeFacade) PersistParticipant(ctx context.Context, p models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.participants = append(f.participants, p)
	return f.persistErr
}

func (f *fakeFacade) PersistAnalysis(ctx context.Context, conversationID string, result models.AnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analyses[conversationID] = result
	return f.persistErr
}

func (f *fakeFacade) InvokeAnalysis(ctx context.Context, token string, req api.AnalyzeRequest, timeout time.Duration) (*api.AnalyzeResponse, error) {
	f.mu.Lock()
	f.analyzeReqs = append(f.analyzeReqs, req)
	f.tokens = append(f.tokens, token)
	f.timeouts = append(f.timeouts, timeout)
	fn := f.analyzeFn
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, token, req)
	}
	if token == "" {
		return nil, api.ErrAuthRequired
	}
	return &api.AnalyzeResponse{Message: "ok", Analysis: facade.CannedAnalysis}, nil
}

func (f *fakeFacade) LogActivity(ctx context.Context, a models.Activity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activities = append(f.activities, a)
}

func (f *fakeFacade) CheckAuthStatus(ctx context.Context, token string) *api.AuthStatus {
	return &api.AuthStatus{}
}

func (f *fakeFacade) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeFacade) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeFacade) Logout(ctx context.Context, token string) error { return nil }

func (f *fakeFacade) Usage(ctx context.Context, token string) (*api.Usage, error) {
	return nil, errors.New("not used")
}

type staticAuth struct {
	token string
	user  *auth.User
}

func (a staticAuth) Token() string { return a.token }

func (a staticAuth) Snapshot() auth.State {
	return auth.State{Authenticated: a.user != nil, User: a.user}
}

type memHistory struct {
	mu      sync.Mutex
	entries map[string]*models.ResultEntry
	err     error
}

func newMemHistory() *memHistory {
	return &memHistory{entries: make(map[string]*models.ResultEntry)}
}

func (h *memHistory) Save(ctx context.Context, e *models.ResultEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	cp := *e
	h.entries[e.ID] = &cp
	return nil
}

func (h *memHistory) Get(ctx context.Context, id string) (*models.ResultEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return e, nil
}

func (h *memHistory) List(ctx context.Context, limit int) ([]*models.ResultEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*models.ResultEntry, 0, len(h.entries))
	for _, e := range h.entries {
		out = append(out, e)
	}
	return out, nil
}

// gatedAuth blocks in Snapshot until release is closed.
type gatedAuth struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (a *gatedAuth) Token() string { return "tok" }

func (a *gatedAuth) Snapshot() auth.State {
	a.once.Do(func() { close(a.entered) })
	<-a.release
	return auth.State{Authenticated: true, User: &auth.User{ID: "u-1"}}
}
