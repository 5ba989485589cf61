// Package facade puts every external call the client makes behind one
// interface. Live talks to object storage, PostgreSQL and the analysis
// gateway; Mock answers from memory with canned data.
package facade

import (
	"context"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/netx"
)

// FileRef points at a local recording.
type FileRef struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
}

type UploadResult struct {
	Key       string
	PublicURL string
	Size      int64
}

// ConversationFields are the columns set when a conversation is created.
type ConversationFields struct {
	UserID      string
	Filename    string
	FileURL     string
	FileSize    int64
	MeetingType string
	Approach    string
}

// Facade is the client's view of the outside world.
//
// UploadBinary and InvokeAnalysis are the critical calls; their errors end
// the workflow. The record calls return errors the caller is expected to
// log and ignore. LogActivity never reports failure.
type Facade interface {
	UploadBinary(ctx context.Context, file FileRef, dest string, onProgress netx.ProgressFunc) (*UploadResult, error)
	CreateRecord(ctx context.Context, f ConversationFields) (string, error)
	UpdateRecordStatus(ctx context.Context, id string, status models.ConversationStatus, message string) error
	PersistParticipant(ctx context.Context, p models.Participant) error
	PersistAnalysis(ctx context.Context, conversationID string, result models.AnalysisResult) error
	InvokeAnalysis(ctx context.Context, token string, req api.AnalyzeRequest, timeout time.Duration) (*api.AnalyzeResponse, error)
	LogActivity(ctx context.Context, a models.Activity)

	CheckAuthStatus(ctx context.Context, token string) *api.AuthStatus
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Usage(ctx context.Context, token string) (*api.Usage, error)
}
