package facade

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/repsphere/internal/client/storage"
	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/dbx"
	"github.com/dmitrijs2005/repsphere/internal/logging"
	"github.com/dmitrijs2005/repsphere/internal/netx"
	"github.com/google/uuid"
)

// Uploader is the object storage used by Live.
type Uploader interface {
	Configured() bool
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, progress netx.ProgressFunc) (*storage.UploadResult, error)
}

// Live is the production Facade.
type Live struct {
	api      *api.Client
	store    Uploader
	db       *sql.DB
	repos    repomanager.RepositoryManager
	endpoint string
	log      logging.Logger
	now      func() time.Time
}

// NewLive wires a Live facade. db may be nil, in which case every record
// call fails with common.ErrorNotConfigured.
func NewLive(client *api.Client, store Uploader, db *sql.DB, repos repomanager.RepositoryManager, endpoint string, log logging.Logger) *Live {
	if log == nil {
		log = logging.Nop()
	}
	return &Live{api: client, store: store, db: db, repos: repos, endpoint: endpoint, log: log, now: time.Now}
}

var openFile = func(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (l *Live) UploadBinary(ctx context.Context, file FileRef, dest string, onProgress netx.ProgressFunc) (*UploadResult, error) {
	if l.store == nil || !l.store.Configured() {
		return nil, fmt.Errorf("storage: %w", common.ErrorNotConfigured)
	}

	f, err := openFile(file.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer f.Close()

	res, err := l.store.Upload(ctx, dest, f, file.Size, file.MIMEType, onProgress)
	if err != nil {
		return nil, err
	}
	return &UploadResult{Key: res.Key, PublicURL: res.PublicURL, Size: res.Size}, nil
}

func (l *Live) recordsDB() (*sql.DB, error) {
	if l.db == nil || l.repos == nil {
		return nil, fmt.Errorf("records: %w", common.ErrorNotConfigured)
	}
	return l.db, nil
}

func (l *Live) CreateRecord(ctx context.Context, f ConversationFields) (string, error) {
	db, err := l.recordsDB()
	if err != nil {
		return "", err
	}

	c := &models.Conversation{
		ID:          uuid.NewString(),
		UserID:      f.UserID,
		Filename:    f.Filename,
		FileURL:     f.FileURL,
		FileSize:    f.FileSize,
		MeetingType: f.MeetingType,
		Approach:    f.Approach,
		Status:      models.ConversationStatusAnalyzing,
	}
	if err := l.repos.Conversations(db).Create(ctx, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

func (l *Live) UpdateRecordStatus(ctx context.Context, id string, status models.ConversationStatus, message string) error {
	db, err := l.recordsDB()
	if err != nil {
		return err
	}
	return l.repos.Conversations(db).UpdateStatus(ctx, id, status, message)
}

func (l *Live) PersistParticipant(ctx context.Context, p models.Participant) error {
	db, err := l.recordsDB()
	if err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return l.repos.Participants(db).Create(ctx, &p)
}

// PersistAnalysis checks the conversation exists and stores the document in
// the same transaction.
func (l *Live) PersistAnalysis(ctx context.Context, conversationID string, result models.AnalysisResult) error {
	db, err := l.recordsDB()
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := l.repos.Conversations(tx).GetByID(ctx, conversationID); err != nil {
			return err
		}
		return l.repos.Analyses(tx).Create(ctx, &models.BehavioralAnalysis{
			ID:             uuid.NewString(),
			ConversationID: conversationID,
			Result:         []byte(result),
		})
	})
}

func (l *Live) InvokeAnalysis(ctx context.Context, token string, req api.AnalyzeRequest, timeout time.Duration) (*api.AnalyzeResponse, error) {
	return l.api.Analyze(ctx, token, l.endpoint, req, timeout)
}

func (l *Live) LogActivity(ctx context.Context, a models.Activity) {
	db, err := l.recordsDB()
	if err != nil {
		l.log.Debug(ctx, "activity logging skipped", "action", a.Action, "reason", err)
		return
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = l.now().UTC()
	}
	if err := l.repos.Activity(db).Create(ctx, &a); err != nil {
		l.log.Warn(ctx, "activity logging failed", "action", a.Action, "error", err)
	}
}

func (l *Live) CheckAuthStatus(ctx context.Context, token string) *api.AuthStatus {
	return l.api.AuthStatus(ctx, token)
}

func (l *Live) Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	return l.api.Login(ctx, creds)
}

func (l *Live) Signup(ctx context.Context, req api.SignupRequest) (*api.AuthResponse, error) {
	return l.api.Register(ctx, req)
}

func (l *Live) Logout(ctx context.Context, token string) error {
	return l.api.Logout(ctx, token)
}

func (l *Live) Usage(ctx context.Context, token string) (*api.Usage, error) {
	return l.api.Usage(ctx, token)
}
