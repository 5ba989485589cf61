package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
	"github.com/dmitrijs2005/repsphere/internal/client/auth"
	"github.com/dmitrijs2005/repsphere/internal/client/facade"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/client/repositories/results"
	"github.com/dmitrijs2005/repsphere/internal/client/storage"
	"github.com/dmitrijs2005/repsphere/internal/logging"
	"github.com/google/uuid"
)

// AuthSource supplies the signed-in identity.
type AuthSource interface {
	Token() string
	Snapshot() auth.State
}

type Options struct {
	MeetingType     string
	Approach        string
	AnalysisTimeout time.Duration
}

// Controller owns a single UploadSession. All methods are safe for
// concurrent use; StartAnalysis and Retry block until the workflow ends.
type Controller struct {
	facade  facade.Facade
	auth    AuthSource
	history results.Repository
	log     logging.Logger
	opts    Options
	now     func() time.Time

	mu         sync.Mutex
	s          session
	gen        uint64
	cancel     context.CancelFunc
	running    bool
	checkpoint *checkpoint
	listeners  []Listener
}

// New returns a controller in the upload state. a and history may be nil;
// without an auth source the analysis call fails closed.
func New(f facade.Facade, a AuthSource, history results.Repository, log logging.Logger, opts Options) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	if opts.AnalysisTimeout <= 0 {
		opts.AnalysisTimeout = 30 * time.Second
	}
	c := &Controller{facade: f, auth: a, history: history, log: log, opts: opts, now: time.Now}
	c.s.reset()
	return c
}

// Subscribe registers l for state change notifications.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:          c.s.state,
		Progress:       c.s.progress,
		LastError:      c.s.lastError,
		ConversationID: c.s.conversationID,
		PublicURL:      c.s.publicURL,
		Result:         c.s.result,
		ResultID:       c.s.resultID,
	}
	if c.s.file != nil {
		f := *c.s.file
		snap.File = &f
	}
	snap.CanResume = c.s.state == StateSelected && c.resumableLocked()
	return snap
}

func (c *Controller) resumableLocked() bool {
	cp := c.checkpoint
	return cp != nil && c.s.file != nil && cp.file == *c.s.file && cp.next >= stepCreateRecord && cp.upload != nil
}

// commit applies fn when gen is still current and notifies listeners.
func (c *Controller) commit(gen uint64, fn func(s *session)) bool {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return false
	}
	fn(&c.s)
	snap := c.snapshotLocked()
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return true
}

// SelectFile validates f and moves upload → selected. An invalid file keeps
// the session in upload with LastError set, and the validation error is
// returned.
func (c *Controller) SelectFile(f facade.FileRef) error {
	c.mu.Lock()
	gen := c.gen
	state := c.s.state
	c.mu.Unlock()

	if state != StateUpload {
		return ErrInvalidState
	}

	var verr error
	var msg string
	switch {
	case !isAllowedType(f.MIMEType):
		verr, msg = fmt.Errorf("%w: %q", ErrUnsupportedType, f.MIMEType), msgUnsupportedType
	case f.Size > MaxFileSize:
		verr, msg = fmt.Errorf("%w: %d bytes", ErrFileTooLarge, f.Size), msgFileTooLarge
	}

	c.commit(gen, func(s *session) {
		if verr != nil {
			s.lastError = msg
			return
		}
		file := f
		s.file = &file
		s.lastError = ""
		s.progress = 0
		s.state = StateSelected
	})
	return verr
}

// Remove drops the selected file and returns to upload from any state,
// cancelling a running workflow.
func (c *Controller) Remove() {
	c.resetSession()
}

// NewAnalysis starts over after a completed (or any other) session.
func (c *Controller) NewAnalysis() {
	c.resetSession()
}

func (c *Controller) resetSession() {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.running = false
	c.checkpoint = nil
	c.mu.Unlock()

	c.commit(gen, func(s *session) { s.reset() })
}

// StartAnalysis runs the whole workflow for the selected file and blocks
// until it completes or fails. It returns nil once the session is complete.
func (c *Controller) StartAnalysis(ctx context.Context) error {
	return c.run(ctx, false)
}

// Retry re-runs the workflow. When the previous attempt already uploaded
// the same file it resumes at the analysis stage instead of uploading again.
func (c *Controller) Retry(ctx context.Context) error {
	return c.run(ctx, true)
}

func (c *Controller) run(ctx context.Context, resume bool) error {
	c.mu.Lock()
	if c.s.file == nil {
		c.mu.Unlock()
		return ErrNoFileSelected
	}
	if c.s.state != StateSelected || c.running {
		c.mu.Unlock()
		return ErrInvalidState
	}

	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.running = true
	file := *c.s.file

	cp := &checkpoint{file: file, next: stepUpload}
	if resume && c.resumableLocked() {
		cp = c.checkpoint
	}
	c.checkpoint = cp
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		if c.gen == gen {
			c.cancel = nil
			c.running = false
		}
		c.mu.Unlock()
	}()

	log := c.log.With("file", file.Name)
	return c.execute(runCtx, gen, cp, file, log)
}

func (c *Controller) execute(ctx context.Context, gen uint64, cp *checkpoint, file facade.FileRef, log logging.Logger) error {
	userID, token := c.identity()
	if err := ctx.Err(); err != nil {
		return err
	}

	if cp.next <= stepUpload {
		c.commit(gen, func(s *session) {
			s.state = StateUploading
			s.progress = 0
			s.lastError = ""
		})

		dest := storage.ObjectKey(c.now(), file.Name)
		res, err := c.facade.UploadBinary(ctx, file, dest, func(p int) {
			c.commit(gen, func(s *session) {
				if s.state == StateUploading && p > s.progress {
					s.progress = p
				}
			})
		})
		if err != nil {
			log.Warn(ctx, "upload failed", "step", "upload", "error", err)
			c.commit(gen, func(s *session) {
				s.state = StateSelected
				s.lastError = uploadMessage(err)
			})
			return fmt.Errorf("upload: %w", err)
		}
		cp.upload = res
		cp.next = stepCreateRecord
	}

	c.commit(gen, func(s *session) {
		s.state = StateAnalyzing
		s.progress = 100
		s.lastError = ""
		s.publicURL = cp.upload.PublicURL
	})

	if cp.next <= stepCreateRecord {
		id, err := c.facade.CreateRecord(ctx, facade.ConversationFields{
			UserID:      userID,
			Filename:    file.Name,
			FileURL:     cp.upload.PublicURL,
			FileSize:    file.Size,
			MeetingType: c.opts.MeetingType,
			Approach:    c.opts.Approach,
		})
		if err != nil {
			log.Warn(ctx, "conversation record not created, continuing without it", "step", "create_record", "error", err)
		} else {
			cp.conversationID = id
		}
		cp.next = stepAnalyze
	} else if cp.conversationID != "" {
		if err := c.facade.UpdateRecordStatus(ctx, cp.conversationID, models.ConversationStatusAnalyzing, ""); err != nil {
			log.Warn(ctx, "conversation status not reset", "conversation_id", cp.conversationID, "error", err)
		}
	}

	c.commit(gen, func(s *session) { s.conversationID = cp.conversationID })
	if cp.conversationID != "" {
		log = log.With("conversation_id", cp.conversationID)
	}

	resp, err := c.invokeAnalysis(ctx, token, api.AnalyzeRequest{
		FileURL:        cp.upload.PublicURL,
		ConversationID: cp.conversationID,
		Action:         "analyze",
		Data:           api.AnalyzeInput{MeetingType: c.opts.MeetingType, Approach: c.opts.Approach},
	})
	if err != nil {
		msg := analysisMessage(err)
		log.Warn(ctx, "analysis failed", "step", "analyze", "error", err)
		if cp.conversationID != "" {
			// The workflow context may already be done; the status update
			// still gets a short window of its own.
			uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if uerr := c.facade.UpdateRecordStatus(uctx, cp.conversationID, models.ConversationStatusError, msg); uerr != nil {
				log.Warn(ctx, "conversation status not updated", "error", uerr)
			}
			cancel()
		}
		c.commit(gen, func(s *session) {
			s.state = StateSelected
			s.lastError = msg
		})
		return fmt.Errorf("analysis: %w", err)
	}

	result := resp.Analysis

	c.facade.LogActivity(ctx, models.Activity{
		UserID:         userID,
		Action:         "analyze",
		Result:         "success",
		ConversationID: cp.conversationID,
		Detail:         file.Name,
		CreatedAt:      c.now().UTC(),
	})

	if cp.conversationID != "" {
		c.persist(ctx, cp.conversationID, result, log)
	}

	resultID := c.saveHistory(ctx, cp, file, result, log)

	c.mu.Lock()
	if c.gen == gen {
		c.checkpoint = nil
	}
	c.mu.Unlock()

	ok := c.commit(gen, func(s *session) {
		s.state = StateComplete
		s.file = nil
		s.lastError = ""
		s.result = result
		s.resultID = resultID
	})
	if !ok {
		return context.Canceled
	}
	log.Info(ctx, "analysis complete", "state", StateComplete)
	return nil
}

// invokeAnalysis bounds the remote call by AnalysisTimeout whether or not
// the facade honours the timeout it is given.
func (c *Controller) invokeAnalysis(ctx context.Context, token string, req api.AnalyzeRequest) (*api.AnalyzeResponse, error) {
	actx, cancel := context.WithTimeoutCause(ctx, c.opts.AnalysisTimeout, api.ErrTimeout)
	defer cancel()

	resp, err := c.facade.InvokeAnalysis(actx, token, req, c.opts.AnalysisTimeout)
	if ctx.Err() == nil && errors.Is(context.Cause(actx), api.ErrTimeout) {
		if err == nil || !errors.Is(err, api.ErrTimeout) {
			return nil, fmt.Errorf("%w after %s", api.ErrTimeout, c.opts.AnalysisTimeout)
		}
	}
	return resp, err
}

func (c *Controller) identity() (userID, token string) {
	if c.auth == nil {
		return "", ""
	}
	if st := c.auth.Snapshot(); st.User != nil {
		userID = st.User.ID
	}
	return userID, c.auth.Token()
}

// persist marks the conversation completed and stores the analysis and its
// participants. Failures are logged only.
func (c *Controller) persist(ctx context.Context, conversationID string, result models.AnalysisResult, log logging.Logger) {
	if err := c.facade.UpdateRecordStatus(ctx, conversationID, models.ConversationStatusCompleted, ""); err != nil {
		log.Warn(ctx, "conversation not marked completed", "error", err)
	}
	if err := c.facade.PersistAnalysis(ctx, conversationID, result); err != nil {
		log.Warn(ctx, "analysis not persisted", "error", err)
	}
	for _, p := range result.Participants() {
		err := c.facade.PersistParticipant(ctx, models.Participant{
			ConversationID: conversationID,
			Name:           p.Name,
			Role:           p.Role,
			Profile:        p.Profile,
		})
		if err != nil {
			log.Warn(ctx, "participant not persisted", "participant", p.Name, "error", err)
		}
	}
}

func (c *Controller) saveHistory(ctx context.Context, cp *checkpoint, file facade.FileRef, result models.AnalysisResult, log logging.Logger) string {
	id := cp.conversationID
	if id == "" {
		id = "local-" + uuid.NewString()
	}
	if c.history == nil {
		return id
	}

	err := c.history.Save(ctx, &models.ResultEntry{
		ID:             id,
		ConversationID: cp.conversationID,
		Filename:       file.Name,
		FileURL:        cp.upload.PublicURL,
		Result:         result,
		CompletedAt:    c.now(),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn(ctx, "result not saved to local history", "error", err)
	}
	return id
}
