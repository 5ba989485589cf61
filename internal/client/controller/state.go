// Package controller drives one recording through upload and analysis.
//
// The workflow moves through the states upload → selected → uploading →
// analyzing → complete. Upload and analysis failures return the session to
// selected so the same file can be retried; record keeping failures are
// logged and never stop the workflow.
package controller

import (
	"errors"

	"github.com/dmitrijs2005/repsphere/internal/client/facade"
	"github.com/dmitrijs2005/repsphere/internal/client/models"
	"github.com/dmitrijs2005/repsphere/internal/common"
)

type State string

const (
	StateUpload    State = "upload"
	StateSelected  State = "selected"
	StateUploading State = "uploading"
	StateAnalyzing State = "analyzing"
	StateComplete  State = "complete"
)

// MaxFileSize is the largest recording accepted.
const MaxFileSize = common.MaxUploadBytes

// AllowedMIMETypes lists the recording formats accepted.
var AllowedMIMETypes = []string{"audio/mpeg", "audio/wav", "audio/mp4", "audio/x-m4a"}

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrNoFileSelected  = errors.New("no file selected")
	ErrInvalidState    = errors.New("operation not allowed in current state")
)

// Snapshot is a copy of the session state.
type Snapshot struct {
	State          State
	File           *facade.FileRef
	Progress       int
	LastError      string
	ConversationID string
	PublicURL      string
	Result         models.AnalysisResult
	// ResultID identifies the completed result in the local history.
	ResultID string
	// CanResume is true when a retry can skip the upload.
	CanResume bool
}

// Listener is called after every state change. It must not call back into
// the controller synchronously.
type Listener func(Snapshot)

type session struct {
	state          State
	file           *facade.FileRef
	progress       int
	lastError      string
	conversationID string
	publicURL      string
	result         models.AnalysisResult
	resultID       string
}

func (s *session) reset() {
	*s = session{state: StateUpload}
}

// step numbers a stage of the analysis workflow so a retry can resume.
type step int

const (
	stepUpload step = iota + 1
	stepCreateRecord
	stepAnalyze
)

// checkpoint remembers how far the last attempt got for one file.
type checkpoint struct {
	file           facade.FileRef
	next           step
	upload         *facade.UploadResult
	conversationID string
}

func isAllowedType(mime string) bool {
	for _, t := range AllowedMIMETypes {
		if t == mime {
			return true
		}
	}
	return false
}
