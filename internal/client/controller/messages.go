package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/repsphere/internal/client/api"
)

const (
	msgUnsupportedType = "Unsupported file type. Please choose an MP3, WAV or M4A recording."
	msgFileTooLarge    = "File is too large. The maximum size is 50 MB."
	msgUploadCancelled = "Upload cancelled."

	msgTimeout   = "The analysis timed out. The service may be busy or the recording too long; please try again."
	msgNetwork   = "Network error: the analysis service could not be reached. Check your connection and try again."
	msgAuth      = "Please sign in before starting an analysis."
	msgCancelled = "Analysis cancelled."
	msgUnknown   = "An error occurred during analysis. Please try again."
)

// analysisMessage turns an analysis error into the text shown to the user.
func analysisMessage(err error) string {
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrTimeout):
		return msgTimeout
	case errors.Is(err, api.ErrNetwork):
		return msgNetwork
	case errors.As(err, &se):
		return fmt.Sprintf("Analysis failed (HTTP %d): %s", se.StatusCode, se.Message)
	case errors.Is(err, api.ErrAuthRequired):
		return msgAuth
	case errors.Is(err, context.Canceled):
		return msgCancelled
	default:
		return msgUnknown
	}
}

// uploadMessage passes the storage error through unchanged.
func uploadMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return msgUploadCancelled
	}
	return err.Error()
}
