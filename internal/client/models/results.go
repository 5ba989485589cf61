package models

import "time"

// ResultEntry is a completed analysis kept in the local history cache.
// ConversationID is empty when the backend record could not be created.
type ResultEntry struct {
	ID             string
	ConversationID string
	Filename       string
	FileURL        string
	Result         AnalysisResult
	CompletedAt    time.Time
}
