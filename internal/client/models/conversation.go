// Package models defines the client-side records of an analysed conversation.
package models

import "time"

// ConversationStatus is the lifecycle status stored on a conversation record.
type ConversationStatus string

const (
	ConversationStatusAnalyzing ConversationStatus = "analyzing"
	ConversationStatusCompleted ConversationStatus = "completed"
	ConversationStatusError     ConversationStatus = "error"
)

// Conversation is the backend record created for every uploaded recording.
type Conversation struct {
	ID           string
	UserID       string
	Filename     string
	FileURL      string
	FileSize     int64
	MeetingType  string
	Approach     string
	Status       ConversationStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Participant is one speaker profile extracted from an analysis.
type Participant struct {
	ID             string
	ConversationID string
	Name           string
	Role           string
	Profile        []byte
}

// BehavioralAnalysis stores the raw analysis document for a conversation.
type BehavioralAnalysis struct {
	ID             string
	ConversationID string
	Result         []byte
	CreatedAt      time.Time
}

// Activity is a single activity-log row.
type Activity struct {
	ID             string
	UserID         string
	Action         string
	Result         string
	ConversationID string
	Detail         string
	CreatedAt      time.Time
}
