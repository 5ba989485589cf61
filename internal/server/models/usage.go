// Package models holds the gateway's persisted types.
package models

import "time"

// UserLimits is the plan of one user. ResetDate ends the current usage
// window.
type UserLimits struct {
	UserID    string
	Tier      string
	Quota     int
	MaxFileMB int
	ResetDate time.Time
}

// UsageLog is one counted analysis request.
type UsageLog struct {
	ID        string
	UserID    string
	Filename  string
	CreatedAt time.Time
}
