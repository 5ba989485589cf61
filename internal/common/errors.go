// Package common defines shared constants and sentinel errors used across
// client and server layers of RepSphere. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorNotConfigured = errors.New("not configured")
	ErrorValidation    = errors.New("validation error")

	// Auth errors (missing, invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Quota errors.
	ErrQuotaExceeded = errors.New("monthly quota exceeded")
)
