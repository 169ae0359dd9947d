// Package common defines shared constants and sentinel errors used across
// storage, service and transport layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// History errors.
	ErrSlotTooLarge    = errors.New("history slot size limit exceeded")
	ErrHistoryNotSaved = errors.New("images generated but not saved to history")
	ErrInlineData      = errors.New("record holds inline image data")

	// Credential errors.
	ErrNoAPIKey        = errors.New("no OpenAI API key configured")
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
