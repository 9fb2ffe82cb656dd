package tts

import (
	"errors"
	"strconv"
)

var (
	// ErrEmptyText is returned when attempting to synthesize empty text.
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrNotConfigured is returned when the key or the region is missing.
	ErrNotConfigured = errors.New("speech service is not configured")
)

// ProviderError describes a failed synthesis call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
	// Retryable indicates a transient failure.
	Retryable bool
}

func (e *ProviderError) Error() string {
	msg := e.Provider
	if e.StatusCode != 0 {
		msg += " (status " + strconv.Itoa(e.StatusCode) + ")"
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
