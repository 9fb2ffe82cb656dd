package ai

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnparseable is returned when a completion arrives but carries nothing usable.
var ErrUnparseable = errors.New("unparseable completion")

type Question struct {
	ID       string `json:"id" yaml:"id"`
	Question string `json:"question" yaml:"question"`
}

type Feedback struct {
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	OverallScore    int      `json:"overall_score"`
	OverallFeedback string   `json:"overall_feedback"`
}

// Completer sends a system instruction and a user prompt to a language model
// and returns the completion text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// QuestionGenerator never fails: it always returns a non-empty list.
type QuestionGenerator interface {
	Generate(ctx context.Context, professionID, positionID string) []Question
}

// FeedbackGenerator never fails: it always returns a report.
type FeedbackGenerator interface {
	Generate(ctx context.Context, professionID, positionID string, questions []Question, answers []string) *Feedback
}

// ProviderError describes a failed call to a remote completion provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	msg := e.Provider
	if e.StatusCode != 0 {
		msg += " (status " + strconv.Itoa(e.StatusCode) + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsRecoverable reports whether err belongs to the failure kinds a fallback
// chain is allowed to absorb: provider failures, unparseable completions and
// context cancellation.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	var providerErr *ProviderError
	switch {
	case errors.As(err, &providerErr):
		return true
	case errors.Is(err, ErrUnparseable):
		return true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

// Unparseable wraps ErrUnparseable with a reason.
func Unparseable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnparseable, fmt.Sprintf(format, args...))
}
