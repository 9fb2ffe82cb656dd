package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsRecoverable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		expect bool
	}{
		{name: "nil", err: nil, expect: false},
		{name: "provider error", err: &ProviderError{Provider: "openai", StatusCode: 500}, expect: true},
		{name: "wrapped provider error", err: fmt.Errorf("call: %w", &ProviderError{Provider: "gemini"}), expect: true},
		{name: "unparseable", err: Unparseable("no lines"), expect: true},
		{name: "canceled", err: fmt.Errorf("wait: %w", context.Canceled), expect: true},
		{name: "deadline", err: context.DeadlineExceeded, expect: true},
		{name: "unexpected", err: errors.New("index out of range"), expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRecoverable(tt.err); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestProviderErrorMessage(t *testing.T) {
	err := &ProviderError{
		Provider:   "openai",
		StatusCode: 429,
		Message:    "rate limited",
		Cause:      errors.New("slow down"),
	}

	if got := err.Error(); got != "openai (status 429): rate limited: slow down" {
		t.Fatalf("unexpected message: %q", got)
	}

	if !errors.Is(err, err.Cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
}
