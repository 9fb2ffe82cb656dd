package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai/openai"
	"github.com/spigell/interview-coach/internal/tts"
)

func TestNewCompletersDisabled(t *testing.T) {
	q, f, err := newCompleters(context.Background(), AIConfig{Enabled: false}, zap.NewNop())
	if err != nil || q != nil || f != nil {
		t.Fatalf("expected no completers, got %v %v %v", q, f, err)
	}
}

func TestNewCompletersOpenAI(t *testing.T) {
	cfg := AIConfig{
		Enabled:  true,
		Provider: "OpenAI",
		OpenAI:   OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", MaxTokens: 300},
	}

	q, f, err := newCompleters(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	qc, ok := q.(*openai.Client)
	if !ok || qc.Model() != "gpt-4o-mini" {
		t.Fatalf("unexpected question completer: %#v", q)
	}
	if _, ok := f.(*openai.Client); !ok || f == q {
		t.Fatalf("expected a separate feedback client, got %#v", f)
	}
}

func TestNewCompletersKeyFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(file, []byte("sk-file\n"), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	cfg := AIConfig{Enabled: true, Provider: "openai", OpenAI: OpenAIConfig{APIKeyFile: file}}
	if q, _, err := newCompleters(context.Background(), cfg, zap.NewNop()); err != nil || q == nil {
		t.Fatalf("expected completer from key file, got %v %v", q, err)
	}
}

func TestNewCompletersErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  AIConfig
	}{
		{name: "missing openai key", cfg: AIConfig{Enabled: true, Provider: "openai"}},
		{name: "missing gemini key", cfg: AIConfig{Enabled: true, Provider: "gemini"}},
		{name: "unsupported provider", cfg: AIConfig{Enabled: true, Provider: "claude"}},
		{name: "unreadable key file", cfg: AIConfig{Enabled: true, OpenAI: OpenAIConfig{APIKeyFile: "/nonexistent/key"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, f, err := newCompleters(context.Background(), tt.cfg, zap.NewNop())
			if err == nil || q != nil || f != nil {
				t.Fatalf("expected error and no completers, got %v %v %v", q, f, err)
			}
		})
	}
}

func TestNewGeneratorsWithoutKeyStillWork(t *testing.T) {
	config := &Config{
		Interview: InterviewConfig{QuestionCount: 2},
		AI:        AIConfig{Enabled: true, Provider: "openai"},
	}

	questionGen, feedbackGen := newGenerators(context.Background(), config, zap.NewNop())

	list := questionGen.Generate(context.Background(), "custom-pilot", "custom-kaptan")
	if len(list) != 2 || list[0].ID != "default-1" {
		t.Fatalf("expected defaults, got %+v", list)
	}

	if report := feedbackGen.Generate(context.Background(), "custom-pilot", "custom-kaptan", list, []string{"", ""}); report == nil {
		t.Fatalf("expected a report")
	}
}

func TestNewSynthesizer(t *testing.T) {
	if _, err := newSynthesizer(TTSConfig{}, zap.NewNop()); !errors.Is(err, tts.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	synth, err := newSynthesizer(TTSConfig{Azure: AzureConfig{Key: "k", Region: "westeurope"}}, zap.NewNop())
	if err != nil || synth == nil {
		t.Fatalf("unexpected result: %v %v", synth, err)
	}
}
