package feedback

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/catalog"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	system   string
	prompt   string
}

func (s *stubCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.system = system
	s.prompt = prompt
	return s.response, s.err
}

var sampleQuestions = []ai.Question{
	{ID: "1", Question: "Karmaşık bir sorunu anlatın."},
	{ID: "2", Question: "Teknik borcu nasıl yönetirsiniz?"},
}

func TestGenerateUsesRemoteReport(t *testing.T) {
	completer := &stubCompleter{response: "Güçlü yönler:\n- Net\nGeliştirilmesi gereken yönler:\n- Kısa\nGenel puan: 7\nGenel geri bildirim: İyi iş."}
	g := New(completer, zap.NewNop())

	got := g.Generate(context.Background(), catalog.CustomID("Pilot"), catalog.CustomID("Kaptan"), sampleQuestions, []string{"cevap", "  "})

	expected := &ai.Feedback{
		Strengths:       []string{"Net"},
		Weaknesses:      []string{"Kısa"},
		OverallScore:    7,
		OverallFeedback: "İyi iş.",
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %+v, got %+v", expected, got)
	}

	if completer.system != systemPrompt {
		t.Fatalf("unexpected system prompt: %q", completer.system)
	}
	for _, fragment := range []string{
		"pilot alanında kaptan pozisyonu",
		"Soru 1: Karmaşık bir sorunu anlatın.\nCevap 1: cevap",
		"Soru 2: Teknik borcu nasıl yönetirsiniz?\nCevap 2: Cevap verilmedi",
	} {
		if !strings.Contains(completer.prompt, fragment) {
			t.Fatalf("prompt %q does not contain %q", completer.prompt, fragment)
		}
	}
}

func TestGenerateFallsBackToHeuristic(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
	}{
		{name: "provider error", completer: &stubCompleter{err: &ai.ProviderError{Provider: "openai", StatusCode: 429, Retryable: true}}},
		{name: "no headers", completer: &stubCompleter{response: "Harika cevaplar!"}},
		{name: "canceled", completer: &stubCompleter{err: context.Canceled}},
	}

	answers := []string{"kısa", ""}
	expected := Score("tech", "software-engineer", sampleQuestions, answers)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.WarnLevel)
			g := New(tt.completer, zap.New(core))

			got := g.Generate(context.Background(), "tech", "software-engineer", sampleQuestions, answers)
			if !reflect.DeepEqual(got, expected) {
				t.Fatalf("expected heuristic report %+v, got %+v", expected, got)
			}
			if observed.FilterMessage("strategy failed, falling back").Len() != 1 {
				t.Fatalf("expected fallback warning, got %+v", observed.All())
			}
		})
	}
}

func TestGenerateUnexpectedErrorUsesHeuristic(t *testing.T) {
	core, observed := observer.New(zapcore.ErrorLevel)
	g := New(&stubCompleter{err: errors.New("boom")}, zap.New(core))

	got := g.Generate(context.Background(), "tech", "software-engineer", sampleQuestions, []string{"a", "b"})
	if got == nil || got.OverallScore != 1 {
		t.Fatalf("expected heuristic report, got %+v", got)
	}

	if observed.FilterMessage("feedback generation failed, using local evaluation").Len() != 1 {
		t.Fatalf("expected error entry, got %+v", observed.All())
	}
}

func TestGenerateWithoutCompleter(t *testing.T) {
	g := New(nil, nil)

	got := g.Generate(context.Background(), "tech", "software-engineer", sampleQuestions, []string{richAnswer, richAnswer})
	if got.OverallScore != 5 {
		t.Fatalf("expected heuristic score 5, got %d", got.OverallScore)
	}
}

func TestTranscript(t *testing.T) {
	got := Transcript(sampleQuestions[:1], nil)
	if got != "Soru 1: Karmaşık bir sorunu anlatın.\nCevap 1: Cevap verilmedi" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}
