package questions

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
	"github.com/spigell/interview-coach/internal/chain"
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

func TestGenerateReturnsTableForEveryPair(t *testing.T) {
	failing := &stubCompleter{err: &ai.ProviderError{Provider: "openai", StatusCode: 500}}
	g := New(failing, 2, zap.NewNop())

	for professionID, positions := range table {
		for positionID, expected := range positions {
			got := g.Generate(context.Background(), professionID, positionID)
			if !reflect.DeepEqual(got, expected) {
				t.Fatalf("%s/%s: expected %+v, got %+v", professionID, positionID, expected, got)
			}
		}
	}

	if failing.calls != 0 {
		t.Fatalf("remote step must not run for cataloged pairs, got %d calls", failing.calls)
	}
}

func TestGenerateDefaultsForAbsentPairs(t *testing.T) {
	g := New(nil, 2, zap.NewNop())

	for _, p := range catalog.List() {
		for _, pos := range p.Positions {
			if _, ok := Lookup(p.ID, pos.ID); ok {
				continue
			}
			got := g.Generate(context.Background(), p.ID, pos.ID)
			if !reflect.DeepEqual(got, defaultQuestions) {
				t.Fatalf("%s/%s: expected defaults, got %+v", p.ID, pos.ID, got)
			}
		}
	}

	if got := g.Generate(context.Background(), "astronaut", "pilot"); !reflect.DeepEqual(got, defaultQuestions) {
		t.Fatalf("expected defaults for unknown ids, got %+v", got)
	}
}

func TestGenerateCustomUsesRemote(t *testing.T) {
	completer := &stubCompleter{response: "1. Uçuş öncesi kontrol listesini anlatır mısınız?\n\n2) Acil durum deneyiminiz?\n3. Fazladan soru"}
	g := New(completer, 2, zap.NewNop())

	got := g.Generate(context.Background(), catalog.CustomID("Havacılık"), catalog.CustomID("Kıdemli Pilot"))

	expected := []ai.Question{
		{ID: "ai-1", Question: "Uçuş öncesi kontrol listesini anlatır mısınız?"},
		{ID: "ai-2", Question: "Acil durum deneyiminiz?"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected %+v, got %+v", expected, got)
	}

	if completer.system != systemPrompt {
		t.Fatalf("unexpected system prompt: %q", completer.system)
	}
	for _, fragment := range []string{"havacılık alanında", "kıdemli-pilot pozisyonu", "2 adet"} {
		if !strings.Contains(completer.prompt, fragment) {
			t.Fatalf("prompt %q does not contain %q", completer.prompt, fragment)
		}
	}
}

func TestGenerateCustomPositionUsesCatalogProfessionTitle(t *testing.T) {
	completer := &stubCompleter{response: "- Soru"}
	g := New(completer, 3, zap.NewNop())

	g.Generate(context.Background(), "tech", catalog.CustomID("Go Uzmanı"))

	if !strings.Contains(completer.prompt, "Teknoloji alanında go-uzmanı pozisyonu için 3 adet") {
		t.Fatalf("unexpected prompt: %q", completer.prompt)
	}
}

func TestGenerateCustomFallsBackOnRemoteFailure(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
	}{
		{name: "provider error", completer: &stubCompleter{err: &ai.ProviderError{Provider: "openai", StatusCode: 401}}},
		{name: "empty completion", completer: &stubCompleter{response: "\n  \n- \n"}},
		{name: "deadline", completer: &stubCompleter{err: context.DeadlineExceeded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, observed := observer.New(zapcore.WarnLevel)
			g := New(tt.completer, 2, zap.New(core))

			got := g.Generate(context.Background(), catalog.CustomID("Pilot"), "pilot")
			if !reflect.DeepEqual(got, defaultQuestions) {
				t.Fatalf("expected defaults, got %+v", got)
			}
			if tt.completer.calls != 1 {
				t.Fatalf("expected one remote attempt, got %d", tt.completer.calls)
			}
			if observed.FilterMessage("strategy failed, falling back").Len() != 1 {
				t.Fatalf("expected fallback warning, got %+v", observed.All())
			}
		})
	}
}

func TestGenerateUnexpectedErrorStillReturnsDefaults(t *testing.T) {
	core, observed := observer.New(zapcore.ErrorLevel)
	completer := &stubCompleter{err: errors.New("nil map write")}
	g := New(completer, 2, zap.New(core))

	got := g.Generate(context.Background(), catalog.CustomID("Pilot"), catalog.CustomID("Kaptan"))
	if !reflect.DeepEqual(got, defaultQuestions) {
		t.Fatalf("expected defaults, got %+v", got)
	}

	entries := observed.FilterMessage("question generation failed, using defaults").All()
	if len(entries) != 1 {
		t.Fatalf("expected error entry, got %+v", observed.All())
	}
	if entries[0].ContextMap()["profession_id"] != "custom-pilot" {
		t.Fatalf("expected selection fields, got %+v", entries[0].ContextMap())
	}
}

func TestGenerateWithoutCompleterSkipsRemote(t *testing.T) {
	g := New(nil, 0, nil)
	if g.count != DefaultCount {
		t.Fatalf("expected default count, got %d", g.count)
	}

	got := g.Generate(context.Background(), catalog.CustomID("Pilot"), catalog.CustomID("Kaptan"))
	if !reflect.DeepEqual(got, defaultQuestions) {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestGeneratedListsAreDetached(t *testing.T) {
	g := New(nil, 2, nil)

	first := g.Generate(context.Background(), "tech", "qa-engineer")
	first[0].Question = "changed"

	second := g.Generate(context.Background(), "tech", "qa-engineer")
	if second[0].Question == "changed" {
		t.Fatalf("table was mutated through a returned slice")
	}

	defaults := g.Generate(context.Background(), "legal", "judge")
	defaults[0].ID = "changed"
	if Defaults()[0].ID != "default-1" {
		t.Fatalf("defaults were mutated through a returned slice")
	}
}

func TestNewLogsChainSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	New(nil, 2, zap.New(core))

	entries := observed.FilterMessage("question chain ready").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 chain entry, got %d", len(entries))
	}

	ctx := entries[0].ContextMap()
	want := []chain.Capability{chain.RemoteGenerate, chain.StaticTable, chain.HardCodedDefault}
	if !reflect.DeepEqual(ctx["steps"], want) {
		t.Fatalf("unexpected steps: %v", ctx["steps"])
	}
	if ctx["remote"] != false {
		t.Fatalf("expected remote to be disabled, got %v", ctx["remote"])
	}
}
