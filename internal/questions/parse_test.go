package questions

import (
	"errors"
	"testing"

	"github.com/spigell/interview-coach/internal/ai"
)

func TestParseQuestionList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		limit  int
		expect []string
	}{
		{name: "numbered", raw: "1. Bir\n2. İki", limit: 2, expect: []string{"Bir", "İki"}},
		{name: "bullets and blanks", raw: "\n- Bir\n\n* İki\n• Üç\n", limit: 5, expect: []string{"Bir", "İki", "Üç"}},
		{name: "parenthesis enumeration", raw: "1) Bir\n10) On", limit: 0, expect: []string{"Bir", "On"}},
		{name: "limit applied", raw: "a\nb\nc", limit: 2, expect: []string{"a", "b"}},
		{
			name:   "bold numbered lines",
			raw:    "**1. Mikroservis mimarisini anlatın.**\n**2. Hata yönetimini nasıl yaparsınız?**",
			limit:  2,
			expect: []string{"Mikroservis mimarisini anlatın.", "Hata yönetimini nasıl yaparsınız?"},
		},
		{name: "decimal kept", raw: "3.5 yıllık deneyiminizi anlatın.", limit: 1, expect: []string{"3.5 yıllık deneyiminizi anlatın."}},
		{name: "numbers inside text kept", raw: "2024 yılında ne yaptınız?", limit: 1, expect: []string{"2024 yılında ne yaptınız?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseQuestionList(tt.raw, tt.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.expect) {
				t.Fatalf("expected %d questions, got %+v", len(tt.expect), got)
			}
			for i, q := range got {
				if q.Question != tt.expect[i] {
					t.Fatalf("question %d: expected %q, got %q", i, tt.expect[i], q.Question)
				}
				if want := "ai-" + string(rune('1'+i)); q.ID != want {
					t.Fatalf("question %d: expected id %q, got %q", i, want, q.ID)
				}
			}
		})
	}
}

func TestParseQuestionListEmpty(t *testing.T) {
	if _, err := ParseQuestionList(" \n-\n* \n", 2); !errors.Is(err, ai.ErrUnparseable) {
		t.Fatalf("expected ErrUnparseable, got %v", err)
	}
}
