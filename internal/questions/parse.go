package questions

import (
	"strconv"
	"strings"

	"github.com/spigell/interview-coach/internal/ai"
)

// ParseQuestionList turns a completion into at most limit questions: blank
// lines are dropped and leading enumeration or bullet markers are removed.
// Ids are assigned as ai-1..ai-N.
func ParseQuestionList(raw string, limit int) ([]ai.Question, error) {
	var out []ai.Question
	for _, line := range strings.Split(raw, "\n") {
		text := stripMarker(line)
		if text == "" {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, ai.Question{
			ID:       "ai-" + strconv.Itoa(len(out)+1),
			Question: text,
		})
	}

	if len(out) == 0 {
		return nil, ai.Unparseable("no questions in completion")
	}

	return out, nil
}

// stripMarker removes "1.", "2)", "-", "*", "•" and markdown emphasis around
// a question. A number is only treated as enumeration when whitespace follows.
func stripMarker(line string) string {
	line = strings.TrimSpace(strings.TrimLeft(line, "-*•# \t"))

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		if next := digits + 1; next == len(line) || line[next] == ' ' || line[next] == '\t' {
			line = line[next:]
		}
	}

	line = strings.TrimLeft(line, "-*•# \t")
	return strings.TrimSpace(strings.TrimRight(line, "* \t"))
}
