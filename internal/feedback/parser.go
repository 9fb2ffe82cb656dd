package feedback

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spigell/interview-coach/internal/ai"
)

const (
	headerStrengths  = "Güçlü yönler"
	headerWeaknesses = "Geliştirilmesi gereken yönler"
	headerScore      = "Genel puan"
	headerNarrative  = "Genel geri bildirim"

	placeholderList      = "Değerlendirme yapılamadı."
	placeholderNarrative = "Mülakat performansınızı değerlendirmek için yeterli veri bulunamadı."
	defaultScore         = 5
)

// headers are searched in this order; each section runs until the next
// recognized header or the end of input.
var headers = []string{headerStrengths, headerWeaknesses, headerScore, headerNarrative}

// ParseReport extracts a feedback report from a completion laid out as
// "Güçlü yönler / Geliştirilmesi gereken yönler / Genel puan / Genel geri
// bildirim" sections. Missing sections are replaced by placeholders and a
// missing score defaults to 5. A completion without any recognized header is
// unparseable.
func ParseReport(raw string) (*ai.Feedback, error) {
	sections := splitSections(raw)
	if len(sections) == 0 {
		return nil, ai.Unparseable("no report sections found")
	}

	report := &ai.Feedback{
		Strengths:       listItems(sections[headerStrengths]),
		Weaknesses:      listItems(sections[headerWeaknesses]),
		OverallScore:    defaultScore,
		OverallFeedback: placeholderNarrative,
	}

	if score, ok := firstInteger(sections[headerScore]); ok {
		report.OverallScore = clamp(score)
	}

	if text := cleanNarrative(sections[headerNarrative]); text != "" {
		report.OverallFeedback = text
	}

	return report, nil
}

type span struct {
	header     string
	start, end int
}

// splitSections maps every header found to the text following it.
func splitSections(raw string) map[string]string {
	var found []span
	offset := 0
	for _, header := range headers {
		idx := indexFold(raw[offset:], header)
		if idx < 0 {
			continue
		}
		start := offset + idx
		end := start + headerLen(raw[start:], header)
		found = append(found, span{header: header, start: start, end: end})
		offset = end
	}

	sections := make(map[string]string, len(found))
	for i, s := range found {
		stop := len(raw)
		if i+1 < len(found) {
			stop = found[i+1].start
		}
		sections[s.header] = strings.TrimLeft(raw[s.end:stop], ":*# \t\r\n")
	}

	return sections
}

// indexFold is a case-insensitive strings.Index returning a byte offset into s.
func indexFold(s, substr string) int {
	n := utf8.RuneCountInString(substr)
	for i := range s {
		j := i
		for k := 0; k < n && j < len(s); k++ {
			_, size := utf8.DecodeRuneInString(s[j:])
			j += size
		}
		if strings.EqualFold(s[i:j], substr) {
			return i
		}
	}
	return -1
}

// headerLen is the byte length of header as it appears at the start of s.
func headerLen(s, header string) int {
	j := 0
	for k := utf8.RuneCountInString(header); k > 0 && j < len(s); k-- {
		_, size := utf8.DecodeRuneInString(s[j:])
		j += size
	}
	return j
}

// listItems splits a section into bullet items. Trailing enumeration of the
// next header (for example "2.") is dropped together with blank lines.
func listItems(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		if item := stripBullet(line); item != "" {
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return []string{placeholderList}
	}
	return items
}

func stripBullet(line string) string {
	line = strings.TrimSpace(strings.TrimLeft(line, "-*•# \t"))
	line = stripEnumeration(line)
	line = strings.TrimLeft(line, "-*•# \t")
	return strings.TrimSpace(strings.TrimRight(line, "* \t"))
}

// stripEnumeration removes a leading "1." or "2)" that is followed by
// whitespace or ends the line. Decimals such as "3.5" are kept.
func stripEnumeration(line string) string {
	digits := 0
	for digits < len(line) && isDigit(rune(line[digits])) {
		digits++
	}
	if digits == 0 {
		return line
	}

	rest := line[digits:]
	if rest == "" {
		return ""
	}
	if rest[0] != '.' && rest[0] != ')' {
		return line
	}

	rest = rest[1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return line
	}
	return rest
}

// firstInteger returns the first integer of the score section. Text after a
// colon wins, so "(1-10 arası): 8" yields 8.
func firstInteger(section string) (int, bool) {
	line, _, _ := strings.Cut(strings.TrimSpace(section), "\n")
	if _, after, ok := strings.Cut(line, ":"); ok {
		if n, ok := scanInteger(after); ok {
			return n, true
		}
	}
	return scanInteger(section)
}

func scanInteger(s string) (int, bool) {
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return MaxScore, true
	}
	return n, true
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func cleanNarrative(section string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(section), "*"))
}
