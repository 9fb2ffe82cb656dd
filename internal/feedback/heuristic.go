package feedback

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/catalog"
)

const (
	MinScore = 1
	MaxScore = 10

	fillerStrength = "Soruları yanıtlamaya çalıştınız."
	fillerWeakness = "Daha da geliştirilebilecek belirgin bir zayıf yön bulunamadı."
)

// Keywords signal concrete examples and experience in an answer.
var Keywords = []string{"örnek", "tecrübe", "deneyim", "proje", "başarı", "çözüm", "analiz"}

// Score evaluates answers locally. It cannot fail.
//
// Every question contributes a length weight (5, 3, 2 or 1 for answers longer
// than 200, 100, 50 characters or shorter) and a keyword bonus (2 for three or
// more distinct keywords, 1 for one or two). The score is
// floor(total / (len(questions) * 1.4)) clamped to [1, 10].
func Score(professionID, positionID string, questions []ai.Question, answers []string) *ai.Feedback {
	var strengths, weaknesses []string
	total := 0

	for i := range questions {
		n := i + 1

		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}

		switch length := utf8.RuneCountInString(strings.TrimSpace(answer)); {
		case length > 200:
			strengths = append(strengths, fmt.Sprintf("Soru %d için detaylı ve kapsamlı bir cevap verdiniz.", n))
			total += 5
		case length > 100:
			strengths = append(strengths, fmt.Sprintf("Soru %d için yeterli uzunlukta bir cevap verdiniz.", n))
			total += 3
		case length > 50:
			weaknesses = append(weaknesses, fmt.Sprintf("Soru %d için cevabınız biraz kısa, daha fazla detay ekleyebilirdiniz.", n))
			total += 2
		default:
			weaknesses = append(weaknesses, fmt.Sprintf("Soru %d için cevabınız çok kısa ve yetersiz.", n))
			total++
		}

		switch hits := keywordHits(answer); {
		case hits >= 3:
			strengths = append(strengths, fmt.Sprintf("Soru %d için somut örnekler ve deneyimler paylaştınız.", n))
			total += 2
		case hits > 0:
			total++
		default:
			weaknesses = append(weaknesses, fmt.Sprintf("Soru %d için daha somut örnekler verebilirdiniz.", n))
		}
	}

	if len(strengths) == 0 {
		strengths = append(strengths, fillerStrength)
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, fillerWeakness)
	}

	score := normalize(total, len(questions))

	return &ai.Feedback{
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		OverallScore:    score,
		OverallFeedback: narrative(score, professionID, positionID),
	}
}

// normalize computes floor(total / (count * 1.4)) in integers.
func normalize(total, count int) int {
	if count <= 0 {
		return MinScore
	}
	return clamp(total * 10 / (count * 14))
}

func clamp(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}

func keywordHits(answer string) int {
	lower := strings.ToLower(answer)
	hits := 0
	for _, keyword := range Keywords {
		if strings.Contains(lower, keyword) {
			hits++
		}
	}
	return hits
}

func narrative(score int, professionID, positionID string) string {
	profession, position := fieldPhrases(professionID, positionID)

	switch {
	case score >= 8:
		return fmt.Sprintf("Tebrikler! Mülakat sorularına verdiğiniz cevaplar çok iyi. %s alanında %s pozisyonu için güçlü bir aday olduğunuzu gösterdiniz. Cevaplarınızda somut örnekler verdikçe ve deneyimlerinizi detaylandırdıkça başarı şansınız artacaktır.", profession, position)
	case score >= 5:
		return fmt.Sprintf("Mülakat performansınız ortalama düzeyde. %s alanında %s pozisyonu için cevaplarınızda bazı güçlü yönler var, ancak geliştirilebilecek alanlar da mevcut. Daha somut örnekler vermek ve deneyimlerinizi daha detaylı anlatmak, mülakatlarınızda size avantaj sağlayacaktır.", profession, position)
	default:
		return fmt.Sprintf("Mülakat performansınızı geliştirmeye ihtiyacınız var. %s alanında %s pozisyonu için cevaplarınız genellikle kısa ve yeterince detay içermiyor. STAR (Durum, Görev, Eylem, Sonuç) tekniğini kullanarak cevaplarınızı yapılandırmayı deneyebilirsiniz. Ayrıca, sektör terminolojisini daha fazla kullanmanız ve somut başarı örnekleri vermeniz faydalı olacaktır.", profession, position)
	}
}

// fieldPhrases names the profession and position in narratives: custom
// entries are referred to generically, cataloged ones by title.
func fieldPhrases(professionID, positionID string) (string, string) {
	profession, position := catalog.TitleFor(professionID, positionID)

	if catalog.IsCustom(professionID) {
		profession = "Belirttiğiniz meslek grubu"
	}
	if catalog.IsCustom(positionID) {
		position = "belirttiğiniz pozisyon"
	}

	return profession, position
}
