package cmd

import (
	"fmt"
	"io"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/catalog"
	"github.com/spigell/interview-coach/internal/interview"
)

// questionsBlocked returns the error message for a questions screen that can
// not be shown, or an empty string.
func questionsBlocked(st interview.State) string {
	hasProfession := st.SelectedProfession != nil || st.CustomProfession != ""
	hasPosition := st.SelectedPosition != nil || st.CustomPosition != ""
	if !hasProfession || !hasPosition || len(st.Questions) == 0 {
		return msgNoSelection
	}
	return ""
}

// questionActions lists what can be done on question current of total.
func questionActions(current, total int, canListen bool) []string {
	items := []string{PromptAnswer}
	if canListen {
		items = append(items, PromptListen)
	}
	if current > 0 {
		items = append(items, PromptPrevious)
	}
	if current < total-1 {
		items = append(items, PromptNext)
	} else {
		items = append(items, PromptSubmit)
	}
	return append(items, PromptRestart)
}

func renderQuestion(w io.Writer, st interview.State, current int) {
	profession, position := selectionTitles(st)

	fmt.Fprintf(w, "\n%s / %s\n", profession, position)
	fmt.Fprintf(w, "Soru %d/%d: %s\n", current+1, len(st.Questions), st.Questions[current].Question)
	if answer := st.Answers[current]; answer != "" {
		fmt.Fprintf(w, "Cevabınız: %s\n", answer)
	}
}

func renderFeedback(w io.Writer, report *ai.Feedback) {
	fmt.Fprintf(w, "\nGenel Puan: %d/10\n", report.OverallScore)

	fmt.Fprintln(w, "\nGüçlü Yönler:")
	for _, item := range report.Strengths {
		fmt.Fprintf(w, "  • %s\n", item)
	}

	fmt.Fprintln(w, "\nGeliştirilmesi Gereken Yönler:")
	for _, item := range report.Weaknesses {
		fmt.Fprintf(w, "  • %s\n", item)
	}

	fmt.Fprintf(w, "\nGenel Değerlendirme:\n%s\n\n", report.OverallFeedback)
}

func renderQuestions(w io.Writer, list []ai.Question) {
	for i, q := range list {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
	}
}

func renderCatalog(w io.Writer, professions []catalog.Profession) {
	for _, p := range professions {
		fmt.Fprintf(w, "%s (%s)\n", p.Title, p.ID)
		for _, pos := range p.Positions {
			fmt.Fprintf(w, "  - %s (%s)\n", pos.Title, pos.ID)
		}
	}
}

func selectionTitles(st interview.State) (string, string) {
	profession, position := st.CustomProfession, st.CustomPosition
	if st.SelectedProfession != nil {
		profession = st.SelectedProfession.Title
	}
	if st.SelectedPosition != nil {
		position = st.SelectedPosition.Title
	}
	return profession, position
}
