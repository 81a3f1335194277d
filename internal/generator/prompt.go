package generator

import (
	"fmt"
	"strings"

	"quizgen/internal/models"
)

// The backend is prompted with an exact textual format so the parser can cut
// its output apart again. Context is truncated to bound prompt size.
const maxContextLen = 1500

const (
	mcqFormat = `Q: [question text]
A) [option]
B) [option]
C) [option]
D) [option]`
	mcqAnswerLine = "\nANSWER: [A/B/C/D]"

	tfFormat       = "Q: [statement]"
	tfAnswerFormat = `Q: [statement]
ANSWER: True
(or)
Q: [statement]
ANSWER: False`

	saFormat       = "Q: [question]"
	saAnswerFormat = `Q: [question]
ANSWER: [brief answer]`
)

// buildPrompt assembles the generation prompt for one batch. Previously seen
// question fingerprints are included as an instruction to steer the backend
// away from repeats; they are advisory, not a filter.
func buildPrompt(qType models.QuestionType, count int, contextText string, includeAnswers bool, previous []string) string {
	if len(contextText) > maxContextLen {
		contextText = contextText[:maxContextLen]
	}

	var subject, format string
	switch qType {
	case models.TypeMCQ:
		subject = "multiple choice questions"
		format = mcqFormat
		if includeAnswers {
			format += mcqAnswerLine
		}
	case models.TypeTrueFalse:
		subject = "true/false statements"
		format = tfFormat
		if includeAnswers {
			format = tfAnswerFormat
		}
	default:
		subject = "short answer questions"
		format = saFormat
		if includeAnswers {
			format = saAnswerFormat
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create %d %s from this text.\n\n", count, subject)
	fmt.Fprintf(&b, "For each, use this EXACT format:\n%s\n", format)
	if len(previous) > 0 {
		b.WriteString("\nDo not repeat any of these already generated questions:\n")
		for _, p := range previous {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	fmt.Fprintf(&b, "\nText: %s", contextText)
	return b.String()
}
