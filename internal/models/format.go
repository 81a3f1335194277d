package models

import (
	"fmt"
	"strings"
)

// FingerprintLen is the prefix length used for approximate duplicate
// detection across batches.
const FingerprintLen = 100

var optionOrder = []string{"A", "B", "C", "D"}

// Format renders the question as the plain-text block shown to callers.
func (q Question) Format() string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(q.Prompt)

	if len(q.Options) > 0 {
		for _, letter := range optionOrder {
			b.WriteString("\n")
			b.WriteString(letter)
			b.WriteString(") ")
			b.WriteString(q.Options[letter])
		}
		if q.CorrectOption != "" {
			b.WriteString("\nCorrect Answer: ")
			b.WriteString(q.CorrectOption)
		}
		return b.String()
	}

	if q.AnswerText != "" {
		b.WriteString("\nAnswer: ")
		b.WriteString(q.AnswerText)
	}
	return b.String()
}

// Render joins all accepted questions into one numbered plain-text listing.
func (r *PipelineResult) Render() string {
	blocks := make([]string, len(r.Questions))
	for i, q := range r.Questions {
		blocks[i] = fmt.Sprintf("%d. %s", i+1, q.Format())
	}
	return strings.Join(blocks, "\n\n")
}

// Fingerprint is the truncated prefix of the rendered question used to bias
// later batches away from repeats.
func (q Question) Fingerprint() string {
	text := q.Format()
	if len(text) > FingerprintLen {
		return text[:FingerprintLen]
	}
	return text
}
