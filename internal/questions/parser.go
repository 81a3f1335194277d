package questions

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"quizgen/internal/models"
)

var optionLetters = []string{"A", "B", "C", "D"}

var (
	segmentRe   = regexp.MustCompile(`(?i)\n?Q:\s*`)
	mcqPromptRe = regexp.MustCompile(`(?is)^(.+?)\n[a-d]\)`)
	mcqAnswerRe = regexp.MustCompile(`(?i)ANSWER:\s*([A-Da-d])`)
	tfAnswerRe  = regexp.MustCompile(`(?i)ANSWER:\s*(true|false)`)
	saAnswerRe  = regexp.MustCompile(`(?is)ANSWER:\s*(.+?)(?:q:|$)`)
	promptRe    = regexp.MustCompile(`(?is)^(.+?)(?:answer:|q:|$)`)

	optionRes = buildOptionRes()
)

func buildOptionRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(optionLetters))
	for _, letter := range optionLetters {
		// An option runs until the next option marker, an ANSWER: line, the
		// next question, or the end of the segment.
		res[letter] = regexp.MustCompile(`(?is)` + letter + `\)\s*(.+?)(?:\n[a-d]\)|answer:|q:|$)`)
	}
	return res
}

// SplitSegments cuts a raw backend response into per-question segments on the
// Q: marker, discarding any preamble before the first marker.
func SplitSegments(response string) []string {
	parts := segmentRe.Split(response, -1)
	if len(parts) == 0 {
		return nil
	}
	var segments []string
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}

// ParseResponse extracts up to count questions of the given type from a raw
// backend response. Segments that do not fit the expected shape are skipped;
// a bad segment never poisons the rest of the batch.
func ParseResponse(response string, qType models.QuestionType, count int, includeAnswers bool) []models.Question {
	var parsed []models.Question
	for _, segment := range SplitSegments(response) {
		q, ok := ParseSegment(segment, qType, includeAnswers)
		if !ok {
			continue
		}
		parsed = append(parsed, q)
		if len(parsed) >= count {
			break
		}
	}
	return parsed
}

// ParseSegment extracts one question from a Q:-delimited segment. The second
// return value is false when the segment does not satisfy the type's shape,
// e.g. a multiple-choice segment missing one of the four options.
func ParseSegment(segment string, qType models.QuestionType, includeAnswers bool) (models.Question, bool) {
	switch qType {
	case models.TypeMCQ:
		return parseMCQ(segment, includeAnswers)
	case models.TypeTrueFalse:
		return parseTrueFalse(segment, includeAnswers)
	default:
		return parseShortAnswer(segment, qType, includeAnswers)
	}
}

func parseMCQ(segment string, includeAnswers bool) (models.Question, bool) {
	m := mcqPromptRe.FindStringSubmatch(segment)
	if m == nil {
		return models.Question{}, false
	}

	options := make(map[string]string, len(optionLetters))
	for _, letter := range optionLetters {
		if om := optionRes[letter].FindStringSubmatch(segment); om != nil {
			options[letter] = strings.TrimSpace(om[1])
		}
	}
	// All four options or nothing.
	if len(options) != len(optionLetters) {
		log.Debug().Msg("Dropping multiple-choice segment with incomplete options")
		return models.Question{}, false
	}

	q := models.Question{
		Type:    models.TypeMCQ,
		Prompt:  strings.TrimSpace(m[1]),
		Options: options,
	}
	if includeAnswers {
		if am := mcqAnswerRe.FindStringSubmatch(segment); am != nil {
			q.CorrectOption = strings.ToUpper(am[1])
		}
	}
	return q, true
}

func parseTrueFalse(segment string, includeAnswers bool) (models.Question, bool) {
	m := promptRe.FindStringSubmatch(segment)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return models.Question{}, false
	}

	q := models.Question{
		Type:   models.TypeTrueFalse,
		Prompt: strings.TrimSpace(m[1]),
	}
	if includeAnswers {
		if am := tfAnswerRe.FindStringSubmatch(segment); am != nil {
			q.AnswerText = capitalize(am[1])
		}
	}
	return q, true
}

func parseShortAnswer(segment string, qType models.QuestionType, includeAnswers bool) (models.Question, bool) {
	m := promptRe.FindStringSubmatch(segment)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return models.Question{}, false
	}

	q := models.Question{
		Type:   qType,
		Prompt: strings.TrimSpace(m[1]),
	}
	if includeAnswers {
		if am := saAnswerRe.FindStringSubmatch(segment); am != nil {
			q.AnswerText = strings.TrimSpace(am[1])
		}
	}
	return q, true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
