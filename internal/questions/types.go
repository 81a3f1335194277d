package questions

import (
	"strings"

	"github.com/rs/zerolog/log"

	"quizgen/internal/models"
)

// Alias table for the type names callers send. Input is lowercased first, so
// camelCase frontend spellings collapse onto these keys.
var typeAliases = map[string]models.QuestionType{
	"mcq":            models.TypeMCQ,
	"multiplechoice": models.TypeMCQ,
	"truefalse":      models.TypeTrueFalse,
	"true/false":     models.TypeTrueFalse,
	"tf":             models.TypeTrueFalse,
	"shortanswer":    models.TypeShortAnswer,
	"short":          models.TypeShortAnswer,
	"sa":             models.TypeShortAnswer,
}

// NormalizeTypes parses a comma-separated list of requested type names into
// normalized types, preserving first-seen order and collapsing duplicates.
// Unrecognized names are dropped; an empty result means the request named no
// usable type at all.
func NormalizeTypes(raw string) []models.QuestionType {
	seen := make(map[models.QuestionType]bool)
	var normalized []models.QuestionType
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		qType, ok := typeAliases[name]
		if !ok {
			log.Warn().Str("type", name).Msg("Ignoring unrecognized question type")
			continue
		}
		if !seen[qType] {
			seen[qType] = true
			normalized = append(normalized, qType)
		}
	}
	return normalized
}
