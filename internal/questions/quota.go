package questions

import "quizgen/internal/models"

// Plan splits total across the requested types in order. The first
// total%len(types) types absorb the remainder one extra each. Every type is
// guaranteed at least one question, so when total < len(types) the planned
// sum exceeds the nominal total.
func Plan(total int, types []models.QuestionType) []models.TypeQuota {
	if len(types) == 0 {
		return nil
	}

	base := total / len(types)
	remainder := total % len(types)
	if base < 1 {
		base = 1
		remainder = 0
	}

	quotas := make([]models.TypeQuota, len(types))
	for i, qType := range types {
		requested := base
		if i < remainder {
			requested++
		}
		quotas[i] = models.TypeQuota{Type: qType, Requested: requested}
	}
	return quotas
}
