package generator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"quizgen/internal/llmservice"
	"quizgen/internal/models"
	"quizgen/internal/questions"
)

// Batch drives the generation backend for one question type at a time.
type Batch struct {
	client  *llmservice.Client
	model   string
	opts    llmservice.GenerateOptions
	timeout time.Duration
}

func NewBatch(client *llmservice.Client, model string, opts llmservice.GenerateOptions, timeout time.Duration) *Batch {
	return &Batch{client: client, model: model, opts: opts, timeout: timeout}
}

// Generate requests count questions of qType from the backend and parses the
// raw response. It returns at most count questions and possibly fewer. A
// missing model, an error status, or a timeout all degrade to zero results;
// only a connection failure is returned as an error, so the caller can tell
// "backend down" apart from "backend produced nothing".
func (b *Batch) Generate(ctx context.Context, contextText string, qType models.QuestionType, count int, includeAnswers bool, previous []string) ([]models.Question, error) {
	log.Info().
		Str("type", string(qType)).
		Int("count", count).
		Bool("include_answers", includeAnswers).
		Msg("Generating question batch")

	prompt := buildPrompt(qType, count, contextText, includeAnswers, previous)

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	raw, err := b.client.Generate(callCtx, b.model, prompt, b.opts)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			log.Warn().Dur("timeout", b.timeout).Str("type", string(qType)).Msg("Generation timed out")
			return nil, nil
		case errors.Is(err, llmservice.ErrModelNotInstalled):
			log.Error().Str("model", b.model).Msg("Model is not installed on the backend")
			return nil, nil
		case llmservice.IsConnectionError(err):
			return nil, err
		default:
			log.Error().Err(err).Str("type", string(qType)).Msg("Generation request failed")
			return nil, nil
		}
	}

	log.Debug().Int("chars", len(raw)).Msg("Received generation response")

	parsed := questions.ParseResponse(raw, qType, count, includeAnswers)
	log.Info().Int("parsed", len(parsed)).Int("requested", count).Str("type", string(qType)).Msg("Parsed question batch")
	return parsed, nil
}
