package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"quizgen/internal/models"
	"quizgen/internal/questions"
	"quizgen/internal/textproc"
)

// The synthetic query used to rank chunks when no caller query exists.
const relevanceQuery = "Generate questions about the main topics and key concepts"

const (
	minQuestions = 1
	maxQuestions = 50
)

// Prober reports whether the generation backend process is reachable.
type Prober interface {
	Available(ctx context.Context) bool
}

// ChunkSelector picks the chunks most relevant to a query.
type ChunkSelector interface {
	Select(ctx context.Context, chunks []models.Chunk, query string, topK int) []models.Chunk
}

// BatchGenerator produces questions of one type from a context text. A
// returned error always means the backend could not be reached; every other
// failure mode is an empty batch.
type BatchGenerator interface {
	Generate(ctx context.Context, contextText string, qType models.QuestionType, count int, includeAnswers bool, previous []string) ([]models.Question, error)
}

// ExtractFunc yields the full extracted text of the source document. It is
// only invoked after the backend has been confirmed reachable.
type ExtractFunc func() (string, error)

// Options is the caller-facing request.
type Options struct {
	NumQuestions   int
	Types          string
	IncludeAnswers bool
}

// Generator sequences the whole document-to-questions pipeline.
type Generator struct {
	probe        Prober
	selector     ChunkSelector
	batch        BatchGenerator
	chunkSize    int
	chunkOverlap int
	topK         int
}

func NewGenerator(probe Prober, selector ChunkSelector, batch BatchGenerator, chunkSize, chunkOverlap, topK int) *Generator {
	return &Generator{
		probe:        probe,
		selector:     selector,
		batch:        batch,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		topK:         topK,
	}
}

// Generate runs the pipeline: probe, extract, normalize, chunk, select,
// plan, then one generation batch per type. A type that fails only skips
// that type; the run as a whole fails only when nothing at all was produced.
func (g *Generator) Generate(ctx context.Context, extract ExtractFunc, opts Options) (*models.PipelineResult, error) {
	if opts.NumQuestions < minQuestions || opts.NumQuestions > maxQuestions {
		return nil, fmt.Errorf("%w: num_questions must be between %d and %d, got %d",
			ErrInvalidRequest, minQuestions, maxQuestions, opts.NumQuestions)
	}

	normalized := questions.NormalizeTypes(opts.Types)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no valid question types in %q, use mcq, trueFalse, shortAnswer",
			ErrInvalidRequest, opts.Types)
	}

	log.Info().
		Int("num_questions", opts.NumQuestions).
		Interface("types", normalized).
		Bool("include_answers", opts.IncludeAnswers).
		Msg("Starting question generation")

	if !g.probe.Available(ctx) {
		return nil, ErrServiceUnavailable
	}

	text, err := extract()
	if err != nil {
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}

	cleaned := textproc.CleanText(text)
	if cleaned == "" {
		return nil, ErrNoReadableText
	}
	log.Debug().Int("chars", len(cleaned)).Msg("Normalized document text")

	chunks, err := textproc.ChunkText(cleaned, g.chunkSize, g.chunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}
	log.Debug().Int("chunks", len(chunks)).Msg("Chunked document text")

	topK := g.topK
	if topK > len(chunks) {
		topK = len(chunks)
	}
	selected := g.selector.Select(ctx, chunks, relevanceQuery, topK)
	if len(selected) == 0 {
		selected = chunks
		if len(selected) > topK {
			selected = selected[:topK]
		}
	}

	var contextParts []string
	for _, chunk := range selected {
		contextParts = append(contextParts, chunk.Content)
	}
	contextText := strings.Join(contextParts, "\n\n")
	log.Debug().Int("selected", len(selected)).Int("context_chars", len(contextText)).Msg("Selected relevant chunks")

	quotas := questions.Plan(opts.NumQuestions, normalized)

	result := &models.PipelineResult{TypesAttempted: normalized}
	var previous []string

	for _, quota := range quotas {
		batch, err := g.batch.Generate(ctx, contextText, quota.Type, quota.Requested, opts.IncludeAnswers, previous)
		if err != nil {
			// Backend unreachable for this type: record it and keep going,
			// the next type may still succeed.
			log.Error().Err(err).Str("type", string(quota.Type)).Msg("Connection error while generating batch")
			result.ConnectionErrors = append(result.ConnectionErrors, err.Error())
			result.TypesWithErrors = append(result.TypesWithErrors, quota.Type)
			continue
		}
		if len(batch) == 0 {
			log.Warn().Str("type", string(quota.Type)).Msg("Batch yielded no questions")
			result.TypesWithErrors = append(result.TypesWithErrors, quota.Type)
			continue
		}

		for _, q := range batch {
			previous = append(previous, q.Fingerprint())
		}
		result.Questions = append(result.Questions, batch...)
	}

	if len(result.Questions) == 0 {
		return nil, &TotalGenerationError{ConnectionErrors: result.ConnectionErrors}
	}

	log.Info().Int("questions", len(result.Questions)).Msg("Question generation finished")
	return result, nil
}
