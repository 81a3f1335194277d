package embedding

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"quizgen/internal/llmservice"
)

// Breaker is a process-wide latch for the embedding endpoint. It trips on the
// first failure and never resets for the lifetime of the process. A benign
// race where two callers both observe the latch open and each issue one more
// doomed call is acceptable; the latch only needs to be monotonic.
type Breaker struct {
	tripped atomic.Bool
}

func NewBreaker() *Breaker { return &Breaker{} }

func (b *Breaker) Trip()         { b.tripped.Store(true) }
func (b *Breaker) Tripped() bool { return b.tripped.Load() }

// Prompts are truncated before sending to bound request cost.
const maxPromptLen = 2000

// Embedder wraps the embedding endpoint behind the breaker. Embed never
// returns an error: any failure trips the breaker and yields a nil vector,
// and callers fall back to structural sampling.
type Embedder struct {
	client  *llmservice.Client
	model   string
	breaker *Breaker
}

func NewEmbedder(client *llmservice.Client, model string, breaker *Breaker) *Embedder {
	return &Embedder{client: client, model: model, breaker: breaker}
}

// Embed returns the vector for text, or nil if the endpoint is (or has ever
// been) unavailable. The prompt is truncated to bound request cost.
func (e *Embedder) Embed(ctx context.Context, text string) []float64 {
	if e.breaker.Tripped() {
		return nil
	}

	if len(text) > maxPromptLen {
		text = text[:maxPromptLen]
	}

	vec, err := e.client.Embeddings(ctx, e.model, text)
	if err != nil {
		e.breaker.Trip()
		log.Warn().Err(err).Msg("Embedding call failed, skipping all future embedding calls")
		return nil
	}
	return vec
}
