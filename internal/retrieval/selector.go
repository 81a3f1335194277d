package retrieval

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"quizgen/internal/models"
)

// Embedder yields a vector for a piece of text, or nil when embeddings are
// unavailable.
type Embedder interface {
	Embed(ctx context.Context, text string) []float64
}

// Selector ranks chunks against a query by embedding similarity, falling
// back to evenly spaced structural sampling when embeddings are unavailable.
type Selector struct {
	embedder Embedder
}

func NewSelector(embedder Embedder) *Selector {
	return &Selector{embedder: embedder}
}

type scoredChunk struct {
	chunk models.Chunk
	score float64
}

// Select returns the topK chunks most relevant to query. With no usable
// query embedding it samples chunks evenly spaced across the document, in
// document order, so every region is still represented.
func (s *Selector) Select(ctx context.Context, chunks []models.Chunk, query string, topK int) []models.Chunk {
	if len(chunks) == 0 || topK <= 0 {
		return nil
	}
	if topK > len(chunks) {
		topK = len(chunks)
	}

	log.Debug().Int("chunks", len(chunks)).Int("top_k", topK).Msg("Retrieving relevant chunks")

	queryEmbedding := s.embedder.Embed(ctx, query)
	if len(queryEmbedding) == 0 {
		log.Info().Msg("Embeddings unavailable, falling back to evenly spaced chunks")
		return sampleEvenly(chunks, topK)
	}

	scored := make([]scoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		vec := s.embedder.Embed(ctx, chunk.Content)
		scored = append(scored, scoredChunk{chunk: chunk, score: Cosine(queryEmbedding, vec)})
	}

	// Stable keeps document order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	selected := make([]models.Chunk, topK)
	for i := 0; i < topK; i++ {
		selected[i] = scored[i].chunk
	}
	return selected
}

func sampleEvenly(chunks []models.Chunk, topK int) []models.Chunk {
	if len(chunks) <= topK {
		return chunks
	}
	step := len(chunks) / topK
	selected := make([]models.Chunk, 0, topK)
	for i := 0; i < topK; i++ {
		selected = append(selected, chunks[i*step])
	}
	return selected
}
