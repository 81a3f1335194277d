package bank

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"quizgen/internal/config"
	"quizgen/internal/models"
	"quizgen/internal/retrieval"
)

const compress = false

// Bank is a persistent vector index of previously accepted questions, so
// instructors can search what was already generated for a course.
type Bank struct {
	db            *chromem.DB
	collection    *chromem.Collection
	path          string
	encryptionKey string
}

// NewBank opens (or creates) the bank at cfg.Path. The pipeline's embedder
// drives the collection's embedding function; when the breaker has tripped
// the adapter reports an error and indexing is skipped for this process.
func NewBank(cfg config.BankConfig, embedder retrieval.Embedder) (*Bank, error) {
	db, err := chromem.NewPersistentDB(cfg.Path, compress)
	if err != nil {
		return nil, fmt.Errorf("failed to open question bank: %v", err)
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	return &Bank{
		db:            db,
		collection:    collection,
		path:          cfg.Path,
		encryptionKey: cfg.EncryptionKey,
	}, nil
}

func embeddingFunc(embedder retrieval.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec := embedder.Embed(ctx, text)
		if len(vec) == 0 {
			return nil, fmt.Errorf("embeddings are unavailable")
		}
		out := make([]float32, len(vec))
		for i, v := range vec {
			out[i] = float32(v)
		}
		return out, nil
	}
}

// AddQuestions indexes a run's accepted questions.
func (b *Bank) AddQuestions(ctx context.Context, runID string, qs []models.Question) error {
	if len(qs) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(qs))
	for i, q := range qs {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s-%d", runID, i+1),
			Content: q.Format(),
			Metadata: map[string]string{
				"run_id": runID,
				"type":   string(q.Type),
			},
		}
	}

	log.Info().Int("questions", len(docs)).Str("run_id", runID).Msg("Indexing questions in bank")
	if err := b.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add questions to bank: %v", err)
	}
	return nil
}

// Search returns the stored questions most similar to query.
func (b *Bank) Search(ctx context.Context, query string, topK int) ([]chromem.Result, error) {
	count := b.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}
	results, err := b.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank: %v", err)
	}
	return results, nil
}

// Export writes an encrypted snapshot of the collection next to the bank.
func (b *Bank) Export(ctx context.Context) error {
	if b.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	filePath := filepath.Join(b.path, b.collection.Name+".chromem")
	if err := b.db.ExportToFile(filePath, compress, b.encryptionKey, b.collection.Name); err != nil {
		return fmt.Errorf("failed to export bank: %v", err)
	}
	return nil
}
