package textproc

import (
	"fmt"

	"quizgen/internal/models"
)

// ChunkText splits text into fixed-size windows where each window after the
// first starts overlap characters before the previous window's end. The final
// window may be shorter than chunkSize. overlap must be smaller than
// chunkSize, otherwise the window would never advance.
func ChunkText(text string, chunkSize, overlap int) ([]models.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}

	if len(text) <= chunkSize {
		return []models.Chunk{{Index: 0, Content: text}}, nil
	}

	var chunks []models.Chunk
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, models.Chunk{Index: len(chunks), Content: text[start:end]})
		if end >= len(text) {
			break
		}
		start = end - overlap
	}
	return chunks, nil
}
