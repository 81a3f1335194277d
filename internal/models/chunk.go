package models

// Chunk represents one window of the source document
type Chunk struct {
	Index   int
	Content string
}
