package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnavailable means the availability probe failed; no work was
	// attempted.
	ErrServiceUnavailable = errors.New("generation service is unavailable, ensure the backend is running")

	// ErrNoReadableText means extraction produced an empty blob.
	ErrNoReadableText = errors.New("could not extract readable text from the document")

	// ErrInvalidRequest covers an out-of-bounds question count or a request
	// naming no recognized question type.
	ErrInvalidRequest = errors.New("invalid generation request")
)

// TotalGenerationError reports that zero questions were produced across all
// requested types. ConnectionErrors distinguishes "the backend was
// unreachable for every attempt" from "the backend answered but nothing
// parseable came back".
type TotalGenerationError struct {
	ConnectionErrors []string
}

func (e *TotalGenerationError) Error() string {
	if len(e.ConnectionErrors) > 0 {
		return fmt.Sprintf("failed to generate questions: cannot connect to the generation service (%d attempts failed)", len(e.ConnectionErrors))
	}
	return "failed to generate any questions: the backend produced no parseable output"
}
