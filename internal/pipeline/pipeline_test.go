package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"quizgen/internal/models"
)

type fakeProbe struct{ up bool }

func (f fakeProbe) Available(context.Context) bool { return f.up }

type fakeSelector struct{}

func (fakeSelector) Select(_ context.Context, chunks []models.Chunk, _ string, topK int) []models.Chunk {
	if topK > len(chunks) {
		topK = len(chunks)
	}
	return chunks[:topK]
}

type batchCall struct {
	qType    models.QuestionType
	count    int
	previous []string
}

type fakeBatch struct {
	results map[models.QuestionType][]models.Question
	errs    map[models.QuestionType]error
	calls   []batchCall
}

func (f *fakeBatch) Generate(_ context.Context, _ string, qType models.QuestionType, count int, _ bool, previous []string) ([]models.Question, error) {
	f.calls = append(f.calls, batchCall{qType: qType, count: count, previous: append([]string(nil), previous...)})
	if err := f.errs[qType]; err != nil {
		return nil, err
	}
	return f.results[qType], nil
}

func questionsOf(qType models.QuestionType, n int) []models.Question {
	qs := make([]models.Question, n)
	for i := range qs {
		qs[i] = models.Question{Type: qType, Prompt: fmt.Sprintf("%s question %d", qType, i+1)}
	}
	return qs
}

func staticExtract(text string) ExtractFunc {
	return func() (string, error) { return text, nil }
}

func newTestGenerator(probe Prober, batch BatchGenerator) *Generator {
	return NewGenerator(probe, fakeSelector{}, batch, 1500, 150, 3)
}

func TestGenerate_ServiceUnavailable(t *testing.T) {
	extracted := false
	g := newTestGenerator(fakeProbe{up: false}, &fakeBatch{})

	_, err := g.Generate(context.Background(), func() (string, error) {
		extracted = true
		return "text", nil
	}, Options{NumQuestions: 5, Types: "mcq"})

	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if extracted {
		t.Fatalf("extraction must not run when the probe fails")
	}
}

func TestGenerate_InvalidQuestionCount(t *testing.T) {
	g := newTestGenerator(fakeProbe{up: true}, &fakeBatch{})
	for _, n := range []int{0, -1, 51} {
		_, err := g.Generate(context.Background(), staticExtract("text"), Options{NumQuestions: n, Types: "mcq"})
		if !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("count %d: expected ErrInvalidRequest, got %v", n, err)
		}
	}
}

func TestGenerate_NoRecognizedTypes(t *testing.T) {
	g := newTestGenerator(fakeProbe{up: true}, &fakeBatch{})
	_, err := g.Generate(context.Background(), staticExtract("text"), Options{NumQuestions: 5, Types: "essay,oral"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestGenerate_EmptyDocument(t *testing.T) {
	g := newTestGenerator(fakeProbe{up: true}, &fakeBatch{})
	_, err := g.Generate(context.Background(), staticExtract("  \n 42 \n  "), Options{NumQuestions: 5, Types: "mcq"})
	if !errors.Is(err, ErrNoReadableText) {
		t.Fatalf("expected ErrNoReadableText, got %v", err)
	}
}

func TestGenerate_ExtractionErrorPropagates(t *testing.T) {
	g := newTestGenerator(fakeProbe{up: true}, &fakeBatch{})
	boom := errors.New("corrupt file")
	_, err := g.Generate(context.Background(), func() (string, error) { return "", boom }, Options{NumQuestions: 5, Types: "mcq"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestGenerate_PartialFailureStillSucceeds(t *testing.T) {
	batch := &fakeBatch{
		results: map[models.QuestionType][]models.Question{
			models.TypeTrueFalse: questionsOf(models.TypeTrueFalse, 5),
		},
		errs: map[models.QuestionType]error{
			models.TypeMCQ: errors.New("cannot connect to generation backend: connection refused"),
		},
	}
	g := newTestGenerator(fakeProbe{up: true}, batch)

	result, err := g.Generate(context.Background(), staticExtract("plenty of content"), Options{NumQuestions: 10, Types: "mcq,trueFalse"})
	if err != nil {
		t.Fatalf("partial failure must not fail the run, got %v", err)
	}
	if len(result.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(result.Questions))
	}
	if len(result.TypesWithErrors) != 1 || result.TypesWithErrors[0] != models.TypeMCQ {
		t.Fatalf("expected mcq in types_with_errors, got %v", result.TypesWithErrors)
	}
	if len(result.ConnectionErrors) != 1 {
		t.Fatalf("expected 1 connection error, got %v", result.ConnectionErrors)
	}
}

func TestGenerate_TotalFailureWithConnectionErrors(t *testing.T) {
	connErr := errors.New("cannot connect")
	batch := &fakeBatch{errs: map[models.QuestionType]error{
		models.TypeMCQ:       connErr,
		models.TypeTrueFalse: connErr,
	}}
	g := newTestGenerator(fakeProbe{up: true}, batch)

	_, err := g.Generate(context.Background(), staticExtract("content"), Options{NumQuestions: 4, Types: "mcq,tf"})
	var total *TotalGenerationError
	if !errors.As(err, &total) {
		t.Fatalf("expected TotalGenerationError, got %v", err)
	}
	if len(total.ConnectionErrors) != 2 {
		t.Fatalf("expected 2 connection errors, got %v", total.ConnectionErrors)
	}
	if !strings.Contains(total.Error(), "cannot connect") {
		t.Fatalf("expected connection wording, got %q", total.Error())
	}
}

func TestGenerate_TotalFailureWithoutConnectionErrors(t *testing.T) {
	// The backend answered every time but nothing parseable came back.
	batch := &fakeBatch{}
	g := newTestGenerator(fakeProbe{up: true}, batch)

	_, err := g.Generate(context.Background(), staticExtract("content"), Options{NumQuestions: 4, Types: "mcq"})
	var total *TotalGenerationError
	if !errors.As(err, &total) {
		t.Fatalf("expected TotalGenerationError, got %v", err)
	}
	if len(total.ConnectionErrors) != 0 {
		t.Fatalf("expected no connection errors, got %v", total.ConnectionErrors)
	}
	if strings.Contains(total.Error(), "connect") {
		t.Fatalf("expected generic wording, got %q", total.Error())
	}
}

func TestGenerate_QuotasFollowCallerOrder(t *testing.T) {
	batch := &fakeBatch{results: map[models.QuestionType][]models.Question{
		models.TypeMCQ:         questionsOf(models.TypeMCQ, 4),
		models.TypeTrueFalse:   questionsOf(models.TypeTrueFalse, 3),
		models.TypeShortAnswer: questionsOf(models.TypeShortAnswer, 3),
	}}
	g := newTestGenerator(fakeProbe{up: true}, batch)

	result, err := g.Generate(context.Background(), staticExtract("content"), Options{NumQuestions: 10, Types: "mcq,trueFalse,shortAnswer"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(result.Questions) != 10 {
		t.Fatalf("expected 10 questions, got %d", len(result.Questions))
	}

	wantTypes := []models.QuestionType{models.TypeMCQ, models.TypeTrueFalse, models.TypeShortAnswer}
	wantCounts := []int{4, 3, 3}
	if len(batch.calls) != 3 {
		t.Fatalf("expected 3 batch calls, got %d", len(batch.calls))
	}
	for i, call := range batch.calls {
		if call.qType != wantTypes[i] || call.count != wantCounts[i] {
			t.Fatalf("call %d: expected %s/%d, got %s/%d", i, wantTypes[i], wantCounts[i], call.qType, call.count)
		}
	}
}

func TestGenerate_FingerprintsFlowToLaterBatches(t *testing.T) {
	batch := &fakeBatch{results: map[models.QuestionType][]models.Question{
		models.TypeMCQ: {{
			Type:    models.TypeMCQ,
			Prompt:  "What is recursion?",
			Options: map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		}},
		models.TypeTrueFalse: questionsOf(models.TypeTrueFalse, 1),
	}}
	g := newTestGenerator(fakeProbe{up: true}, batch)

	_, err := g.Generate(context.Background(), staticExtract("content"), Options{NumQuestions: 2, Types: "mcq,tf"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(batch.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(batch.calls))
	}
	if len(batch.calls[0].previous) != 0 {
		t.Fatalf("first batch must see no fingerprints, got %v", batch.calls[0].previous)
	}
	if len(batch.calls[1].previous) != 1 {
		t.Fatalf("second batch must see 1 fingerprint, got %v", batch.calls[1].previous)
	}
	if !strings.HasPrefix(batch.calls[1].previous[0], "Question: What is recursion?") {
		t.Fatalf("unexpected fingerprint: %q", batch.calls[1].previous[0])
	}
}
