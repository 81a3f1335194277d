package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"quizgen/internal/config"
	"quizgen/internal/helper"
	"quizgen/internal/models"
)

// GenerationRun records one pipeline invocation and what it was asked for.
type GenerationRun struct {
	bun.BaseModel `bun:"table:generation_runs,alias:gr"`

	ID           string    `bun:"id,pk"`
	SourceFile   string    `bun:"source_file,notnull"`
	NumRequested int       `bun:"num_requested,notnull"`
	Types        []string  `bun:"types,array"`
	NumProduced  int       `bun:"num_produced,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// QuestionRecord is one accepted question inside a run.
type QuestionRecord struct {
	bun.BaseModel `bun:"table:questions,alias:q"`

	ID       int64  `bun:"id,pk,autoincrement"`
	RunID    string `bun:"run_id,notnull"`
	Type     string `bun:"type,notnull"`
	Position int    `bun:"position,notnull"`
	Content  string `bun:"content,notnull"`
}

func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func InitDB(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*GenerationRun)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	_, err := db.NewCreateTable().Model((*QuestionRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

// SaveRun persists a finished run together with its accepted questions and
// returns the run id.
func SaveRun(ctx context.Context, db *bun.DB, sourceFile string, result models.PipelineResult, numRequested int) (string, error) {
	runID, err := helper.GenerateUUID()
	if err != nil {
		return "", err
	}

	types := make([]string, len(result.TypesAttempted))
	for i, t := range result.TypesAttempted {
		types[i] = string(t)
	}

	run := &GenerationRun{
		ID:           runID,
		SourceFile:   sourceFile,
		NumRequested: numRequested,
		Types:        types,
		NumProduced:  len(result.Questions),
	}
	if _, err := db.NewInsert().Model(run).Exec(ctx); err != nil {
		return "", err
	}

	if len(result.Questions) == 0 {
		return runID, nil
	}

	records := make([]QuestionRecord, len(result.Questions))
	for i, q := range result.Questions {
		records[i] = QuestionRecord{
			RunID:    runID,
			Type:     string(q.Type),
			Position: i + 1,
			Content:  q.Format(),
		}
	}
	_, err = db.NewInsert().Model(&records).Exec(ctx)
	return runID, err
}

// RunQuestions loads the questions of one run in their original order.
func RunQuestions(ctx context.Context, db *bun.DB, runID string) ([]QuestionRecord, error) {
	var records []QuestionRecord
	err := db.NewSelect().
		Model(&records).
		Where("run_id = ?", runID).
		Order("position ASC").
		Scan(ctx)
	return records, err
}

// RecentRuns lists the latest runs, newest first.
func RecentRuns(ctx context.Context, db *bun.DB, limit int) ([]GenerationRun, error) {
	var runs []GenerationRun
	err := db.NewSelect().
		Model(&runs).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return runs, err
}
